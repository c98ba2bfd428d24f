package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/jobs-tracker/internal/common"
	"github.com/joseph-ayodele/jobs-tracker/internal/entity"
	"github.com/joseph-ayodele/jobs-tracker/internal/querybuilder"
	"github.com/joseph-ayodele/jobs-tracker/internal/record"
	"github.com/joseph-ayodele/jobs-tracker/internal/repository"
	"github.com/joseph-ayodele/jobs-tracker/internal/testutil"
)

func newTestService(t *testing.T, policy record.ResultPolicy) *Service {
	t.Helper()
	conn := testutil.CreateTestDB(t)
	schema := record.MustNewSchema()
	builder, err := querybuilder.New(conn.Driver, schema)
	require.NoError(t, err)
	logger := testutil.Logger()
	repo := repository.NewJobRepository(conn.SQL, builder, schema, logger)
	return NewService(repo, builder, schema, record.NewResultRegistry(nil), policy, logger)
}

func TestLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, record.PolicyLenient)

	created, err := svc.Create(ctx, entity.Fields{"company": "Acme", "title": "Engineer"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.WithinDuration(t, time.Now(), created.AppliedAt, time.Minute)
	assert.Equal(t, map[string]any{}, created.CustomFields)
	assert.Nil(t, created.Result)

	updated, err := svc.Update(ctx, created.ID, entity.Fields{"result": "Interview"})
	require.NoError(t, err)
	require.NotNil(t, updated.Result)
	assert.Equal(t, "Interview", *updated.Result)

	// everything else is untouched
	updated.Result = nil
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.Company, updated.Company)
	assert.Equal(t, created.Title, updated.Title)
	assert.True(t, created.AppliedAt.Equal(updated.AppliedAt))
	assert.Equal(t, created.CustomFields, updated.CustomFields)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	assert.Equal(t, created.ID, list[0].ID)

	ok, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.Get(ctx, created.ID)
	assert.True(t, common.IsNotFound(err))
}

func TestListOrdersByIDDescending(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, record.PolicyLenient)

	var ids []int64
	for _, company := range []string{"Acme", "Globex", "Initech"} {
		job, err := svc.Create(ctx, entity.Fields{"company": company, "title": "Engineer"})
		require.NoError(t, err)
		ids = append(ids, job.ID)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int64{ids[2], ids[1], ids[0]}, []int64{list[0].ID, list[1].ID, list[2].ID})
}

func TestCreateNormalizesValues(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, record.PolicyLenient)

	job, err := svc.Create(ctx, entity.Fields{
		"company":       "Acme",
		"title":         "Engineer",
		"applied_at":    "2024-02-10",
		"expectation":   "",
		"company_rate":  "4.2",
		"cover_letter":  true,
		"custom_fields": map[string]any{"recruiter": "Dana", "rounds": 3.0},
		"remark":        "warm intro",
	})
	require.NoError(t, err)
	assert.Nil(t, job.Expectation)
	require.NotNil(t, job.CompanyRate)
	assert.Equal(t, 4.2, *job.CompanyRate)
	assert.True(t, *job.CoverLetter)
	assert.True(t, job.AppliedAt.Equal(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, map[string]any{"recruiter": "Dana", "rounds": 3.0}, job.CustomFields)
	assert.Equal(t, "warm intro", *job.Remark)
}

func TestPartialUpdateKeepsOtherFields(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, record.PolicyLenient)

	created, err := svc.Create(ctx, entity.Fields{
		"company": "Acme", "title": "Engineer", "expectation": 100000, "referral": true,
		"custom_fields": map[string]any{"source": "meetup"},
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, entity.Fields{"title": "Staff Engineer", "expectation": ""})
	require.NoError(t, err)
	assert.Equal(t, "Staff Engineer", updated.Title)
	assert.Nil(t, updated.Expectation)
	assert.Equal(t, "Acme", updated.Company)
	assert.True(t, *updated.Referral)
	assert.Equal(t, map[string]any{"source": "meetup"}, updated.CustomFields)

	cleared, err := svc.Update(ctx, created.ID, entity.Fields{"custom_fields": nil})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, cleared.CustomFields)
}

func TestUpdateMissingID(t *testing.T) {
	svc := newTestService(t, record.PolicyLenient)

	_, err := svc.Update(context.Background(), 404, entity.Fields{"result": "Offer"})
	require.Error(t, err)
	assert.True(t, common.IsNotFound(err))
	assert.False(t, common.IsPersistence(err))
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, record.PolicyLenient)

	job, err := svc.Create(ctx, entity.Fields{"company": "Acme", "title": "Engineer"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		ok, err := svc.Delete(ctx, job.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	_, err = svc.Get(ctx, job.ID)
	assert.True(t, common.IsNotFound(err))
}

func TestResultPolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("lenient stores unknown labels", func(t *testing.T) {
		svc := newTestService(t, record.PolicyLenient)
		job, err := svc.Create(ctx, entity.Fields{"company": "Acme", "title": "Engineer", "result": "Phone screen"})
		require.NoError(t, err)
		assert.Equal(t, "Phone screen", *job.Result)
	})

	t.Run("strict rejects unknown labels", func(t *testing.T) {
		svc := newTestService(t, record.PolicyStrict)
		_, err := svc.Create(ctx, entity.Fields{"company": "Acme", "title": "Engineer", "result": "Phone screen"})
		require.Error(t, err)
		assert.True(t, common.IsValidation(err))

		job, err := svc.Create(ctx, entity.Fields{"company": "Acme", "title": "Engineer", "result": "Offer"})
		require.NoError(t, err)
		_, err = svc.Update(ctx, job.ID, entity.Fields{"result": "Maybe"})
		assert.True(t, common.IsValidation(err))
	})

	t.Run("result types", func(t *testing.T) {
		svc := newTestService(t, record.PolicyLenient)
		assert.Equal(t, []string{"Applied", "Interview", "Offer", "Rejected", "Ghosted"}, svc.ResultTypes())
	})
}

func TestRejectedInputNeverReachesDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	schema := record.MustNewSchema()
	builder, err := querybuilder.New("postgres", schema)
	require.NoError(t, err)
	logger := testutil.Logger()
	svc := NewService(repository.NewJobRepository(db, builder, schema, logger), builder, schema, record.NewResultRegistry(nil), record.PolicyStrict, logger)

	ctx := context.Background()
	_, err = svc.Update(ctx, 1, entity.Fields{"result": "Offer", "salary": 1})
	assert.True(t, common.IsSchemaViolation(err))

	_, err = svc.Update(ctx, 1, entity.Fields{"id": 2})
	assert.True(t, common.IsSchemaViolation(err))

	_, err = svc.Create(ctx, entity.Fields{"title": "Engineer"})
	assert.True(t, common.IsValidation(err))

	_, err = svc.Create(ctx, entity.Fields{"company": "Acme", "title": "Engineer", "result": "Unknown"})
	assert.True(t, common.IsValidation(err))

	assert.NoError(t, mock.ExpectationsWereMet(), "no statement may run for rejected input")
}

func TestPersistenceFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	schema := record.MustNewSchema()
	builder, err := querybuilder.New("postgres", schema)
	require.NoError(t, err)
	logger := testutil.Logger()
	svc := NewService(repository.NewJobRepository(db, builder, schema, logger), builder, schema, record.NewResultRegistry(nil), "", logger)

	mock.ExpectExec(`DELETE FROM "jobs"`).WithArgs(int64(3)).WillReturnError(errors.New("database is locked"))

	ok, err := svc.Delete(context.Background(), 3)
	assert.False(t, ok)
	assert.True(t, common.IsPersistence(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
