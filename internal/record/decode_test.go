package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	s := MustNewSchema()
	applied := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("postgres style values", func(t *testing.T) {
		job, err := s.Decode([]any{
			int64(7), "Acme", "Engineer", applied, true, 100000.0,
			"Interview", nil, false, []byte(`{"source":"linkedin"}`), nil,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(7), job.ID)
		assert.Equal(t, "Acme", job.Company)
		assert.Equal(t, applied, job.AppliedAt)
		require.NotNil(t, job.CoverLetter)
		assert.True(t, *job.CoverLetter)
		require.NotNil(t, job.Result)
		assert.Equal(t, "Interview", *job.Result)
		assert.Nil(t, job.CompanyRate)
		require.NotNil(t, job.Referral)
		assert.False(t, *job.Referral)
		assert.Equal(t, map[string]any{"source": "linkedin"}, job.CustomFields)
		assert.Nil(t, job.Remark)
	})

	t.Run("sqlite style values", func(t *testing.T) {
		job, err := s.Decode([]any{
			int64(3), "Acme", "Engineer", "2024-03-01 09:00:00+00:00", int64(1), int64(5),
			nil, "4.5", int64(0), "{}", "follow up",
		})
		require.NoError(t, err)
		assert.True(t, job.AppliedAt.Equal(applied))
		assert.True(t, *job.CoverLetter)
		assert.Equal(t, 5.0, *job.Expectation)
		assert.Equal(t, 4.5, *job.CompanyRate)
		assert.False(t, *job.Referral)
		assert.Equal(t, map[string]any{}, job.CustomFields)
		assert.Equal(t, "follow up", *job.Remark)
	})

	t.Run("null custom_fields", func(t *testing.T) {
		job, err := s.Decode([]any{int64(1), "Acme", "Engineer", applied, nil, nil, nil, nil, nil, nil, nil})
		require.NoError(t, err)
		assert.NotNil(t, job.CustomFields)
	})

	t.Run("wrong width", func(t *testing.T) {
		_, err := s.Decode([]any{int64(1)})
		assert.Error(t, err)
	})
}
