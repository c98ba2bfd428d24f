package export

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/jobs-tracker/internal/entity"
)

type stubLister struct {
	jobs []*entity.Job
	err  error
}

func (s stubLister) List(context.Context) ([]*entity.Job, error) { return s.jobs, s.err }

func ptr[T any](v T) *T { return &v }

func readRows(t *testing.T, data []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	return rows
}

func TestExportJobsXLSX(t *testing.T) {
	jobs := []*entity.Job{
		{
			ID: 2, Company: "Globex", Title: "SRE",
			AppliedAt:    time.Date(2024, 4, 2, 15, 0, 0, 0, time.UTC),
			Result:       ptr("Offer"),
			Referral:     ptr(true),
			CustomFields: map[string]any{"recruiter": "Dana"},
		},
		{
			ID: 1, Company: "Acme", Title: "Engineer",
			AppliedAt:    time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
			CoverLetter:  ptr(false),
			CustomFields: map[string]any{"location": "Remote"},
		},
	}
	svc := NewService(stubLister{jobs: jobs}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	data, err := svc.ExportJobsXLSX(context.Background(), nil, nil)
	require.NoError(t, err)

	rows := readRows(t, data)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{
		"ID", "Company", "Title", "Applied", "Result", "Expectation", "Company Rate",
		"Cover Letter", "Referral", "Remark", "location", "recruiter",
	}, rows[0])
	assert.Equal(t, "Globex", rows[1][1])
	assert.Equal(t, "2024-04-02", rows[1][3])
	assert.Equal(t, "Offer", rows[1][4])
	assert.Equal(t, "yes", rows[1][8])
	assert.Equal(t, "Dana", rows[1][11])
	assert.Equal(t, "no", rows[2][7])
	assert.Equal(t, "Remote", rows[2][10])
}

func TestExportJobsXLSXWindow(t *testing.T) {
	jobs := []*entity.Job{
		{ID: 3, Company: "Initech", Title: "Dev", AppliedAt: time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Company: "Globex", Title: "SRE", AppliedAt: time.Date(2024, 4, 2, 23, 0, 0, 0, time.UTC)},
		{ID: 1, Company: "Acme", Title: "Engineer", AppliedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	svc := NewService(stubLister{jobs: jobs}, nil)

	from := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
	data, err := svc.ExportJobsXLSX(context.Background(), &from, &to)
	require.NoError(t, err)

	rows := readRows(t, data)
	require.Len(t, rows, 2)
	assert.Equal(t, "Globex", rows[1][1])
}

func TestExportJobsXLSXListError(t *testing.T) {
	svc := NewService(stubLister{err: errors.New("boom")}, nil)
	_, err := svc.ExportJobsXLSX(context.Background(), nil, nil)
	assert.Error(t, err)
}
