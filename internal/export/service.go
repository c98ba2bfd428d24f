package export

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/jobs-tracker/internal/entity"
)

// SheetName is the worksheet the jobs are written to.
const SheetName = "Applications"

// JobLister is the part of the record store an export needs.
type JobLister interface {
	List(ctx context.Context) ([]*entity.Job, error)
}

// Service produces XLSX bytes for exports.
type Service struct {
	jobs   JobLister
	logger *slog.Logger
}

func NewService(jobs JobLister, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{jobs: jobs, logger: logger}
}

// ExportJobsXLSX returns an XLSX workbook (as bytes) of jobs applied for in the window.
// If only from is provided -> from..today (inclusive).
// If only to is provided   -> beginning..to (inclusive).
// If neither is provided   -> all jobs.
func (s *Service) ExportJobsXLSX(ctx context.Context, from, to *time.Time) ([]byte, error) {
	start := time.Now()

	fromDate, toDate := window(from, to)

	all, err := s.jobs.List(ctx)
	if err != nil {
		return nil, err
	}
	jobs := make([]*entity.Job, 0, len(all))
	for _, j := range all {
		day := dateOnly(j.AppliedAt)
		if fromDate != nil && day.Before(*fromDate) {
			continue
		}
		if toDate != nil && day.After(*toDate) {
			continue
		}
		jobs = append(jobs, j)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, errors.Wrap(err, "rename sheet")
	}

	headers := []string{
		"ID",
		"Company",
		"Title",
		"Applied",
		"Result",
		"Expectation",
		"Company Rate",
		"Cover Letter",
		"Referral",
		"Remark",
	}
	customKeys := customFieldKeys(jobs)
	headers = append(headers, customKeys...)
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}

	row := 2
	for _, j := range jobs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(SheetName, cell, v)
		}

		write(1, j.ID)
		write(2, j.Company)
		write(3, j.Title)
		write(4, j.AppliedAt.UTC().Format("2006-01-02"))
		write(5, deref(j.Result))
		write(6, deref(j.Expectation))
		write(7, deref(j.CompanyRate))
		write(8, yesNo(j.CoverLetter))
		write(9, yesNo(j.Referral))
		write(10, truncate(deref(j.Remark), 140))
		for i, k := range customKeys {
			if v, ok := j.CustomFields[k]; ok && v != nil {
				write(11+i, v)
			}
		}
		row++
	}

	_ = f.SetColWidth(SheetName, "A", "A", 8)  // id
	_ = f.SetColWidth(SheetName, "B", "C", 28) // company, title
	_ = f.SetColWidth(SheetName, "D", "E", 14) // applied, result
	_ = f.SetColWidth(SheetName, "J", "J", 48) // remark

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "xlsx write")
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(jobs),
		"custom_columns", len(customKeys),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func window(from, to *time.Time) (*time.Time, *time.Time) {
	var fromDate, toDate *time.Time
	if from != nil {
		f := dateOnly(*from)
		fromDate = &f
	}
	if to != nil {
		t := dateOnly(*to)
		toDate = &t
	}
	if fromDate != nil && toDate == nil {
		t := dateOnly(time.Now())
		toDate = &t
	}
	return fromDate, toDate
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func customFieldKeys(jobs []*entity.Job) []string {
	seen := map[string]struct{}{}
	for _, j := range jobs {
		for k := range j.CustomFields {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func deref[T any](p *T) any {
	if p == nil {
		return ""
	}
	return *p
}

func yesNo(b *bool) string {
	switch {
	case b == nil:
		return ""
	case *b:
		return "yes"
	default:
		return "no"
	}
}

func truncate(s any, n int) any {
	str, ok := s.(string)
	if !ok || n <= 0 || len([]rune(str)) <= n {
		return s
	}
	r := []rune(str)
	return string(r[:n-1]) + "…"
}
