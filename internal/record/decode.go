package record

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"entgo.io/ent/schema/field"
	"github.com/cockroachdb/errors"

	"github.com/joseph-ayodele/jobs-tracker/internal/entity"
)

// Decode builds a job from one row scanned in ColumnNames order. Drivers
// disagree on types (SQLite returns booleans as integers, JSON as text), so
// every column is converted by its declared type.
func (s *Schema) Decode(values []any) (*entity.Job, error) {
	if len(values) != len(s.columns) {
		return nil, errors.Newf("row has %d values, expected %d", len(values), len(s.columns))
	}
	job := &entity.Job{}
	for i, c := range s.columns {
		v, err := c.fromDriver(values[i])
		if err != nil {
			return nil, errors.Wrapf(err, "decode column %s", c.Name)
		}
		if err := assign(job, c.Name, v); err != nil {
			return nil, err
		}
	}
	if job.CustomFields == nil {
		job.CustomFields = map[string]any{}
	}
	return job, nil
}

func (c Column) fromDriver(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	if b, ok := raw.([]byte); ok {
		raw = string(b)
	}
	switch c.Type {
	case field.TypeInt64, field.TypeInt:
		switch v := raw.(type) {
		case int64:
			return v, nil
		case int32:
			return int64(v), nil
		case int:
			return int64(v), nil
		case float64:
			return int64(v), nil
		case string:
			return strconv.ParseInt(v, 10, 64)
		}
	case field.TypeFloat64, field.TypeFloat32:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case string:
			return strconv.ParseFloat(v, 64)
		}
	case field.TypeBool:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case int64:
			return v != 0, nil
		case string:
			return strconv.ParseBool(v)
		}
	case field.TypeTime:
		switch v := raw.(type) {
		case time.Time:
			return v.UTC(), nil
		case string:
			t, err := ParseTime(v)
			if err != nil {
				return nil, err
			}
			return t.UTC(), nil
		}
	case field.TypeJSON:
		switch v := raw.(type) {
		case map[string]any:
			return v, nil
		case string:
			m := map[string]any{}
			if v == "" {
				return m, nil
			}
			if err := json.Unmarshal([]byte(v), &m); err != nil {
				return nil, err
			}
			return m, nil
		}
	case field.TypeString:
		if v, ok := raw.(string); ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("unsupported driver value %T", raw)
}

func assign(job *entity.Job, name string, v any) error {
	if v == nil {
		return nil
	}
	switch name {
	case "id":
		job.ID = v.(int64)
	case "company":
		job.Company = v.(string)
	case "title":
		job.Title = v.(string)
	case "applied_at":
		job.AppliedAt = v.(time.Time)
	case "cover_letter":
		b := v.(bool)
		job.CoverLetter = &b
	case "expectation":
		f := v.(float64)
		job.Expectation = &f
	case "result":
		s := v.(string)
		job.Result = &s
	case "company_rate":
		f := v.(float64)
		job.CompanyRate = &f
	case "referral":
		b := v.(bool)
		job.Referral = &b
	case "custom_fields":
		job.CustomFields = v.(map[string]any)
	case "remark":
		s := v.(string)
		job.Remark = &s
	default:
		return errors.Newf("no job field for column %s", name)
	}
	return nil
}
