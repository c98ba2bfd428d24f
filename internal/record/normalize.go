package record

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"entgo.io/ent/schema/field"

	"github.com/joseph-ayodele/jobs-tracker/internal/common"
	"github.com/joseph-ayodele/jobs-tracker/internal/entity"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// NormalizeCreateInput validates a create request and fills in defaults.
// The result holds only known columns with coerced values.
func (s *Schema) NormalizeCreateInput(fields entity.Fields) (entity.Fields, error) {
	out, err := s.coerceAll(fields)
	if err != nil {
		return nil, err
	}

	validator := common.NewValidator()
	for _, c := range s.columns {
		if !c.Writable() {
			continue
		}
		if v, ok := out[c.Name]; ok && v != nil {
			continue
		}
		if def, ok := c.Default(); ok {
			out[c.Name] = normalizeDefault(def)
			continue
		}
		if !c.Nullable {
			validator.Field(c.Name, out[c.Name], common.Required)
		}
	}
	s.requireNonBlank(validator, out)
	if err := validator.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// NormalizeUpdateInput validates a partial update. No defaults are applied:
// only the supplied columns are returned.
func (s *Schema) NormalizeUpdateInput(fields entity.Fields) (entity.Fields, error) {
	if len(fields) == 0 {
		return nil, common.NewValidationError("no fields to update")
	}
	out, err := s.coerceAll(fields)
	if err != nil {
		return nil, err
	}

	validator := common.NewValidator()
	for name, v := range out {
		if v != nil {
			continue
		}
		c, _ := s.Lookup(name)
		if c.Nullable {
			continue
		}
		// a cleared object resets to its default, anything else must keep a value
		if def, ok := c.Default(); ok && c.Type == field.TypeJSON {
			out[name] = normalizeDefault(def)
			continue
		}
		validator.Field(name, v, common.NotNull)
	}
	s.requireNonBlank(validator, out)
	if err := validator.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// requireNonBlank rejects blank values for supplied non-null string columns.
func (s *Schema) requireNonBlank(validator *common.Validator, out entity.Fields) {
	for _, c := range s.columns {
		if c.Type != field.TypeString || c.Nullable {
			continue
		}
		if v, ok := out[c.Name]; ok && v != nil {
			validator.Field(c.Name, v, common.Required)
		}
	}
}

func (s *Schema) coerceAll(fields entity.Fields) (entity.Fields, error) {
	if err := s.CheckWritable(fields.Keys()); err != nil {
		return nil, err
	}
	if err := s.validateTypes(fields); err != nil {
		return nil, err
	}

	out := make(entity.Fields, len(fields))
	validator := common.NewValidator()
	for name, raw := range fields {
		c, _ := s.Lookup(name)
		v, err := c.Coerce(raw)
		if err != nil {
			validator.Add(name, raw, describe(c))
			continue
		}
		out[name] = v
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeDefault(v any) any {
	if t, ok := v.(time.Time); ok {
		return normalizeTime(t)
	}
	return v
}

func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// Coerce converts a raw client value into the column's Go type. Blank strings
// clear numeric and timestamp columns.
func (c Column) Coerce(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	switch c.Type {
	case field.TypeFloat64, field.TypeFloat32:
		return coerceFloat(raw)
	case field.TypeInt, field.TypeInt64:
		f, err := coerceFloat(raw)
		if err != nil || f == nil {
			return f, err
		}
		return int64(f.(float64)), nil
	case field.TypeBool:
		if b, ok := raw.(bool); ok {
			return b, nil
		}
	case field.TypeTime:
		return coerceTime(raw)
	case field.TypeJSON:
		return coerceObject(raw)
	case field.TypeString:
		if s, ok := raw.(string); ok {
			return s, nil
		}
	}
	return nil, fmt.Errorf("unexpected %T for %s", raw, c.Name)
}

func coerceFloat(raw any) (any, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil, nil
		}
		return strconv.ParseFloat(s, 64)
	}
	return nil, fmt.Errorf("unexpected %T", raw)
}

func coerceTime(raw any) (any, error) {
	switch v := raw.(type) {
	case time.Time:
		return normalizeTime(v), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil, nil
		}
		t, err := ParseTime(s)
		if err != nil {
			return nil, err
		}
		return normalizeTime(t), nil
	}
	return nil, fmt.Errorf("unexpected %T", raw)
}

// ParseTime accepts RFC3339 timestamps, plain dates and the text forms
// SQLite stores timestamps in.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

func coerceObject(raw any) (any, error) {
	switch v := raw.(type) {
	case map[string]any:
		return v, nil
	case entity.Fields:
		return map[string]any(v), nil
	}
	// any other map shape goes through JSON
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

// DriverValue converts a coerced value into what database/sql binds. Objects
// are stored as JSON text.
func (c Column) DriverValue(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch c.Type {
	case field.TypeJSON:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, common.NewValidationError(fmt.Sprintf("%s is not JSON encodable", c.Name))
		}
		return string(data), nil
	case field.TypeTime:
		if t, ok := v.(time.Time); ok {
			return normalizeTime(t), nil
		}
	}
	return v, nil
}
