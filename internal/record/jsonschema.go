package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"entgo.io/ent/schema/field"
	"github.com/cockroachdb/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/jobs-tracker/internal/common"
)

// numeric columns also take numeric strings and "" (cleared)
const numericStringPattern = `^\s*(-?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?)?\s*$`

// BuildJobJSONSchema returns the JSON-Schema (draft 2020-12 subset) that raw
// client values must satisfy before coercion. Every property accepts null;
// required-ness is decided per operation.
func BuildJobJSONSchema(columns []Column) map[string]any {
	props := map[string]any{}
	for _, c := range columns {
		if !c.Writable() {
			continue
		}
		props[c.Name] = propFor(c)
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
	}
}

func propFor(c Column) map[string]any {
	switch c.Type {
	case field.TypeBool:
		return map[string]any{"type": []string{"boolean", "null"}}
	case field.TypeFloat64, field.TypeFloat32, field.TypeInt, field.TypeInt64:
		return map[string]any{
			"anyOf": []any{
				map[string]any{"type": "number"},
				map[string]any{"type": "string", "pattern": numericStringPattern},
				map[string]any{"type": "null"},
			},
		}
	case field.TypeJSON:
		return map[string]any{"type": []string{"object", "null"}}
	default:
		// strings and timestamps arrive as JSON strings
		return map[string]any{"type": []string{"string", "null"}}
	}
}

func describe(c Column) string {
	switch c.Type {
	case field.TypeBool:
		return "must be a boolean"
	case field.TypeFloat64, field.TypeFloat32, field.TypeInt, field.TypeInt64:
		return "must be a number or numeric string"
	case field.TypeJSON:
		return "must be an object"
	case field.TypeTime:
		return "must be an RFC3339 timestamp or YYYY-MM-DD date"
	default:
		return "must be a string"
	}
}

func compileTypeSchema(columns []Column) (*jsonschema.Schema, error) {
	b, err := json.Marshal(BuildJobJSONSchema(columns))
	if err != nil {
		return nil, errors.Wrap(err, "marshal schema")
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("job.json", bytes.NewReader(b)); err != nil {
		return nil, errors.Wrap(err, "add schema")
	}
	schema, err := compiler.Compile("job.json")
	if err != nil {
		return nil, errors.Wrap(err, "compile schema")
	}
	return schema, nil
}

// validateTypes checks raw values against the compiled JSON schema. The input
// is round-tripped through encoding/json so Go-typed values (ints, times) are
// seen the way a JSON client would send them.
func (s *Schema) validateTypes(fields map[string]any) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return common.NewValidationError(fmt.Sprintf("fields are not JSON encodable: %v", err))
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return common.NewValidationError(fmt.Sprintf("fields are not JSON encodable: %v", err))
	}
	err = s.types.Validate(v)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return errors.Wrap(err, "validate fields")
	}

	invalid := map[string]struct{}{}
	collectInstanceFields(ve, invalid)
	names := make([]string, 0, len(invalid))
	for n := range invalid {
		names = append(names, n)
	}
	sort.Strings(names)

	validator := common.NewValidator()
	for _, n := range names {
		col, ok := s.Lookup(n)
		if !ok {
			continue
		}
		validator.Add(n, fields[n], describe(col))
	}
	if !validator.HasErrors() {
		return common.NewValidationError(ve.Error())
	}
	return validator.Err()
}

func collectInstanceFields(ve *jsonschema.ValidationError, out map[string]struct{}) {
	if len(ve.Causes) == 0 {
		name := strings.TrimPrefix(ve.InstanceLocation, "/")
		if i := strings.Index(name, "/"); i >= 0 {
			name = name[:i]
		}
		if name != "" {
			out[name] = struct{}{}
		}
		return
	}
	for _, c := range ve.Causes {
		collectInstanceFields(c, out)
	}
}
