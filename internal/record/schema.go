// Package record describes the shape of a job record: its columns, which of
// them a client may write, how raw client values are coerced, and which result
// labels are known.
package record

import (
	"reflect"
	"sort"
	"strings"

	"entgo.io/ent/schema/field"
	"github.com/cockroachdb/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"

	entschema "github.com/joseph-ayodele/jobs-tracker/db/ent/schema"
	"github.com/joseph-ayodele/jobs-tracker/internal/common"
)

// Column is one fixed column of the jobs table.
type Column struct {
	Name     string
	Type     field.Type
	Nullable bool
	ReadOnly bool
	Comment  string

	defaultFn func() any
}

// Writable reports whether a client may supply a value for the column.
func (c Column) Writable() bool { return !c.ReadOnly }

// Default returns a fresh default value and whether the column declares one.
func (c Column) Default() (any, bool) {
	if c.defaultFn == nil {
		return nil, false
	}
	return c.defaultFn(), true
}

// Schema is the read-only column allowlist of the jobs table.
type Schema struct {
	table   string
	columns []Column
	index   map[string]int
	types   *jsonschema.Schema
}

// NewSchema derives the column list from the ent declaration of a job.
func NewSchema() (*Schema, error) {
	job := entschema.Job{}
	s := &Schema{
		table: job.Table(),
		index: make(map[string]int),
	}
	for _, f := range job.Fields() {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, errors.Wrapf(d.Err, "field %q", d.Name)
		}
		name := d.Name
		if d.StorageKey != "" {
			name = d.StorageKey
		}
		col := Column{
			Name:      name,
			Type:      d.Info.Type,
			Nullable:  d.Optional,
			ReadOnly:  d.Immutable,
			Comment:   d.Comment,
			defaultFn: defaultFunc(d.Default),
		}
		s.index[name] = len(s.columns)
		s.columns = append(s.columns, col)
	}

	types, err := compileTypeSchema(s.columns)
	if err != nil {
		return nil, err
	}
	s.types = types
	return s, nil
}

// MustNewSchema is NewSchema for package-level initialization.
func MustNewSchema() *Schema {
	s, err := NewSchema()
	if err != nil {
		panic(err)
	}
	return s
}

func defaultFunc(v any) func() any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Func && rv.Type().NumIn() == 0 && rv.Type().NumOut() == 1 {
		return func() any { return rv.Call(nil)[0].Interface() }
	}
	return func() any { return v }
}

// Table returns the table name.
func (s *Schema) Table() string { return s.table }

// Columns returns every column in declaration order.
func (s *Schema) Columns() []Column {
	out := make([]Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// ColumnNames returns every column name in declaration order.
func (s *Schema) ColumnNames() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.Name
	}
	return names
}

// Lookup finds a column by exact name.
func (s *Schema) Lookup(name string) (Column, bool) {
	i, ok := s.index[name]
	if !ok {
		return Column{}, false
	}
	return s.columns[i], true
}

// CheckWritable returns a schema violation naming every key that is not a
// writable column. Names are sorted so the message is stable.
func (s *Schema) CheckWritable(keys []string) error {
	var unknown, readOnly []string
	for _, k := range keys {
		col, ok := s.Lookup(k)
		switch {
		case !ok:
			unknown = append(unknown, k)
		case !col.Writable():
			readOnly = append(readOnly, k)
		}
	}
	if len(unknown) == 0 && len(readOnly) == 0 {
		return nil
	}
	sort.Strings(unknown)
	sort.Strings(readOnly)

	msg := ""
	if len(unknown) > 0 {
		msg = "unknown field(s): " + strings.Join(unknown, ", ")
	}
	if len(readOnly) > 0 {
		if msg != "" {
			msg += "; "
		}
		msg += "read-only field(s): " + strings.Join(readOnly, ", ")
	}
	return common.NewSchemaViolationError(msg)
}
