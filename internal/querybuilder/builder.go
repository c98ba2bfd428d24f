// Package querybuilder turns normalized field sets into parameterized SQL.
// Column identifiers only ever come from the record schema; client values
// are always bound as arguments.
package querybuilder

import (
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"github.com/cockroachdb/errors"

	"github.com/joseph-ayodele/jobs-tracker/internal/common"
	"github.com/joseph-ayodele/jobs-tracker/internal/entity"
	"github.com/joseph-ayodele/jobs-tracker/internal/record"
)

// Kind is the statement type of a Mutation.
type Kind string

const (
	KindInsert Kind = "insert"
	KindUpdate Kind = "update"
)

// Binding is one column/value pair of a mutation.
type Binding struct {
	Column string
	Value  any
}

// Mutation is a built INSERT or UPDATE. Bindings follow schema column order;
// for updates the id is bound after every column value.
type Mutation struct {
	Kind      Kind
	Table     string
	ID        int64
	Bindings  []Binding
	Returning []string

	dialect string
}

// Columns returns the bound column names in order.
func (m *Mutation) Columns() []string {
	cols := make([]string, len(m.Bindings))
	for i, b := range m.Bindings {
		cols[i] = b.Column
	}
	return cols
}

// Query renders the statement. Null values are written as NULL literals and
// take no placeholder, so placeholders and args always line up.
func (m *Mutation) Query() (string, []any) {
	b := sql.Dialect(m.dialect)
	switch m.Kind {
	case KindUpdate:
		up := b.Update(m.Table)
		for _, bd := range m.Bindings {
			up.Set(bd.Column, bd.Value)
		}
		return up.Where(sql.EQ("id", m.ID)).Returning(m.Returning...).Query()
	default:
		ins := b.Insert(m.Table)
		for _, bd := range m.Bindings {
			ins.Set(bd.Column, bd.Value)
		}
		return ins.Returning(m.Returning...).Query()
	}
}

// Builder builds statements for one SQL dialect.
type Builder struct {
	dialect string
	schema  *record.Schema
}

// New returns a builder for driver, which must be postgres or sqlite3.
func New(driver string, schema *record.Schema) (*Builder, error) {
	switch driver {
	case dialect.Postgres, dialect.SQLite:
	default:
		return nil, errors.Newf("unsupported dialect %q", driver)
	}
	if schema == nil {
		return nil, errors.New("querybuilder: nil schema")
	}
	return &Builder{dialect: driver, schema: schema}, nil
}

// Insert builds an INSERT ... RETURNING for every supplied field.
func (b *Builder) Insert(fields entity.Fields) (*Mutation, error) {
	bindings, err := b.bindings(fields)
	if err != nil {
		return nil, err
	}
	if len(bindings) == 0 {
		return nil, common.NewValidationError("no fields to insert")
	}
	return &Mutation{
		Kind:      KindInsert,
		Table:     b.schema.Table(),
		Bindings:  bindings,
		Returning: b.schema.ColumnNames(),
		dialect:   b.dialect,
	}, nil
}

// Update builds an UPDATE ... WHERE id = ? RETURNING touching only the
// supplied fields.
func (b *Builder) Update(id int64, fields entity.Fields) (*Mutation, error) {
	bindings, err := b.bindings(fields)
	if err != nil {
		return nil, err
	}
	if len(bindings) == 0 {
		return nil, common.NewValidationError("no fields to update")
	}
	return &Mutation{
		Kind:      KindUpdate,
		Table:     b.schema.Table(),
		ID:        id,
		Bindings:  bindings,
		Returning: b.schema.ColumnNames(),
		dialect:   b.dialect,
	}, nil
}

func (b *Builder) bindings(fields entity.Fields) ([]Binding, error) {
	// reject before any SQL text exists
	if err := b.schema.CheckWritable(fields.Keys()); err != nil {
		return nil, err
	}
	out := make([]Binding, 0, len(fields))
	for _, c := range b.schema.Columns() {
		v, ok := fields[c.Name]
		if !ok {
			continue
		}
		dv, err := c.DriverValue(v)
		if err != nil {
			return nil, err
		}
		out = append(out, Binding{Column: c.Name, Value: dv})
	}
	return out, nil
}

// SelectAll lists every row, newest id first.
func (b *Builder) SelectAll() (string, []any) {
	d := sql.Dialect(b.dialect)
	return d.Select(b.schema.ColumnNames()...).
		From(d.Table(b.schema.Table())).
		OrderBy(sql.Desc("id")).
		Query()
}

// SelectByID fetches a single row.
func (b *Builder) SelectByID(id int64) (string, []any) {
	d := sql.Dialect(b.dialect)
	return d.Select(b.schema.ColumnNames()...).
		From(d.Table(b.schema.Table())).
		Where(sql.EQ("id", id)).
		Query()
}

// DeleteByID removes a single row.
func (b *Builder) DeleteByID(id int64) (string, []any) {
	return sql.Dialect(b.dialect).
		Delete(b.schema.Table()).
		Where(sql.EQ("id", id)).
		Query()
}

// Describe renders a mutation for debug logs without its values.
func Describe(m *Mutation) string {
	return fmt.Sprintf("%s %s %v", m.Kind, m.Table, m.Columns())
}
