package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
)

// Job is a single job application. Field order is the column order used for
// SELECT and RETURNING lists.
type Job struct{ ent.Schema }

func (Job) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "jobs"},
	}
}

func (Job) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("id").
			Immutable().
			StorageKey("id"),
		field.String("company").NotEmpty(),
		field.String("title").NotEmpty(),
		field.Time("applied_at").
			Default(time.Now).
			SchemaType(map[string]string{dialect.Postgres: "timestamptz"}),
		field.Bool("cover_letter").Optional().Nillable(),
		field.Float("expectation").Optional().Nillable().
			Comment("expected compensation"),
		// labels come from the result registry, free text is tolerated
		field.String("result").Optional().Nillable(),
		field.Float("company_rate").Optional().Nillable(),
		field.Bool("referral").Optional().Nillable(),
		field.JSON("custom_fields", map[string]any{}).
			Default(func() map[string]any { return map[string]any{} }).
			SchemaType(map[string]string{dialect.Postgres: "jsonb"}),
		field.String("remark").Optional().Nillable(),
	}
}

// Table returns the storage table declared in the schema annotations.
func (j Job) Table() string {
	for _, a := range j.Annotations() {
		if ann, ok := a.(entsql.Annotation); ok && ann.Table != "" {
			return ann.Table
		}
	}
	return "jobs"
}
