package entity

import (
	"time"
)

// Fields is a client-supplied set of column values keyed by column name,
// the shape a JSON object decodes into.
type Fields map[string]any

// Keys returns the field names in no particular order.
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	return keys
}

// Job represents a job application for data transfer between layers.
type Job struct {
	ID           int64          `json:"id"`
	Company      string         `json:"company"`
	Title        string         `json:"title"`
	AppliedAt    time.Time      `json:"applied_at"`
	CoverLetter  *bool          `json:"cover_letter"`
	Expectation  *float64       `json:"expectation"`
	Result       *string        `json:"result"`
	CompanyRate  *float64       `json:"company_rate"`
	Referral     *bool          `json:"referral"`
	CustomFields map[string]any `json:"custom_fields"`
	Remark       *string        `json:"remark"`
}

// ToMap flattens the job into column/value pairs with JSON-friendly values.
// Nil optionals are kept as nil entries.
func (j *Job) ToMap() map[string]any {
	custom := j.CustomFields
	if custom == nil {
		custom = map[string]any{}
	}
	m := map[string]any{
		"id":            j.ID,
		"company":       j.Company,
		"title":         j.Title,
		"applied_at":    j.AppliedAt.UTC().Format(time.RFC3339Nano),
		"cover_letter":  nil,
		"expectation":   nil,
		"result":        nil,
		"company_rate":  nil,
		"referral":      nil,
		"custom_fields": custom,
		"remark":        nil,
	}
	if j.CoverLetter != nil {
		m["cover_letter"] = *j.CoverLetter
	}
	if j.Expectation != nil {
		m["expectation"] = *j.Expectation
	}
	if j.Result != nil {
		m["result"] = *j.Result
	}
	if j.CompanyRate != nil {
		m["company_rate"] = *j.CompanyRate
	}
	if j.Referral != nil {
		m["referral"] = *j.Referral
	}
	if j.Remark != nil {
		m["remark"] = *j.Remark
	}
	return m
}
