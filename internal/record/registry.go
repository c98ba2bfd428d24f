package record

import (
	"strings"

	"github.com/joseph-ayodele/jobs-tracker/constants"
	"github.com/joseph-ayodele/jobs-tracker/internal/common"
	"github.com/joseph-ayodele/jobs-tracker/internal/entity"
)

// ResultPolicy decides what happens to result labels outside the registry.
type ResultPolicy string

const (
	// PolicyLenient stores unknown labels as given.
	PolicyLenient ResultPolicy = "lenient"
	// PolicyStrict rejects unknown labels with a validation error.
	PolicyStrict ResultPolicy = "strict"
)

// ParseResultPolicy maps a configuration value to a policy. Empty means lenient.
func ParseResultPolicy(s string) (ResultPolicy, error) {
	switch ResultPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyLenient:
		return PolicyLenient, nil
	case PolicyStrict:
		return PolicyStrict, nil
	}
	return "", common.NewAppError(common.CodeConfig, "unknown result policy "+s, common.ErrInvalidInput)
}

// ResultRegistry is the ordered, read-only set of known result labels.
type ResultRegistry struct {
	values []string
	set    map[string]struct{}
}

// NewResultRegistry keeps the first occurrence of every non-blank label.
// With no labels it falls back to the built-in set.
func NewResultRegistry(values []string) *ResultRegistry {
	if len(values) == 0 {
		values = constants.AsStringSlice()
	}
	r := &ResultRegistry{set: make(map[string]struct{}, len(values))}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := r.set[v]; dup {
			continue
		}
		r.set[v] = struct{}{}
		r.values = append(r.values, v)
	}
	return r
}

// Values returns a copy of the labels in display order.
func (r *ResultRegistry) Values() []string {
	out := make([]string, len(r.values))
	copy(out, r.values)
	return out
}

func (r *ResultRegistry) Len() int { return len(r.values) }

func (r *ResultRegistry) Contains(v string) bool {
	_, ok := r.set[v]
	return ok
}

// Check applies policy to the result value in fields, if any. It returns the
// unknown label that was let through so the caller can report it.
func (r *ResultRegistry) Check(policy ResultPolicy, fields entity.Fields) (string, error) {
	raw, ok := fields["result"]
	if !ok || raw == nil {
		return "", nil
	}
	label, ok := raw.(string)
	if !ok || label == "" || r.Contains(label) {
		return "", nil
	}
	if policy == PolicyStrict {
		return "", common.NewValidator().Field("result", label, common.OneOf(r.values)).Err()
	}
	return label, nil
}
