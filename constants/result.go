package constants

import (
	"strings"
)

// Result is the outcome label of a job application.
type Result string

const (
	ResultApplied   Result = "Applied"
	ResultInterview Result = "Interview"
	ResultOffer     Result = "Offer"
	ResultRejected  Result = "Rejected"
	ResultGhosted   Result = "Ghosted"
)

var allResults = []Result{
	ResultApplied,
	ResultInterview,
	ResultOffer,
	ResultRejected,
	ResultGhosted,
}

// AsStringSlice returns the default result labels in display order.
func AsStringSlice() []string {
	result := make([]string, len(allResults))
	for i, r := range allResults {
		result[i] = string(r)
	}
	return result
}

// ParseResultList splits a comma separated list of labels, as found in configuration.
func ParseResultList(input string) []string {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
