package recskema

import "errors"

// Report statuses.
const (
	StatusOK       = "ok"
	StatusInvalid  = "invalid"
	StatusNotFound = "not_found"
	StatusError    = "error"
)

// Report is the transport-neutral rendering of a validation outcome. An HTTP
// layer maps StatusInvalid to 4xx (422) with Errors as the body and
// StatusNotFound to 404.
type Report struct {
	Status string              `json:"status"`
	Errors map[string][]string `json:"errors,omitempty"`
}

// NewReport classifies err.
func NewReport(err error) Report {
	if err == nil {
		return Report{Status: StatusOK}
	}
	if errors.Is(err, ErrNotFound) {
		return Report{Status: StatusNotFound, Errors: map[string][]string{"/": {err.Error()}}}
	}
	if iss, ok := AsIssues(err); ok {
		return Report{Status: StatusInvalid, Errors: iss.ByPath()}
	}
	return Report{Status: StatusError, Errors: map[string][]string{"/": {err.Error()}}}
}
