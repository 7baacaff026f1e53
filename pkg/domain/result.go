package domain

// Result is the outcome of a build or submit call, as returned to transports.
type Result struct {
	RequestID string            `json:"request_id"`
	Form      *Form             `json:"form"`
	Changes   []AttributeChange `json:"changes,omitempty"`
	Errors    ValidationErrors  `json:"errors,omitempty"`
}

// Err returns the validation errors as an error, or nil when the submission is valid.
func (r *Result) Err() error {
	if r == nil || len(r.Errors) == 0 {
		return nil
	}
	return r.Errors
}
