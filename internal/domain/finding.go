package domain

// Status classifies a Finding. Only StatusError blocks certification.
type Status string

const (
	StatusOK      Status = "ok"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// Detail is one field-level row backing a Finding.
type Detail struct {
	Context  string `json:"context"`
	Field    string `json:"field"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// Finding is a structured validation outcome from any validator stage.
type Finding struct {
	Status  Status   `json:"status"`
	Message string   `json:"message"`
	Details []Detail `json:"details,omitempty"`
}

// HasErrors reports whether any finding in the list is an error.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Status == StatusError {
			return true
		}
	}
	return false
}

// CountByStatus returns the number of findings with the given status.
func CountByStatus(findings []Finding, status Status) int {
	n := 0
	for _, f := range findings {
		if f.Status == status {
			n++
		}
	}
	return n
}
