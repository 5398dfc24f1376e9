package domain

import "time"

// BatchFile is one uploaded export file, already read into memory.
type BatchFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// BatchInput is the full input of one validation run.
type BatchInput struct {
	Files []BatchFile `json:"files"`
}

// BatchResult is the complete outcome of one validation run. Certified is
// true iff no finding has status error.
type BatchResult struct {
	Certified  bool             `json:"certified"`
	Timestamp  time.Time        `json:"timestamp"`
	TotalFiles int              `json:"total_files"`
	Errors     int              `json:"errors"`
	Warnings   int              `json:"warnings"`
	ClosureID  string           `json:"closure_id"`
	Findings   []Finding        `json:"findings"`
	Totals     AggregatedTotals `json:"totals"`

	// Tickets holds the parsed ticket records sorted by ticket number, for
	// consumers that need per-ticket drill-down (inspection, reports). Not
	// part of the wire result.
	Tickets []*TicketRecord `json:"-"`
}

// AuditRun is one persisted validation run, kept for the run-history API.
type AuditRun struct {
	ID         string    `json:"id"`
	ClosureID  string    `json:"closure_id"`
	Certified  bool      `json:"certified"`
	TotalFiles int       `json:"total_files"`
	Errors     int       `json:"errors"`
	Warnings   int       `json:"warnings"`
	CreatedAt  time.Time `json:"created_at"`
}
