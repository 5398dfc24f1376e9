// Package report serializes a finished validation run into a compact,
// URL-safe payload so a result can be shared as a link. The core returns
// plain data; this encoder is a consumer of it.
package report

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/savia/posaudit/internal/domain"
	"github.com/savia/posaudit/internal/engine"
)

// Version of the payload layout.
const Version = "1.2"

// Meta carries the headline counts of a run.
type Meta struct {
	Files     int       `json:"f"`
	Errors    int       `json:"e"`
	Warnings  int       `json:"w"`
	Timestamp time.Time `json:"t"`
}

// TicketRef is a minimal per-ticket index entry for the shared view.
type TicketRef struct {
	FileName     string            `json:"n"`
	TicketNumber string            `json:"ticket"`
	Time         string            `json:"time"`
	Kind         domain.TicketKind `json:"kind"`
	Gross        int64             `json:"gross"`
}

// Payload is the shareable report. Only non-ok findings are embedded; the
// all-clear case is fully described by the meta counts.
type Payload struct {
	Version   string                           `json:"v"`
	Meta      Meta                             `json:"meta"`
	Issues    []domain.Finding                 `json:"results"`
	Totals    domain.AggregatedTotals          `json:"aggregated"`
	Discounts []engine.TicketDiscountBreakdown `json:"discounts,omitempty"`
	Tickets   []TicketRef                      `json:"ops"`
}

// Build assembles a payload from a batch result and its sorted tickets.
func Build(result *domain.BatchResult, tickets []*domain.TicketRecord) Payload {
	var issues []domain.Finding
	for _, f := range result.Findings {
		if f.Status != domain.StatusOK {
			issues = append(issues, f)
		}
	}

	refs := make([]TicketRef, 0, len(tickets))
	for _, t := range tickets {
		refs = append(refs, TicketRef{
			FileName:     t.FileName,
			TicketNumber: t.Header.TicketNumber,
			Time:         t.Header.Time,
			Kind:         t.Header.Kind,
			Gross:        t.Header.Gross,
		})
	}

	return Payload{
		Version: Version,
		Meta: Meta{
			Files:     result.TotalFiles,
			Errors:    result.Errors,
			Warnings:  result.Warnings,
			Timestamp: result.Timestamp,
		},
		Issues:    issues,
		Totals:    result.Totals,
		Discounts: engine.DiscountBreakdown(tickets),
		Tickets:   refs,
	}
}

// Encode renders the payload as unpadded URL-safe base64 JSON.
func Encode(p Payload) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Decode reverses Encode.
func Decode(encoded string) (Payload, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return Payload{}, fmt.Errorf("decode report: %w", err)
	}
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Payload{}, fmt.Errorf("unmarshal report: %w", err)
	}
	return p, nil
}

// URL builds the shareable link for an encoded payload.
func URL(base, encoded string) string {
	return fmt.Sprintf("%s?api_report=%s", base, encoded)
}
