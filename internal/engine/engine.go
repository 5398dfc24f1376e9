// Package engine orchestrates one complete validation run: file
// classification, parsing, syntax validation, aggregation, coherence
// reconciliation, and sequence analysis. The engine is a pure synchronous
// computation over in-memory file contents; it holds no state between runs
// and two batches can always run concurrently.
package engine

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"time"

	"github.com/savia/posaudit/internal/aggregate"
	"github.com/savia/posaudit/internal/coherence"
	"github.com/savia/posaudit/internal/domain"
	"github.com/savia/posaudit/internal/parse"
	"github.com/savia/posaudit/internal/sequence"
	"github.com/savia/posaudit/internal/validate"
)

// Fatal batch preconditions. Raised before any finding is produced; they
// describe an unreconcilable batch, not a data problem.
var (
	ErrNoSummary = errors.New("no closure summary (11008) file in batch")
	ErrNoTickets = errors.New("no ticket (11004) files in batch")
)

// classified holds the batch after file identification.
type classified struct {
	tickets []*domain.TicketRecord
	summary *domain.SummaryRecord
	dayOpen *domain.SystemEventRecord
	dayEnd  *domain.SystemEventRecord
	skipped int
}

// RunBatch validates one fixed batch of export files to completion and
// returns the merged, ordered finding list together with the rebuilt
// totals. Certified is true iff no finding is an error.
func RunBatch(input domain.BatchInput) (*domain.BatchResult, error) {
	batch, err := classify(input)
	if err != nil {
		return nil, err
	}
	if batch.summary == nil {
		return nil, ErrNoSummary
	}
	if len(batch.tickets) == 0 {
		return nil, ErrNoTickets
	}

	sortTickets(batch.tickets)

	findings := validate.Tickets(batch.tickets)
	totals := aggregate.Totals(batch.tickets)
	findings = append(findings, coherence.Reconcile(
		totals, batch.summary, batch.dayOpen, batch.dayEnd, batch.tickets)...)
	findings = append(findings, sequence.Analyze(batch.tickets)...)

	result := &domain.BatchResult{
		Certified:  !domain.HasErrors(findings),
		Timestamp:  time.Now().UTC(),
		TotalFiles: len(input.Files),
		Errors:     domain.CountByStatus(findings, domain.StatusError),
		Warnings:   domain.CountByStatus(findings, domain.StatusWarning),
		ClosureID:  batch.summary.Header.ClosureID,
		Findings:   findings,
		Totals:     totals,
		Tickets:    batch.tickets,
	}

	log.Printf("[engine] Batch done: files=%d tickets=%d errors=%d warnings=%d certified=%t",
		result.TotalFiles, len(batch.tickets), result.Errors, result.Warnings, result.Certified)

	return result, nil
}

func classify(input domain.BatchInput) (*classified, error) {
	batch := &classified{}

	for _, f := range input.Files {
		kind, ok := parse.IdentifyKind(f.Name, f.Content)
		if !ok {
			batch.skipped++
			log.Printf("[engine] Skipping unrecognized file %s", f.Name)
			continue
		}

		switch kind {
		case domain.KindTicket:
			rec, err := parse.ParseTicket(f.Name, f.Content)
			if err != nil {
				return nil, fmt.Errorf("parse ticket: %w", err)
			}
			batch.tickets = append(batch.tickets, rec)
		case domain.KindSummary:
			rec, err := parse.ParseSummary(f.Name, f.Content)
			if err != nil {
				return nil, fmt.Errorf("parse summary: %w", err)
			}
			batch.summary = rec
		case domain.KindDayOpen, domain.KindDayClose:
			rec, err := parse.ParseSystemEvent(f.Name, f.Content, kind)
			if err != nil {
				return nil, fmt.Errorf("parse day event: %w", err)
			}
			if kind == domain.KindDayOpen {
				batch.dayOpen = rec
			} else {
				batch.dayEnd = rec
			}
		}
	}

	return batch, nil
}

// sortTickets orders by numeric ticket number ascending; the sequence
// analyzer and the min/max boundary checks rely on this key.
func sortTickets(tickets []*domain.TicketRecord) {
	sort.SliceStable(tickets, func(i, j int) bool {
		a, _ := strconv.ParseInt(tickets[i].Header.TicketNumber, 10, 64)
		b, _ := strconv.ParseInt(tickets[j].Header.TicketNumber, 10, 64)
		return a < b
	})
}
