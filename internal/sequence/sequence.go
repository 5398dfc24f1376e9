// Package sequence detects structural anomalies in ticket numbering and
// timing: gaps, duplicates, and time inversions. These are ordering
// problems, not numeric drift, so no tolerance bands apply and every
// finding is a warning.
package sequence

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/savia/posaudit/internal/domain"
)

// Analyze runs a single linear pass over tickets already sorted by numeric
// ticket number ascending.
func Analyze(sorted []*domain.TicketRecord) []domain.Finding {
	var findings []domain.Finding

	prevTicket := int64(-1)
	prevMinutes := -1

	for _, t := range sorted {
		current, err := strconv.ParseInt(t.Header.TicketNumber, 10, 64)
		if err != nil {
			continue
		}
		currentMinutes := timeToMinutes(t.Header.Time)

		if current == prevTicket {
			findings = append(findings, domain.Finding{
				Status:  domain.StatusWarning,
				Message: fmt.Sprintf("Duplicate ticket number %d", current),
				Details: []domain.Detail{{
					Context:  t.FileName,
					Field:    "NUM_TICKET",
					Expected: "Unique within closure",
					Actual:   strconv.FormatInt(current, 10),
				}},
			})
			// A duplicate carries no new position; gap and time checks
			// would only repeat against the same predecessor.
			continue
		}

		if prevTicket != -1 && current > prevTicket+1 {
			missing := current - prevTicket - 1
			findings = append(findings, domain.Finding{
				Status:  domain.StatusWarning,
				Message: fmt.Sprintf("Ticket sequence gap: %d missing before %d", missing, current),
				Details: []domain.Detail{{
					Context:  t.FileName,
					Field:    "NUM_TICKET",
					Expected: fmt.Sprintf("Contiguous after %d", prevTicket),
					Actual:   fmt.Sprintf("Missing range [%d, %d]", prevTicket+1, current-1),
				}},
			})
		}

		if prevMinutes != -1 && currentMinutes < prevMinutes {
			findings = append(findings, domain.Finding{
				Status:  domain.StatusWarning,
				Message: fmt.Sprintf("Time inversion on ticket %d", current),
				Details: []domain.Detail{{
					Context:  t.FileName,
					Field:    "HORA_REAL",
					Expected: fmt.Sprintf(">= %02d:%02d", prevMinutes/60, prevMinutes%60),
					Actual:   fmt.Sprintf("%02d:%02d", currentMinutes/60, currentMinutes%60),
				}},
			})
		}

		prevTicket = current
		prevMinutes = currentMinutes
	}

	return findings
}

// timeToMinutes converts a protocol HHMMSS timestamp to minutes since
// midnight. Colon-separated HH:MM[:SS] is accepted for pre-formatted input.
func timeToMinutes(t string) int {
	t = strings.TrimSpace(t)
	if t == "" {
		return 0
	}
	if strings.Contains(t, ":") {
		parts := strings.Split(t, ":")
		h, _ := strconv.Atoi(parts[0])
		m := 0
		if len(parts) > 1 {
			m, _ = strconv.Atoi(parts[1])
		}
		return h*60 + m
	}
	if len(t) < 4 {
		return 0
	}
	h, err1 := strconv.Atoi(t[:2])
	m, err2 := strconv.Atoi(t[2:4])
	if err1 != nil || err2 != nil {
		return 0
	}
	return h*60 + m
}
