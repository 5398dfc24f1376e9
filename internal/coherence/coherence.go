// Package coherence cross-checks the totals rebuilt from ticket files
// against the closure summary and the day-open/close markers.
package coherence

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/savia/posaudit/internal/domain"
	"github.com/savia/posaudit/internal/money"
)

// DiscountTolerance is the only tolerance band in the protocol: discount
// totals may drift by strictly less than 100 mills because proration
// accumulates rounding. Every other monetary comparison is exact.
const DiscountTolerance = 100

// Reconciler runs the cross-file check families in fixed order. Every
// check runs to completion; findings are collected, never short-circuited.
type Reconciler struct {
	totals  domain.AggregatedTotals
	summary *domain.SummaryRecord
	dayOpen *domain.SystemEventRecord
	dayEnd  *domain.SystemEventRecord
	tickets []*domain.TicketRecord

	findings []domain.Finding
	passed   []domain.Detail
}

// Reconcile compares aggregated totals against the summary record and the
// optional day markers. It emits one finding per violated check, or a
// single combined ok finding listing everything that passed.
func Reconcile(
	totals domain.AggregatedTotals,
	summary *domain.SummaryRecord,
	dayOpen, dayEnd *domain.SystemEventRecord,
	tickets []*domain.TicketRecord,
) []domain.Finding {
	r := &Reconciler{
		totals:  totals,
		summary: summary,
		dayOpen: dayOpen,
		dayEnd:  dayEnd,
		tickets: tickets,
	}

	r.checkClosureIDs()
	r.checkSummaryInternal()
	r.checkTicketInternal()
	r.checkGlobalCounters()
	r.checkTicketRange()
	r.checkGlobalDiscounts()
	r.checkCategories()
	r.checkDates()

	if len(r.findings) == 0 {
		return []domain.Finding{{
			Status:  domain.StatusOK,
			Message: "All coherence checks passed successfully",
			Details: r.passed,
		}}
	}
	return r.findings
}

func (r *Reconciler) fail(message string, details ...domain.Detail) {
	r.findings = append(r.findings, domain.Finding{
		Status:  domain.StatusError,
		Message: message,
		Details: details,
	})
}

func (r *Reconciler) pass(context, field, expected, actual string) {
	r.passed = append(r.passed, domain.Detail{
		Context:  context,
		Field:    field,
		Expected: expected,
		Actual:   actual,
	})
}

// 1. Closure-id consistency: summary and both day markers, when present,
// must carry the same closure id.
func (r *Reconciler) checkClosureIDs() {
	type source struct {
		name string
		id   string
	}
	sources := []source{{"Summary (11008)", r.summary.Header.ClosureID}}
	if r.dayOpen != nil {
		sources = append(sources, source{"Day Open (11001)", r.dayOpen.ClosureID})
	}
	if r.dayEnd != nil {
		sources = append(sources, source{"Day Close (11002)", r.dayEnd.ClosureID})
	}
	if len(sources) < 2 {
		return
	}

	reference := sources[0].id
	mismatch := false
	for _, s := range sources[1:] {
		if s.id != reference {
			mismatch = true
			break
		}
	}
	if mismatch {
		details := make([]domain.Detail, 0, len(sources))
		for _, s := range sources {
			details = append(details, domain.Detail{
				Context:  s.name,
				Field:    "NUM_Z",
				Expected: reference,
				Actual:   s.id,
			})
		}
		r.fail("Closure number mismatch across files", details...)
		return
	}
	r.pass(fmt.Sprintf("Across %d files", len(sources)), "NUM_Z", reference, "Consistent")
}

// 2. Summary internal consistency: per-category gross sums must equal the
// summary header's declared totals, sale and return sides separately.
func (r *Reconciler) checkSummaryInternal() {
	var sumGrossSales, sumGrossReturns int64
	for _, row := range r.summary.Categories {
		sumGrossSales += row.GrossSales
		sumGrossReturns += row.GrossReturns
	}

	ok := true
	if sumGrossSales != r.summary.Header.GrossSales {
		ok = false
		r.fail("Summary internal inconsistency: sum of category gross (sales) != header total",
			domain.Detail{
				Context:  "11008 Internal",
				Field:    "IMPBRUTO_V",
				Expected: money.Format(sumGrossSales),
				Actual:   money.Format(r.summary.Header.GrossSales),
			})
	}
	if sumGrossReturns != r.summary.Header.GrossReturns {
		ok = false
		r.fail("Summary internal inconsistency: sum of category gross (returns) != header total",
			domain.Detail{
				Context:  "11008 Internal",
				Field:    "IMPBRUTO_D",
				Expected: money.Format(sumGrossReturns),
				Actual:   money.Format(r.summary.Header.GrossReturns),
			})
	}
	if ok {
		r.pass("11008 Internal Integrity", "Structure", "Header == Sum(Body)", "Verified")
	}
}

// 3. Ticket internal consistency: each ticket's line items must sum to its
// own header's declared gross and net. Exact, per ticket.
func (r *Reconciler) checkTicketInternal() {
	failures := 0
	for _, t := range r.tickets {
		var sumGross, sumNet int64
		for _, item := range t.Items {
			sumGross += item.Gross
			sumNet += item.Net
		}
		if sumGross != t.Header.Gross {
			failures++
			r.fail(fmt.Sprintf("Ticket internal math error: %s", t.Header.TicketNumber),
				domain.Detail{
					Context:  t.FileName,
					Field:    "IMPBRUTO_T",
					Expected: money.Format(sumGross),
					Actual:   money.Format(t.Header.Gross),
				})
		}
		if sumNet != t.Header.Net {
			failures++
			r.fail(fmt.Sprintf("Ticket internal math error: %s", t.Header.TicketNumber),
				domain.Detail{
					Context:  t.FileName,
					Field:    "IMPNETO_T",
					Expected: money.Format(sumNet),
					Actual:   money.Format(t.Header.Net),
				})
		}
	}
	if failures == 0 && len(r.tickets) > 0 {
		r.pass("11004 Internal Integrity", "Ticket Math", "Header == Sum(Lines)",
			fmt.Sprintf("%d tickets OK", len(r.tickets)))
	}
}

// 4. Global counters: counts and gross totals per kind must match the
// summary header exactly.
func (r *Reconciler) checkGlobalCounters() {
	checks := []struct {
		field   string
		label   string
		got     int64
		want    int64
		isMoney bool
	}{
		{"N_VENTAS", "Sales Count", r.totals.Global.SaleCount, r.summary.Header.SaleCount, false},
		{"IMPBRUTO_V", "Gross Sales", r.totals.Global.GrossSales, r.summary.Header.GrossSales, true},
		{"N_DEVOLUCIONES", "Returns Count", r.totals.Global.ReturnCount, r.summary.Header.ReturnCount, false},
		{"IMPBRUTO_D", "Gross Returns", r.totals.Global.GrossReturns, r.summary.Header.GrossReturns, true},
	}

	for _, c := range checks {
		if c.got != c.want {
			r.fail(fmt.Sprintf("Global mismatch: %s", c.label),
				domain.Detail{
					Context:  "11004 vs 11008",
					Field:    c.field,
					Expected: formatBy(c.got, c.isMoney),
					Actual:   formatBy(c.want, c.isMoney),
				})
		} else {
			r.pass("Global Counters", c.field, formatBy(c.want, c.isMoney), "Match")
		}
	}
}

// 5. Ticket range: min/max aggregated ticket numbers must equal the
// summary's declared first/last ticket ids. Catches missing boundary files
// even when gross totals happen to balance.
func (r *Reconciler) checkTicketRange() {
	first, _ := strconv.ParseInt(r.summary.Header.FirstTicket, 10, 64)
	last, _ := strconv.ParseInt(r.summary.Header.LastTicket, 10, 64)

	if first != r.totals.Global.MinTicket {
		r.fail("Initial ticket mismatch (CD_TICKET_I)",
			domain.Detail{
				Context:  "Boundary Check (First Found)",
				Field:    "CD_TICKET_I",
				Expected: strconv.FormatInt(first, 10),
				Actual:   strconv.FormatInt(r.totals.Global.MinTicket, 10),
			})
	} else {
		r.pass("Ticket Range Start", "CD_TICKET_I",
			strconv.FormatInt(first, 10), strconv.FormatInt(r.totals.Global.MinTicket, 10))
	}

	if last != r.totals.Global.MaxTicket {
		r.fail("Final ticket mismatch (CD_TICKET_F)",
			domain.Detail{
				Context:  "Boundary Check (Last Found)",
				Field:    "CD_TICKET_F",
				Expected: strconv.FormatInt(last, 10),
				Actual:   strconv.FormatInt(r.totals.Global.MaxTicket, 10),
			})
	} else {
		r.pass("Ticket Range End", "CD_TICKET_F",
			strconv.FormatInt(last, 10), strconv.FormatInt(r.totals.Global.MaxTicket, 10))
	}
}

// 6. Global discount totals: tolerance-banded, the cascade accumulates
// rounding.
func (r *Reconciler) checkGlobalDiscounts() {
	checks := []struct {
		field string
		label string
		got   int64
		want  int64
	}{
		{"IMPDESCUENTO_V", "Total Discount Sales", r.totals.Global.DiscountSales, r.summary.Header.DiscountSales},
		{"IMPDESCUENTO_D", "Total Discount Returns", r.totals.Global.DiscountReturns, r.summary.Header.DiscountReturns},
	}

	for _, c := range checks {
		if money.Abs(c.got-c.want) >= DiscountTolerance {
			r.fail(fmt.Sprintf("Global mismatch: %s", c.label),
				domain.Detail{
					Context:  "11004 vs 11008 (Global)",
					Field:    c.field,
					Expected: money.Format(c.want),
					Actual:   money.Format(c.got),
				})
		} else {
			r.pass("Global Discounts", c.field, money.Format(c.want), "Match")
		}
	}
}

// 7. Per-category reconciliation: units/gross/net exact on both sides,
// discounts tolerance-banded, plus ghost/missing category detection.
func (r *Reconciler) checkCategories() {
	// Summary rows may repeat a subfamily across fiscal types; fold them
	// into one bucket per category before comparing.
	summaryCats := make(map[int64]*domain.CategoryTotals)
	for _, row := range r.summary.Categories {
		bucket, ok := summaryCats[row.Category]
		if !ok {
			bucket = &domain.CategoryTotals{Category: row.Category}
			summaryCats[row.Category] = bucket
		}
		bucket.SaleUnits += row.SaleUnits
		bucket.GrossSales += row.GrossSales
		bucket.NetSales += row.NetSales
		bucket.DiscountSales += row.DiscountSales
		bucket.ReturnUnits += row.ReturnUnits
		bucket.GrossReturns += row.GrossReturns
		bucket.NetReturns += row.NetReturns
		bucket.DiscountReturns += row.DiscountReturns
	}

	failed := false
	checked := 0

	for _, cat := range sortedKeys(r.totals.Categories) {
		checked++
		calc := r.totals.Categories[cat]
		ref, ok := summaryCats[cat]
		if !ok {
			failed = true
			r.fail(fmt.Sprintf("Category mismatch: subfamily %d present in tickets but missing in summary", cat),
				domain.Detail{
					Context:  fmt.Sprintf("SubFamily %d", cat),
					Field:    "SubFamily",
					Expected: "Present in 11008",
					Actual:   "Missing",
				})
			continue
		}

		exact := []struct {
			field   string
			got     int64
			want    int64
			isMoney bool
		}{
			{"UDS", calc.SaleUnits, ref.SaleUnits, false},
			{"IMPBRUTO", calc.GrossSales, ref.GrossSales, true},
			{"IMPNETO", calc.NetSales, ref.NetSales, true},
			{"UDS_D", calc.ReturnUnits, ref.ReturnUnits, false},
			{"IMPBRUTO_D", calc.GrossReturns, ref.GrossReturns, true},
			{"IMPNETO_D", calc.NetReturns, ref.NetReturns, true},
		}
		for _, c := range exact {
			if c.got != c.want {
				failed = true
				r.fail(fmt.Sprintf("%s mismatch on subfamily %d", c.field, cat),
					domain.Detail{
						Context:  fmt.Sprintf("SubFamily %d", cat),
						Field:    c.field,
						Expected: formatBy(c.got, c.isMoney),
						Actual:   formatBy(c.want, c.isMoney),
					})
			}
		}

		if money.Abs(calc.DiscountSales-ref.DiscountSales) >= DiscountTolerance {
			failed = true
			r.fail(fmt.Sprintf("Discount sales mismatch on subfamily %d", cat),
				domain.Detail{
					Context:  fmt.Sprintf("SubFamily %d (Exp: 11008 line vs Act: 11004 sum)", cat),
					Field:    "IMPDESCUENTO_VSFZ",
					Expected: money.Format(ref.DiscountSales),
					Actual:   money.Format(calc.DiscountSales),
				})
		}
		if money.Abs(calc.DiscountReturns-ref.DiscountReturns) >= DiscountTolerance {
			failed = true
			r.fail(fmt.Sprintf("Discount returns mismatch on subfamily %d", cat),
				domain.Detail{
					Context:  fmt.Sprintf("SubFamily %d (Exp: 11008 line vs Act: 11004 sum)", cat),
					Field:    "IMPDESCUENTO_DSFZ",
					Expected: money.Format(ref.DiscountReturns),
					Actual:   money.Format(calc.DiscountReturns),
				})
		}
	}

	for _, cat := range sortedKeys(summaryCats) {
		if _, ok := r.totals.Categories[cat]; !ok {
			failed = true
			r.fail(fmt.Sprintf("Category mismatch: subfamily %d present in summary but no sales detected (ghost data)", cat),
				domain.Detail{
					Context:  fmt.Sprintf("SubFamily %d", cat),
					Field:    "SubFamily",
					Expected: "Present in 11004",
					Actual:   "Missing",
				})
		}
	}

	if !failed && checked > 0 {
		r.pass("Detailed Aggregation", "Subfamilies", "Full Match",
			fmt.Sprintf("%d groups verified", checked))
	}
}

// 8. Date consistency: every ticket's declared date must equal the
// summary's, exact string compare. Catches mixed-day batches.
func (r *Reconciler) checkDates() {
	masterDate := r.summary.Header.Date
	var offenders []domain.Detail
	for _, t := range r.tickets {
		if t.Header.Date != masterDate {
			offenders = append(offenders, domain.Detail{
				Context:  t.FileName,
				Field:    "FECHA_REAL",
				Expected: masterDate,
				Actual:   t.Header.Date,
			})
		}
	}
	if len(offenders) > 0 {
		count := len(offenders)
		if count > 5 {
			offenders = offenders[:5]
		}
		r.fail(fmt.Sprintf("Date mismatch: %d files carry a different date than the summary (%s)",
			count, masterDate), offenders...)
		return
	}
	r.pass("All Files Date Check", "FECHA_REAL", masterDate, "Match")
}

func formatBy(v int64, isMoney bool) string {
	if isMoney {
		return money.Format(v)
	}
	return strconv.FormatInt(v, 10)
}

func sortedKeys(m map[int64]*domain.CategoryTotals) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
