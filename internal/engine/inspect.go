package engine

import (
	"sort"
	"strconv"

	"github.com/savia/posaudit/internal/coherence"
	"github.com/savia/posaudit/internal/discount"
	"github.com/savia/posaudit/internal/domain"
	"github.com/savia/posaudit/internal/money"
)

// Tax and payment sums may drift from the header by rounding; everything
// else in a single ticket must balance exactly.
const roundingTolerance = 50

// CheckRow is one header-vs-computed comparison inside a ticket.
type CheckRow struct {
	Label       string `json:"label"`
	HeaderValue string `json:"header_value"`
	CalcValue   string `json:"calc_value"`
	Diff        string `json:"diff"`
	OK          bool   `json:"ok"`
	Warning     bool   `json:"warning,omitempty"`
}

// TicketInspection is the full internal cross-footing of one ticket file.
type TicketInspection struct {
	FileName     string               `json:"file_name"`
	TicketNumber string               `json:"ticket_number"`
	Checks       []CheckRow           `json:"checks"`
	Items        []domain.LineItem    `json:"items"`
	Taxes        []domain.TaxLine     `json:"taxes"`
	Payments     []domain.PaymentLine `json:"payments"`
}

// InspectTicket cross-foots one ticket's body lines against its own header:
// gross, net, and units exactly; taxes and payments within the rounding
// tolerance; the discount comparison is informational only.
func InspectTicket(t *domain.TicketRecord) TicketInspection {
	var sumGross, sumNet, sumUnits, sumDiscount int64
	for _, item := range t.Items {
		sumGross += item.Gross
		sumNet += item.Net
		sumUnits += item.Units
		sumDiscount += discount.Effective(item, t.Header)
	}

	var sumPayments int64
	for _, p := range t.Payments {
		sumPayments += p.Amount
	}
	var sumTaxes int64
	for _, x := range t.Taxes {
		sumTaxes += x.Amount
	}

	checks := []CheckRow{
		moneyCheck("Total Gross Amount (IMPBRUTO)", t.Header.Gross, sumGross, 0),
		moneyCheck("Total Net Amount (IMPNETO)", t.Header.Net, sumNet, 0),
		moneyCheck("Total Tax (7xx vs Header)", t.Header.Tax, sumTaxes, roundingTolerance),
		moneyCheck("Total Payments (6xx vs Gross)", t.Header.Gross, sumPayments, roundingTolerance),
		unitCheck("Total Units (N_UDS vs Sum UDS_A)", t.Header.UnitCount, sumUnits),
	}

	discDiff := t.Header.Discount - sumDiscount
	checks = append(checks, CheckRow{
		Label:       "Total Discount (Informational)",
		HeaderValue: money.Format(t.Header.Discount),
		CalcValue:   money.Format(sumDiscount),
		Diff:        money.Format(discDiff),
		OK:          true,
		Warning:     money.Abs(discDiff) >= coherence.DiscountTolerance,
	})

	return TicketInspection{
		FileName:     t.FileName,
		TicketNumber: t.Header.TicketNumber,
		Checks:       checks,
		Items:        t.Items,
		Taxes:        t.Taxes,
		Payments:     t.Payments,
	}
}

func moneyCheck(label string, header, calc, tolerance int64) CheckRow {
	diff := header - calc
	ok := diff == 0
	if tolerance > 0 {
		ok = money.Abs(diff) < tolerance
	}
	return CheckRow{
		Label:       label,
		HeaderValue: money.Format(header),
		CalcValue:   money.Format(calc),
		Diff:        money.Format(diff),
		OK:          ok,
	}
}

func unitCheck(label string, header, calc int64) CheckRow {
	return CheckRow{
		Label:       label,
		HeaderValue: strconv.FormatInt(header, 10),
		CalcValue:   strconv.FormatInt(calc, 10),
		Diff:        strconv.FormatInt(header-calc, 10),
		OK:          header == calc,
	}
}

// CategoryDiscount is one category's discount share within a single ticket.
type CategoryDiscount struct {
	Category int64 `json:"category"`
	Discount int64 `json:"discount"`
	Gross    int64 `json:"gross"`
	Base     int64 `json:"base"`
}

// TicketDiscountBreakdown details how a ticket's effective discount
// distributes across categories.
type TicketDiscountBreakdown struct {
	FileName     string             `json:"file_name"`
	TicketNumber string             `json:"ticket_number"`
	IsReturn     bool               `json:"is_return"`
	Categories   []CategoryDiscount `json:"categories"`
}

// DiscountBreakdown computes the per-ticket, per-category effective
// discount distribution for the whole batch.
func DiscountBreakdown(tickets []*domain.TicketRecord) []TicketDiscountBreakdown {
	out := make([]TicketDiscountBreakdown, 0, len(tickets))
	for _, t := range tickets {
		byCat := make(map[int64]*CategoryDiscount)
		for _, item := range t.Items {
			c, ok := byCat[item.Category]
			if !ok {
				c = &CategoryDiscount{Category: item.Category}
				byCat[item.Category] = c
			}
			c.Discount += discount.Effective(item, t.Header)
			c.Gross += item.Gross
			c.Base += item.BaseSale
		}

		cats := make([]CategoryDiscount, 0, len(byCat))
		for _, c := range byCat {
			cats = append(cats, *c)
		}
		sort.Slice(cats, func(i, j int) bool { return cats[i].Category < cats[j].Category })

		out = append(out, TicketDiscountBreakdown{
			FileName:     t.FileName,
			TicketNumber: t.Header.TicketNumber,
			IsReturn:     t.Header.Kind == domain.TicketReturn,
			Categories:   cats,
		})
	}
	return out
}
