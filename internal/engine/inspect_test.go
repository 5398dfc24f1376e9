package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savia/posaudit/internal/domain"
)

func inspectableTicket() *domain.TicketRecord {
	return &domain.TicketRecord{
		FileName: "t101.dat",
		Header: domain.TicketHeader{
			TicketNumber: "101",
			Kind:         domain.TicketSale,
			Gross:        5000,
			Net:          4500,
			Tax:          500,
			UnitCount:    2,
		},
		Items: []domain.LineItem{
			{Category: 101, Gross: 3000, Net: 2700, Units: 1, BaseSale: 3000},
			{Category: 205, Gross: 2000, Net: 1800, Units: 1, BaseSale: 2000},
		},
		Taxes:    []domain.TaxLine{{TaxType: 1, Base: 4500, Amount: 500}},
		Payments: []domain.PaymentLine{{Method: 1, Amount: 5000}},
	}
}

func TestInspectTicketAllChecksPass(t *testing.T) {
	insp := InspectTicket(inspectableTicket())

	assert.Equal(t, "101", insp.TicketNumber)
	require.Len(t, insp.Checks, 6)
	for _, c := range insp.Checks {
		assert.True(t, c.OK, c.Label)
		assert.False(t, c.Warning, c.Label)
	}
}

func TestInspectTicketExactChecksHaveNoTolerance(t *testing.T) {
	tk := inspectableTicket()
	tk.Header.Gross = 5001 // 1 mill off, still an error for gross

	insp := InspectTicket(tk)

	gross := insp.Checks[0]
	assert.False(t, gross.OK)
	assert.Equal(t, "5.001", gross.HeaderValue)
	assert.Equal(t, "5.000", gross.CalcValue)
	assert.Equal(t, "0.001", gross.Diff)
}

func TestInspectTicketTaxAndPaymentsTolerated(t *testing.T) {
	tk := inspectableTicket()
	// Drift of 49 mills either way stays inside the band.
	tk.Header.Tax = 549
	tk.Payments[0].Amount = 4951

	insp := InspectTicket(tk)

	assert.True(t, insp.Checks[2].OK, "tax inside rounding tolerance")
	assert.True(t, insp.Checks[3].OK, "payments inside rounding tolerance")

	tk.Header.Tax = 550 // exactly at the band edge fails
	insp = InspectTicket(tk)
	assert.False(t, insp.Checks[2].OK)
}

func TestInspectTicketDiscountIsInformational(t *testing.T) {
	tk := inspectableTicket()
	tk.Header.Discount = 500 // items carry none, drift 500 >= band

	insp := InspectTicket(tk)

	disc := insp.Checks[5]
	assert.True(t, disc.OK, "discount drift never fails the check")
	assert.True(t, disc.Warning)
}

func TestDiscountBreakdownGroupsByCategory(t *testing.T) {
	tk := inspectableTicket()
	tk.Header.DiscountPct1 = 1000 // 10% cascade over each item's base

	breakdown := DiscountBreakdown([]*domain.TicketRecord{tk})

	require.Len(t, breakdown, 1)
	b := breakdown[0]
	assert.Equal(t, "101", b.TicketNumber)
	assert.False(t, b.IsReturn)
	require.Len(t, b.Categories, 2)
	assert.Equal(t, int64(101), b.Categories[0].Category)
	assert.Equal(t, int64(300), b.Categories[0].Discount)
	assert.Equal(t, int64(205), b.Categories[1].Category)
	assert.Equal(t, int64(200), b.Categories[1].Discount)
}
