// Package aggregate folds ticket records into the per-category and global
// totals that the coherence reconciler compares against the closure summary.
package aggregate

import (
	"math"
	"strconv"

	"github.com/savia/posaudit/internal/discount"
	"github.com/savia/posaudit/internal/domain"
)

// Totals rebuilds ground truth from the full ticket set of one closure.
// Pure summation with no cross-ticket state: the result is identical for
// any iteration order.
func Totals(tickets []*domain.TicketRecord) domain.AggregatedTotals {
	totals := domain.AggregatedTotals{
		Categories: make(map[int64]*domain.CategoryTotals),
		Global: domain.GlobalTotals{
			MinTicket: math.MaxInt64,
		},
	}

	for _, t := range tickets {
		isSale := t.Header.Kind == domain.TicketSale
		isReturn := t.Header.Kind == domain.TicketReturn

		if num, err := strconv.ParseInt(t.Header.TicketNumber, 10, 64); err == nil {
			if num < totals.Global.MinTicket {
				totals.Global.MinTicket = num
			}
			if num > totals.Global.MaxTicket {
				totals.Global.MaxTicket = num
			}
		}

		switch {
		case isSale:
			totals.Global.SaleCount++
			totals.Global.GrossSales += t.Header.Gross
			totals.Global.NetSales += t.Header.Net
		case isReturn:
			totals.Global.ReturnCount++
			totals.Global.GrossReturns += t.Header.Gross
			totals.Global.NetReturns += t.Header.Net
		}

		for _, item := range t.Items {
			bucket, ok := totals.Categories[item.Category]
			if !ok {
				bucket = &domain.CategoryTotals{Category: item.Category}
				totals.Categories[item.Category] = bucket
			}

			eff := discount.Effective(item, t.Header)

			switch {
			case isSale:
				totals.Global.DiscountSales += eff
				bucket.GrossSales += item.Gross
				bucket.NetSales += item.Net
				bucket.DiscountSales += eff
				bucket.SaleUnits += item.Units
			case isReturn:
				totals.Global.DiscountReturns += eff
				bucket.GrossReturns += item.Gross
				bucket.NetReturns += item.Net
				bucket.DiscountReturns += eff
				bucket.ReturnUnits += item.Units
			}
		}
	}

	if totals.Global.MinTicket == math.MaxInt64 {
		totals.Global.MinTicket = 0
	}

	return totals
}
