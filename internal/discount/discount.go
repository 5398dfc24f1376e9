// Package discount replicates the cascading discount-proration arithmetic
// of the export protocol. The composition rule — line discounts subtracted
// first, then the three header percentages applied in order against the
// shrinking base — is an external contract and must not be reordered.
package discount

import "github.com/savia/posaudit/internal/domain"

// percentScale converts header percentage fields: 2100 means 21.00%.
const percentScale = 10000

// Effective returns the total discount attributable to one line item in
// mills: the sum of its line-level discounts plus the header percentages
// prorated in cascade over the item's base sale amount. Pure and
// deterministic; safe to evaluate once per item wherever a discount total
// is needed.
func Effective(item domain.LineItem, header domain.TicketHeader) int64 {
	lineDiscount := item.Discount1 + item.Discount2 + item.Discount3

	base := item.BaseSale - lineDiscount
	var prorated int64
	for _, pct := range [3]int64{header.DiscountPct1, header.DiscountPct2, header.DiscountPct3} {
		if pct == 0 {
			continue
		}
		d := base * pct / percentScale
		base -= d
		prorated += d
	}

	return lineDiscount + prorated
}
