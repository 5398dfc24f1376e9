package domain

// CategoryTotals accumulates one category's (subfamily's) sale and return
// sides across all tickets of a closure.
type CategoryTotals struct {
	Category        int64 `json:"category"`
	SaleUnits       int64 `json:"sale_units"`
	GrossSales      int64 `json:"gross_sales"`
	NetSales        int64 `json:"net_sales"`
	DiscountSales   int64 `json:"discount_sales"`
	ReturnUnits     int64 `json:"return_units"`
	GrossReturns    int64 `json:"gross_returns"`
	NetReturns      int64 `json:"net_returns"`
	DiscountReturns int64 `json:"discount_returns"`
}

// GlobalTotals holds the closure-wide counters.
type GlobalTotals struct {
	SaleCount       int64 `json:"sale_count"`
	GrossSales      int64 `json:"gross_sales"`
	NetSales        int64 `json:"net_sales"`
	DiscountSales   int64 `json:"discount_sales"`
	ReturnCount     int64 `json:"return_count"`
	GrossReturns    int64 `json:"gross_returns"`
	NetReturns      int64 `json:"net_returns"`
	DiscountReturns int64 `json:"discount_returns"`
	MinTicket       int64 `json:"min_ticket"`
	MaxTicket       int64 `json:"max_ticket"`
}

// AggregatedTotals is the ground truth rebuilt from ticket files. Built
// fresh per validation run and never mutated afterwards.
type AggregatedTotals struct {
	Categories map[int64]*CategoryTotals `json:"categories"`
	Global     GlobalTotals              `json:"global"`
}
