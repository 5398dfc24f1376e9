package domain

// RecordKind is the 5-digit transaction code identifying a file's record kind.
type RecordKind string

const (
	KindDayOpen  RecordKind = "11001"
	KindDayClose RecordKind = "11002"
	KindTicket   RecordKind = "11004"
	KindSummary  RecordKind = "11008"
)

// TicketKind distinguishes sales from returns (TIPO_VENTA).
type TicketKind int64

const (
	TicketSale   TicketKind = 1
	TicketReturn TicketKind = 2
)

// TicketHeader holds the first line of an 11004 ticket file. All monetary
// fields are integer mills; percentages are scaled by 10,000.
type TicketHeader struct {
	TransactionCode string     `json:"transaction_code"`
	Date            string     `json:"date"` // YYYYMMDD
	Time            string     `json:"time"` // HHMMSS
	ClosureID       string     `json:"closure_id"`
	TicketNumber    string     `json:"ticket_number"`
	Kind            TicketKind `json:"kind"`
	Net             int64      `json:"net"`
	Gross           int64      `json:"gross"`
	Tax             int64      `json:"tax"`
	Discount        int64      `json:"discount"`
	DiscountPct1    int64      `json:"discount_pct_1"`
	DiscountPct2    int64      `json:"discount_pct_2"`
	DiscountPct3    int64      `json:"discount_pct_3"`
	ItemCount       int64      `json:"item_count"`
	UnitCount       int64      `json:"unit_count"`
}

// LineItem is one 5xx row of a ticket file.
type LineItem struct {
	RegisterID string `json:"register_id"`
	ItemCode   string `json:"item_code"`
	Category   int64  `json:"category"` // TIPO_SUBFAMILIA
	Net        int64  `json:"net"`
	Gross      int64  `json:"gross"`
	Units      int64  `json:"units"`
	BaseSale   int64  `json:"base_sale"` // IMPVENTA_A, proration base
	Discount1  int64  `json:"discount_1"`
	Discount2  int64  `json:"discount_2"`
	Discount3  int64  `json:"discount_3"`
	FiscalType int64  `json:"fiscal_type"`
	TaxRate    int64  `json:"tax_rate"`
}

// TaxLine is one 7xx row of a ticket file.
type TaxLine struct {
	RegisterID string `json:"register_id"`
	TaxType    int64  `json:"tax_type"`
	Base       int64  `json:"base"`
	Amount     int64  `json:"amount"`
}

// PaymentLine is one 6xx row of a ticket file.
type PaymentLine struct {
	RegisterID string `json:"register_id"`
	Method     int64  `json:"method"`
	Amount     int64  `json:"amount"`
}

// TicketRecord is a fully parsed 11004 file. Immutable after parse; the raw
// content is retained so the syntax validator can re-walk the original lines.
type TicketRecord struct {
	FileName string        `json:"file_name"`
	Raw      string        `json:"-"`
	Header   TicketHeader  `json:"header"`
	Items    []LineItem    `json:"items"`
	Taxes    []TaxLine     `json:"taxes"`
	Payments []PaymentLine `json:"payments"`
}

// SummaryHeader holds the first line of an 11008 closure summary.
type SummaryHeader struct {
	TransactionCode string `json:"transaction_code"`
	Date            string `json:"date"`
	ClosureID       string `json:"closure_id"`
	FirstTicket     string `json:"first_ticket"`
	LastTicket      string `json:"last_ticket"`
	SaleCount       int64  `json:"sale_count"`
	GrossSales      int64  `json:"gross_sales"`
	NetSales        int64  `json:"net_sales"`
	DiscountSales   int64  `json:"discount_sales"`
	ReturnCount     int64  `json:"return_count"`
	GrossReturns    int64  `json:"gross_returns"`
	NetReturns      int64  `json:"net_returns"`
	DiscountReturns int64  `json:"discount_returns"`
}

// CategoryLine is one per-category aggregation row of an 11008 file.
type CategoryLine struct {
	RegisterID      string `json:"register_id"`
	Family          int64  `json:"family"`
	Category        int64  `json:"category"`
	FiscalType      int64  `json:"fiscal_type"`
	SaleUnits       int64  `json:"sale_units"`
	GrossSales      int64  `json:"gross_sales"`
	NetSales        int64  `json:"net_sales"`
	DiscountSales   int64  `json:"discount_sales"`
	ReturnUnits     int64  `json:"return_units"`
	GrossReturns    int64  `json:"gross_returns"`
	NetReturns      int64  `json:"net_returns"`
	DiscountReturns int64  `json:"discount_returns"`
}

// SummaryRecord is a fully parsed 11008 file.
type SummaryRecord struct {
	FileName   string         `json:"file_name"`
	Header     SummaryHeader  `json:"header"`
	Categories []CategoryLine `json:"categories"`
}

// SystemEventRecord is a parsed 11001/11002 day-open or day-close marker.
// Only the closure id matters for cross-checks.
type SystemEventRecord struct {
	FileName        string     `json:"file_name"`
	Kind            RecordKind `json:"kind"`
	TransactionCode string     `json:"transaction_code"`
	ClosureID       string     `json:"closure_id"`
}
