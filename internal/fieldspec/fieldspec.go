// Package fieldspec holds the declarative per-record-kind field
// specification tables that drive syntax validation. One table per line
// class, keyed by pipe-field index, so the magic positions of the external
// protocol live in exactly one place.
package fieldspec

// LengthKind distinguishes exact-length fields from capped ones.
type LengthKind int

const (
	Fixed LengthKind = iota // value must have exactly Len characters
	Max                     // value must not exceed Len characters
)

// Spec constrains one positional field.
type Spec struct {
	Name string
	Len  int
	Kind LengthKind
}

// Mandatory marks a field that must be non-blank after trimming.
type Mandatory struct {
	Index int
	Name  string
}

// A ticket header shorter than this is a semantic error even when every
// present field is well formed.
const MinTicketHeaderFields = 20

// TicketHeader constrains the first line of an 11004 file.
var TicketHeader = map[int]Spec{
	0:  {Name: "COD_TRANSACC", Len: 5, Kind: Fixed},
	1:  {Name: "FECHA_REAL", Len: 8, Kind: Fixed}, // YYYYMMDD
	2:  {Name: "HORA_REAL", Len: 6, Kind: Fixed},  // HHMMSS
	3:  {Name: "NUM_Z", Len: 6, Kind: Max},
	4:  {Name: "NUM_TICKET", Len: 12, Kind: Max},
	6:  {Name: "TIPO_VENTA", Len: 1, Kind: Fixed},
	11: {Name: "IMPNETO_T", Len: 12, Kind: Max},
	12: {Name: "IMPBRUTO_T", Len: 12, Kind: Max},
	13: {Name: "IMPIMPUESTOS_T", Len: 12, Kind: Max},
	14: {Name: "IMPDESCUENTO_T", Len: 12, Kind: Max},
}

// Item constrains 5xx rows.
var Item = map[int]Spec{
	0:  {Name: "ID_REGISTRO", Len: 3, Kind: Fixed},
	1:  {Name: "CD_ARTICULO", Len: 20, Kind: Max},
	2:  {Name: "DESCRIPCION", Len: 50, Kind: Max},
	4:  {Name: "TIPO_SUBFAMILIA", Len: 5, Kind: Max},
	5:  {Name: "IMPNETO_A", Len: 12, Kind: Max},
	6:  {Name: "IMPBRUTO_A", Len: 12, Kind: Max},
	8:  {Name: "UDS_A", Len: 9, Kind: Max},
	9:  {Name: "IMPVENTA_A", Len: 12, Kind: Max},
	12: {Name: "IMPDESCUENTO_1", Len: 12, Kind: Max},
}

// Payment constrains 6xx rows.
var Payment = map[int]Spec{
	0: {Name: "ID_REGISTRO", Len: 3, Kind: Fixed},
	1: {Name: "TIPO_MEDIO", Len: 2, Kind: Max},
	3: {Name: "IMPORTE", Len: 12, Kind: Max},
}

// Tax constrains 7xx rows.
var Tax = map[int]Spec{
	0: {Name: "ID_REGISTRO", Len: 3, Kind: Fixed},
	1: {Name: "TIPO_IMPUESTO", Len: 2, Kind: Max},
	3: {Name: "BASE", Len: 12, Kind: Max},
	4: {Name: "CUOTA", Len: 12, Kind: Max},
}

// Mandatory fields per line class.
var (
	TicketHeaderMandatory = []Mandatory{
		{Index: 1, Name: "Date"},
		{Index: 2, Name: "Time"},
		{Index: 3, Name: "Z Number"},
		{Index: 4, Name: "Ticket Number"},
		{Index: 6, Name: "Sale Type"},
	}
	ItemMandatory = []Mandatory{
		{Index: 1, Name: "Item Code"},
		{Index: 4, Name: "SubFamily"},
		{Index: 8, Name: "Units"},
		{Index: 9, Name: "Price"},
	}
	PaymentMandatory = []Mandatory{
		{Index: 1, Name: "Pay Type"},
		{Index: 3, Name: "Amount"},
	}
	TaxMandatory = []Mandatory{
		{Index: 1, Name: "Tax Type"},
		{Index: 4, Name: "Amount"},
	}
)

// Indices that must hold a strict non-negative integer when non-blank.
var (
	TicketHeaderNumeric = []int{3, 4, 6, 11, 12, 13, 14, 15, 16, 19, 30, 32}
	ItemNumeric         = []int{4, 5, 6, 8, 9, 12, 13, 14, 19, 21}
	PaymentNumeric      = []int{1, 2, 3}
	TaxNumeric          = []int{1, 3, 4}
)
