package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savia/posaudit/internal/domain"
)

func ticketHeaderLine() string {
	h := make([]string, 33)
	h[0] = "11004"
	h[1] = "20240115"
	h[2] = "093000"
	h[3] = "1042"
	h[4] = "101"
	h[6] = "1"
	h[11] = "4500" // net
	h[12] = "5000" // gross
	h[13] = "500"  // tax
	h[14] = "0"
	h[15] = "1000" // pct1
	h[16] = "1"
	h[19] = "2"
	h[30] = "500" // pct2
	h[32] = "250" // pct3
	return strings.Join(h, "|")
}

func TestIdentifyKindFromFileName(t *testing.T) {
	// The 5-digit code sits at offset 18 of the file name.
	kind, ok := IdentifyKind("20240115_1042_010111004.dat", "")
	require.True(t, ok)
	assert.Equal(t, domain.KindTicket, kind)

	kind, ok = IdentifyKind("20240115_1042_900011008.dat", "")
	require.True(t, ok)
	assert.Equal(t, domain.KindSummary, kind)
}

func TestIdentifyKindFallsBackToFirstField(t *testing.T) {
	kind, ok := IdentifyKind("short.dat", "11001|20240115|000000|1042")
	require.True(t, ok)
	assert.Equal(t, domain.KindDayOpen, kind)

	_, ok = IdentifyKind("short.dat", "99999|foo")
	assert.False(t, ok)
}

func TestParseTicketHeaderMapping(t *testing.T) {
	content := ticketHeaderLine() + "\n" +
		"501|ART0001|DESC||101|4500|5000||2|5000|||0|1|2100|||||0||0\n" +
		"601|1||5000\n" +
		"701|1||4500|500\n"

	rec, err := ParseTicket("t101.dat", content)
	require.NoError(t, err)

	h := rec.Header
	assert.Equal(t, "11004", h.TransactionCode)
	assert.Equal(t, "20240115", h.Date)
	assert.Equal(t, "093000", h.Time)
	assert.Equal(t, "1042", h.ClosureID)
	assert.Equal(t, "101", h.TicketNumber)
	assert.Equal(t, domain.TicketSale, h.Kind)
	assert.Equal(t, int64(4500), h.Net)
	assert.Equal(t, int64(5000), h.Gross)
	assert.Equal(t, int64(500), h.Tax)
	assert.Equal(t, int64(0), h.Discount)
	assert.Equal(t, int64(1000), h.DiscountPct1)
	assert.Equal(t, int64(500), h.DiscountPct2)
	assert.Equal(t, int64(250), h.DiscountPct3)
	assert.Equal(t, int64(1), h.ItemCount)
	assert.Equal(t, int64(2), h.UnitCount)

	require.Len(t, rec.Items, 1)
	item := rec.Items[0]
	assert.Equal(t, "ART0001", item.ItemCode)
	assert.Equal(t, int64(101), item.Category)
	assert.Equal(t, int64(4500), item.Net)
	assert.Equal(t, int64(5000), item.Gross)
	assert.Equal(t, int64(2), item.Units)
	assert.Equal(t, int64(5000), item.BaseSale)
	assert.Equal(t, int64(2100), item.TaxRate)

	require.Len(t, rec.Payments, 1)
	assert.Equal(t, int64(1), rec.Payments[0].Method)
	assert.Equal(t, int64(5000), rec.Payments[0].Amount)

	require.Len(t, rec.Taxes, 1)
	assert.Equal(t, int64(4500), rec.Taxes[0].Base)
	assert.Equal(t, int64(500), rec.Taxes[0].Amount)
}

func TestParseTicketIgnoresUnknownRegisterCodes(t *testing.T) {
	content := ticketHeaderLine() + "\n" +
		"901|something|else\n" +
		"501|ART0001|||101|4500|5000||1|5000\n"

	rec, err := ParseTicket("t.dat", content)
	require.NoError(t, err)
	assert.Len(t, rec.Items, 1)
	assert.Empty(t, rec.Payments)
	assert.Empty(t, rec.Taxes)
}

func TestParseTicketShortHeaderFails(t *testing.T) {
	_, err := ParseTicket("t.dat", "11004|20240115|093000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header has 3 fields")
}

func TestParseTicketOutOfRangeIndicesDefaultToZero(t *testing.T) {
	// Header with only 7 fields parses; amounts default to zero and the
	// semantic validator, not the parser, reports the missing data.
	rec, err := ParseTicket("t.dat", "11004|20240115|093000|1042|101||1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), rec.Header.Gross)
	assert.Equal(t, int64(0), rec.Header.DiscountPct3)
}

func TestParseSummary(t *testing.T) {
	content := "11008|20240115|||1042||101|103|3|15000|13500|0|0|0|0|0\n" +
		"1|1|101|1|3|15000|13500|0|0|0|0|0\n" +
		"0|ignored\n"

	rec, err := ParseSummary("s.dat", content)
	require.NoError(t, err)

	h := rec.Header
	assert.Equal(t, "20240115", h.Date)
	assert.Equal(t, "1042", h.ClosureID)
	assert.Equal(t, "101", h.FirstTicket)
	assert.Equal(t, "103", h.LastTicket)
	assert.Equal(t, int64(3), h.SaleCount)
	assert.Equal(t, int64(15000), h.GrossSales)
	assert.Equal(t, int64(13500), h.NetSales)
	assert.Equal(t, int64(0), h.ReturnCount)

	require.Len(t, rec.Categories, 1)
	row := rec.Categories[0]
	assert.Equal(t, int64(101), row.Category)
	assert.Equal(t, int64(3), row.SaleUnits)
	assert.Equal(t, int64(15000), row.GrossSales)
	assert.Equal(t, int64(13500), row.NetSales)
}

func TestParseSystemEvent(t *testing.T) {
	rec, err := ParseSystemEvent("e.dat", "11001|20240115|000000|1042", domain.KindDayOpen)
	require.NoError(t, err)
	assert.Equal(t, "1042", rec.ClosureID)
	assert.Equal(t, domain.KindDayOpen, rec.Kind)

	_, err = ParseSystemEvent("e.dat", "11001|x", domain.KindDayOpen)
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, ClassItem, Classify([]string{"500"}))
	assert.Equal(t, ClassItem, Classify([]string{"599"}))
	assert.Equal(t, ClassPayment, Classify([]string{"601"}))
	assert.Equal(t, ClassTax, Classify([]string{"750"}))
	assert.Equal(t, ClassUnknown, Classify([]string{"499"}))
	assert.Equal(t, ClassUnknown, Classify([]string{"800"}))
	assert.Equal(t, ClassUnknown, Classify([]string{"abc"}))
	assert.Equal(t, ClassUnknown, Classify(nil))
}

func TestSplitLinesHandlesCRLF(t *testing.T) {
	lines := SplitLines("a|b\r\nc|d\r\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "a|b", lines[0])
	assert.Equal(t, "c|d", lines[1])

	assert.Nil(t, SplitLines("   "))
}
