package parse

import (
	"fmt"

	"github.com/savia/posaudit/internal/domain"
	"github.com/savia/posaudit/internal/money"
)

// Minimum first-line field counts below which a file cannot even be
// attributed to a closure and parsing fails outright. Anything longer
// parses with zero/empty defaults.
const (
	minTicketHeaderFields  = 7
	minSummaryHeaderFields = 8
	minEventHeaderFields   = 4
)

// The file name embeds the 5-digit transaction code at this fixed offset.
const (
	nameCodeStart = 18
	nameCodeEnd   = 23
)

var knownKinds = map[string]domain.RecordKind{
	string(domain.KindDayOpen):  domain.KindDayOpen,
	string(domain.KindDayClose): domain.KindDayClose,
	string(domain.KindTicket):   domain.KindTicket,
	string(domain.KindSummary):  domain.KindSummary,
}

// IdentifyKind determines a file's record kind from the fixed substring of
// its name, falling back to the leading field of the first line.
func IdentifyKind(name, content string) (domain.RecordKind, bool) {
	if len(name) >= nameCodeEnd {
		if kind, ok := knownKinds[name[nameCodeStart:nameCodeEnd]]; ok {
			return kind, true
		}
	}
	lines := SplitLines(content)
	if len(lines) > 0 {
		if kind, ok := knownKinds[Field(Fields(lines[0]), 0)]; ok {
			return kind, true
		}
	}
	return "", false
}

// ParseTicket parses an 11004 sale/return ticket file.
//
// Header positions: 0 code, 1 date, 2 time, 3 closure, 4 ticket, 6 kind,
// 11 net, 12 gross, 13 tax, 14 discount, 15/30/32 cascade percentages,
// 16 item count, 19 unit count.
func ParseTicket(name, content string) (*domain.TicketRecord, error) {
	lines := SplitLines(content)
	if len(lines) == 0 {
		return nil, fmt.Errorf("parse 11004 %s: empty file", name)
	}
	hp := Fields(lines[0])
	if len(hp) < minTicketHeaderFields {
		return nil, fmt.Errorf("parse 11004 %s: header has %d fields, need at least %d",
			name, len(hp), minTicketHeaderFields)
	}

	rec := &domain.TicketRecord{
		FileName: name,
		Raw:      content,
		Header: domain.TicketHeader{
			TransactionCode: Field(hp, 0),
			Date:            Field(hp, 1),
			Time:            Field(hp, 2),
			ClosureID:       Field(hp, 3),
			TicketNumber:    Field(hp, 4),
			Kind:            domain.TicketKind(money.ParseField(Field(hp, 6))),
			Net:             money.ParseField(Field(hp, 11)),
			Gross:           money.ParseField(Field(hp, 12)),
			Tax:             money.ParseField(Field(hp, 13)),
			Discount:        money.ParseField(Field(hp, 14)),
			DiscountPct1:    money.ParseField(Field(hp, 15)),
			ItemCount:       money.ParseField(Field(hp, 16)),
			UnitCount:       money.ParseField(Field(hp, 19)),
			DiscountPct2:    money.ParseField(Field(hp, 30)),
			DiscountPct3:    money.ParseField(Field(hp, 32)),
		},
	}

	for _, line := range lines[1:] {
		if line == "" {
			continue
		}
		p := Fields(line)
		switch Classify(p) {
		case ClassItem:
			rec.Items = append(rec.Items, domain.LineItem{
				RegisterID: Field(p, 0),
				ItemCode:   Field(p, 1),
				Category:   money.ParseField(Field(p, 4)),
				Net:        money.ParseField(Field(p, 5)),
				Gross:      money.ParseField(Field(p, 6)),
				Units:      money.ParseField(Field(p, 8)),
				BaseSale:   money.ParseField(Field(p, 9)),
				Discount1:  money.ParseField(Field(p, 12)),
				FiscalType: money.ParseField(Field(p, 13)),
				TaxRate:    money.ParseField(Field(p, 14)),
				Discount2:  money.ParseField(Field(p, 19)),
				Discount3:  money.ParseField(Field(p, 21)),
			})
		case ClassPayment:
			rec.Payments = append(rec.Payments, domain.PaymentLine{
				RegisterID: Field(p, 0),
				Method:     money.ParseField(Field(p, 1)),
				Amount:     money.ParseField(Field(p, 3)),
			})
		case ClassTax:
			rec.Taxes = append(rec.Taxes, domain.TaxLine{
				RegisterID: Field(p, 0),
				TaxType:    money.ParseField(Field(p, 1)),
				Base:       money.ParseField(Field(p, 3)),
				Amount:     money.ParseField(Field(p, 4)),
			})
		}
		// Other register codes are not part of the audited surface.
	}

	return rec, nil
}

// ParseSummary parses an 11008 closure summary file.
//
// Header positions: 0 code, 1 date, 4 closure, 6/7 first and last ticket,
// 8-11 sale block, 12-15 return block. Body rows with a non-zero leading id
// are per-category aggregation lines.
func ParseSummary(name, content string) (*domain.SummaryRecord, error) {
	lines := SplitLines(content)
	if len(lines) == 0 {
		return nil, fmt.Errorf("parse 11008 %s: empty file", name)
	}
	hp := Fields(lines[0])
	if len(hp) < minSummaryHeaderFields {
		return nil, fmt.Errorf("parse 11008 %s: header has %d fields, need at least %d",
			name, len(hp), minSummaryHeaderFields)
	}

	rec := &domain.SummaryRecord{
		FileName: name,
		Header: domain.SummaryHeader{
			TransactionCode: Field(hp, 0),
			Date:            Field(hp, 1),
			ClosureID:       Field(hp, 4),
			FirstTicket:     Field(hp, 6),
			LastTicket:      Field(hp, 7),
			SaleCount:       money.ParseField(Field(hp, 8)),
			GrossSales:      money.ParseField(Field(hp, 9)),
			NetSales:        money.ParseField(Field(hp, 10)),
			DiscountSales:   money.ParseField(Field(hp, 11)),
			ReturnCount:     money.ParseField(Field(hp, 12)),
			GrossReturns:    money.ParseField(Field(hp, 13)),
			NetReturns:      money.ParseField(Field(hp, 14)),
			DiscountReturns: money.ParseField(Field(hp, 15)),
		},
	}

	for _, line := range lines[1:] {
		if line == "" {
			continue
		}
		p := Fields(line)
		if money.ParseField(Field(p, 0)) <= 0 {
			continue
		}
		rec.Categories = append(rec.Categories, domain.CategoryLine{
			RegisterID:      Field(p, 0),
			Family:          money.ParseField(Field(p, 1)),
			Category:        money.ParseField(Field(p, 2)),
			FiscalType:      money.ParseField(Field(p, 3)),
			SaleUnits:       money.ParseField(Field(p, 4)),
			GrossSales:      money.ParseField(Field(p, 5)),
			NetSales:        money.ParseField(Field(p, 6)),
			DiscountSales:   money.ParseField(Field(p, 7)),
			ReturnUnits:     money.ParseField(Field(p, 8)),
			GrossReturns:    money.ParseField(Field(p, 9)),
			NetReturns:      money.ParseField(Field(p, 10)),
			DiscountReturns: money.ParseField(Field(p, 11)),
		})
	}

	return rec, nil
}

// ParseSystemEvent parses an 11001/11002 day-open or day-close marker file.
// Only the closure id at position 3 is carried.
func ParseSystemEvent(name, content string, kind domain.RecordKind) (*domain.SystemEventRecord, error) {
	lines := SplitLines(content)
	if len(lines) == 0 {
		return nil, fmt.Errorf("parse %s %s: empty file", kind, name)
	}
	hp := Fields(lines[0])
	if len(hp) < minEventHeaderFields {
		return nil, fmt.Errorf("parse %s %s: header has %d fields, need at least %d",
			kind, name, len(hp), minEventHeaderFields)
	}
	return &domain.SystemEventRecord{
		FileName:        name,
		Kind:            kind,
		TransactionCode: Field(hp, 0),
		ClosureID:       Field(hp, 3),
	}, nil
}
