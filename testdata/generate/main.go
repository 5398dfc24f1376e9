// Generates a synthetic closure batch under testdata/sample: one day-open
// and day-close marker, a run of ticket files, and the matching closure
// summary. With -defects, a handful of known inconsistencies are injected
// so the validator output can be exercised end to end.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

const (
	date      = "20240115"
	closureID = "1042"
)

var categories = []int{101, 205, 310}

type item struct {
	code     string
	category int
	net      int64
	tax      int64
	units    int64
}

func (it item) gross() int64 { return it.net + it.tax }

type bucket struct {
	units int64
	gross int64
	net   int64
}

func main() {
	out := flag.String("out", "testdata/sample", "output directory")
	count := flag.Int("tickets", 12, "number of ticket files")
	defects := flag.Bool("defects", false, "inject known inconsistencies")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	if err := os.MkdirAll(*out, 0o755); err != nil {
		log.Fatalf("mkdir: %v", err)
	}
	rng := rand.New(rand.NewSource(*seed))

	byCategory := make(map[int]*bucket)
	var grossTotal, netTotal int64
	firstTicket := 101
	lastTicket := firstTicket + *count - 1

	writeFile(*out, fileName(0, "11001"), eventLine("11001"))

	for i := 0; i < *count; i++ {
		ticketNum := firstTicket + i
		if *defects && i == *count/2 {
			// Leave a hole in the sequence; the summary still declares the
			// full range, so only the gap warning should fire.
			continue
		}

		items := makeItems(rng)
		var tGross, tNet, tTax, tUnits int64
		for _, it := range items {
			tGross += it.gross()
			tNet += it.net
			tTax += it.tax
			tUnits += it.units

			b, ok := byCategory[it.category]
			if !ok {
				b = &bucket{}
				byCategory[it.category] = b
			}
			b.units += it.units
			b.gross += it.gross()
			b.net += it.net
		}
		grossTotal += tGross
		netTotal += tNet

		hour := 9 + i/4
		minute := (i * 13) % 60
		content := ticketFile(ticketNum, fmt.Sprintf("%02d%02d00", hour, minute), items, tGross, tNet, tTax, tUnits)
		if *defects && i == 1 {
			// Declare a gross total 1000 mills above the line-item sum.
			content = ticketFile(ticketNum, fmt.Sprintf("%02d%02d00", hour, minute), items, tGross+1000, tNet, tTax, tUnits)
		}
		writeFile(*out, fileName(ticketNum, "11004"), content)
	}

	saleCount := int64(*count)
	if *defects {
		saleCount-- // one ticket was skipped above
	}
	writeFile(*out, fileName(9000, "11008"),
		summaryFile(firstTicket, lastTicket, saleCount, grossTotal, netTotal, byCategory))
	writeFile(*out, fileName(9999, "11002"), eventLine("11002"))

	log.Printf("Generated batch in %s: %d tickets, gross=%d mills", *out, *count, grossTotal)
}

func makeItems(rng *rand.Rand) []item {
	n := 1 + rng.Intn(3)
	items := make([]item, 0, n)
	for j := 0; j < n; j++ {
		net := int64(1000 + rng.Intn(20)*500)
		items = append(items, item{
			code:     fmt.Sprintf("ART%04d", 1+rng.Intn(500)),
			category: categories[rng.Intn(len(categories))],
			net:      net,
			tax:      net * 21 / 100,
			units:    int64(1 + rng.Intn(3)),
		})
	}
	return items
}

// fileName places the 5-digit transaction code at offset 18, where the
// identifier expects it.
func fileName(seq int, code string) string {
	return fmt.Sprintf("%s_%s_%04d%s.dat", date, closureID, seq, code)
}

func eventLine(code string) string {
	return join(code, date, "000000", closureID)
}

func ticketFile(ticketNum int, hhmmss string, items []item, gross, net, tax, units int64) string {
	header := make([]string, 33)
	header[0] = "11004"
	header[1] = date
	header[2] = hhmmss
	header[3] = closureID
	header[4] = fmt.Sprintf("%d", ticketNum)
	header[6] = "1"
	header[11] = fmt.Sprintf("%d", net)
	header[12] = fmt.Sprintf("%d", gross)
	header[13] = fmt.Sprintf("%d", tax)
	header[14] = "0"
	header[15] = "0"
	header[16] = fmt.Sprintf("%d", len(items))
	header[19] = fmt.Sprintf("%d", units)
	header[30] = "0"
	header[32] = "0"

	lines := []string{strings.Join(header, "|")}

	for _, it := range items {
		row := make([]string, 22)
		row[0] = "501"
		row[1] = it.code
		row[2] = "GENERATED ARTICLE"
		row[4] = fmt.Sprintf("%d", it.category)
		row[5] = fmt.Sprintf("%d", it.net)
		row[6] = fmt.Sprintf("%d", it.gross())
		row[8] = fmt.Sprintf("%d", it.units)
		row[9] = fmt.Sprintf("%d", it.gross())
		row[12] = "0"
		row[13] = "1"
		row[14] = "2100"
		row[19] = "0"
		row[21] = "0"
		lines = append(lines, strings.Join(row, "|"))
	}

	lines = append(lines, join("601", "1", "", fmt.Sprintf("%d", gross)))
	lines = append(lines, join("701", "1", "", fmt.Sprintf("%d", net), fmt.Sprintf("%d", tax)))

	return strings.Join(lines, "\n") + "\n"
}

func summaryFile(first, last int, saleCount, gross, net int64, byCategory map[int]*bucket) string {
	header := make([]string, 16)
	header[0] = "11008"
	header[1] = date
	header[4] = closureID
	header[6] = fmt.Sprintf("%d", first)
	header[7] = fmt.Sprintf("%d", last)
	header[8] = fmt.Sprintf("%d", saleCount)
	header[9] = fmt.Sprintf("%d", gross)
	header[10] = fmt.Sprintf("%d", net)
	header[11] = "0"
	header[12] = "0"
	header[13] = "0"
	header[14] = "0"
	header[15] = "0"

	lines := []string{strings.Join(header, "|")}
	row := 1
	for _, cat := range categories {
		b, ok := byCategory[cat]
		if !ok {
			continue
		}
		lines = append(lines, join(
			fmt.Sprintf("%d", row), "1", fmt.Sprintf("%d", cat), "1",
			fmt.Sprintf("%d", b.units), fmt.Sprintf("%d", b.gross),
			fmt.Sprintf("%d", b.net), "0",
			"0", "0", "0", "0",
		))
		row++
	}

	return strings.Join(lines, "\n") + "\n"
}

func join(fields ...string) string {
	return strings.Join(fields, "|")
}

func writeFile(dir, name, content string) {
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		log.Fatalf("write %s: %v", name, err)
	}
}
