package money

import (
	"fmt"
	"strconv"
	"strings"
)

// The protocol transmits all currency amounts as integer mills (1/1000 of a
// currency unit) and percentages as integers scaled by 10,000.

// Format renders a mills amount with three decimal places, e.g. 12345 -> "12.345".
func Format(mills int64) string {
	sign := ""
	if mills < 0 {
		sign = "-"
		mills = -mills
	}
	return fmt.Sprintf("%s%d.%03d", sign, mills/1000, mills%1000)
}

// ParseField parses a protocol integer field. Blank fields read as zero;
// reporting genuinely missing data is the semantic validator's job, not the
// parser's.
func ParseField(val string) int64 {
	val = strings.TrimSpace(val)
	if val == "" {
		return 0
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Abs returns the absolute value of a mills amount.
func Abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
