package parse

import (
	"strconv"
	"strings"
)

// LineClass tags a ticket body line by its 3-digit leading register code.
type LineClass int

const (
	ClassUnknown LineClass = iota
	ClassItem              // 500-599
	ClassPayment           // 600-699
	ClassTax               // 700-799
)

// SplitLines splits raw file content into trimmed lines, tolerating CRLF.
func SplitLines(content string) []string {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return lines
}

// Fields splits one line into its pipe-delimited fields.
func Fields(line string) []string {
	return strings.Split(line, "|")
}

// Field returns the trimmed field at index i, or "" when out of range.
// Positional extraction never fails on short lines; missing data is reported
// downstream by semantic validation.
func Field(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}

// Classify returns the line class for a body line's leading register code.
func Classify(fields []string) LineClass {
	if len(fields) == 0 {
		return ClassUnknown
	}
	id, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return ClassUnknown
	}
	switch {
	case id >= 500 && id <= 599:
		return ClassItem
	case id >= 600 && id <= 699:
		return ClassPayment
	case id >= 700 && id <= 799:
		return ClassTax
	default:
		return ClassUnknown
	}
}
