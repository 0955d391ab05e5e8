package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// D.DD at the very start of a trimmed line, e.g. "1.75 IT 101 ..."
	gradePrefixPattern = regexp.MustCompile(`^\d\.\d{2}`)
	// Second half of a split course code: "IT 101" → "101", "CS ELEC1" → "ELEC1"
	codeTokenPattern = regexp.MustCompile(`^[A-Z0-9]+$`)
	// Integer or decimal units value: "3", "3.0", "1.5"
	unitsPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// parseNumber converts a grade or units token like "1.75" to a float64.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty numeric token")
	}
	return strconv.ParseFloat(s, 64)
}

// splitFields splits a line into whitespace-separated tokens.
// Runs of spaces and tabs from column layouts collapse to one separator.
func splitFields(line string) []string {
	return strings.Fields(line)
}
