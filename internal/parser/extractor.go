package parser

import (
	"fmt"
	"strings"

	"github.com/insightdelivered/transcript-gwa/internal/models"
)

// Methods recorded in debug lines.
const (
	methodUnits     = "units"
	methodGradeEcho = "units-before-grade-echo"
	methodFallback  = "fallback-units"
)

// extraction is the result of tokenizing one course line.
type extraction struct {
	record   models.CourseRecord
	fallback bool
	method   string
}

// extractRecord splits a classified course line into grade, code, name and
// units.
//
// Layout: GRADE CODE [CODE2] NAME... [UNITS] [GRADE]
//
// The grade is token 0 and the code is token 1, extended by token 2 when that
// is all uppercase letters and digits ("IT" "101" → "IT 101"). Units are the
// rightmost integer-or-decimal token after the code; the name is everything
// between the code and the units. A trailing token equal to the leading grade
// is the transcript's final-grade column and is skipped when another numeric
// token precedes it. With no numeric token at all the units fall back to
// the configured default and the name runs to the end of the line.
func (p *TranscriptParser) extractRecord(line string) (ext extraction, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("token extraction crashed: %v", r)
		}
	}()

	tokens := splitFields(line)
	if len(tokens) < 2 {
		return ext, fmt.Errorf("expected grade and course code, got %d token(s)", len(tokens))
	}

	grade, err := parseNumber(tokens[0])
	if err != nil {
		return ext, fmt.Errorf("invalid grade %q: %w", tokens[0], err)
	}

	code := tokens[1]
	idx := 2
	if idx < len(tokens) && codeTokenPattern.MatchString(tokens[idx]) {
		code += " " + tokens[idx]
		idx++
	}

	end := len(tokens)
	method := methodUnits
	if end-1 > idx && tokens[end-1] == tokens[0] && findUnits(tokens, idx, end-1) >= 0 {
		end--
		method = methodGradeEcho
	}

	unitsIdx := findUnits(tokens, idx, end)
	if unitsIdx < 0 {
		return extraction{
			record: models.CourseRecord{
				Code:  code,
				Name:  strings.TrimSpace(strings.Join(tokens[idx:], " ")),
				Units: p.fallbackUnits(code),
				Grade: grade,
			},
			fallback: true,
			method:   methodFallback,
		}, nil
	}

	units, err := parseNumber(tokens[unitsIdx])
	if err != nil {
		return ext, fmt.Errorf("invalid units %q: %w", tokens[unitsIdx], err)
	}

	return extraction{
		record: models.CourseRecord{
			Code:  code,
			Name:  strings.TrimSpace(strings.Join(tokens[idx:unitsIdx], " ")),
			Units: units,
			Grade: grade,
		},
		method: method,
	}, nil
}

// findUnits scans tokens[from:to] right to left and returns the index of the
// first units-shaped token, or -1.
func findUnits(tokens []string, from, to int) int {
	for i := to - 1; i >= from; i-- {
		if unitsPattern.MatchString(tokens[i]) {
			return i
		}
	}
	return -1
}

func (p *TranscriptParser) fallbackUnits(code string) float64 {
	if units, ok := p.opts.SpecialUnits[code]; ok {
		return units
	}
	return p.opts.DefaultUnits
}
