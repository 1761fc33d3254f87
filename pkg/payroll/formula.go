// Package payroll projects loosely-typed upstream rows into the
// strongly-shaped records the DBF writer expects: field-type coercion,
// width-aware defaults, schema aliasing, and the header row's aggregate
// totals over the workers rows.
package payroll

import (
	"regexp"
	"strings"
)

var (
	// =REPT(0,N-LEN("V"))&"V" -> V zero-padded on the left to width N.
	formulaPadLen = regexp.MustCompile(`^=REPT\(0,\s*(\d+)\s*-\s*LEN\("([^"]*)"\)\)&"([^"]*)"$`)
	// =REPT(0,N)&"V" -> N zeros followed by V (or N zeros if V is empty).
	formulaZerosPlusValue = regexp.MustCompile(`^=REPT\(0,\s*(\d+)\s*\)&"([^"]*)"$`)
	// =REPT(0,N) -> N zeros.
	formulaZerosOnly = regexp.MustCompile(`^=REPT\(0,\s*(\d+)\s*\)$`)
)

// ResolveFormula evaluates the narrow set of Excel "=REPT(...)" zero-pad
// formulas the SAP export embeds in place of literal zero-padded text
// (the Projector's upstream contract). The tabular reader calls this on
// every cell's raw text before it is handed to the Projector. Any other
// string starting with "=" that does not match one of these shapes is
// passed through unchanged.
func ResolveFormula(value string) string {
	trimmed := strings.TrimSpace(value)
	if !strings.HasPrefix(trimmed, "=REPT") {
		return value
	}

	if m := formulaPadLen.FindStringSubmatch(trimmed); m != nil {
		width := atoiSafe(m[1])
		text := m[3]
		if len(text) >= width {
			return text
		}
		return strings.Repeat("0", width-len(text)) + text
	}

	if m := formulaZerosPlusValue.FindStringSubmatch(trimmed); m != nil {
		width := atoiSafe(m[1])
		text := m[2]
		if text == "" {
			return strings.Repeat("0", width)
		}
		return strings.Repeat("0", width) + text
	}

	if m := formulaZerosOnly.FindStringSubmatch(trimmed); m != nil {
		width := atoiSafe(m[1])
		return strings.Repeat("0", width)
	}

	return value
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return n
		}
		n = n*10 + int(r-'0')
	}
	return n
}
