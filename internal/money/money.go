// Package money parses and formats Brazilian real amounts as they are typed
// into and shown by the calculators.
package money

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Symbol is the currency prefix used by Format.
const Symbol = "R$"

// Parse converts user-typed text into a non-negative amount.
// Accepted forms: "R$ 1.234,56", "1234,56", "1234.56", "1.234", "12,5%".
// Blank, malformed or negative input yields 0.
//
// Parse reads inputs, which are never negative, so Parse(Format(v)) equals
// Round(v) only for v >= 0. A loss rendered by Format as "-R$ 5,00" parses
// as 0.
func Parse(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, Symbol)
	s = strings.NewReplacer(" ", "", "\u00a0", "", "%", "").Replace(s)
	if s == "" {
		return 0
	}

	s = normalizeSeparators(s)
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return 0
	}
	f := d.InexactFloat64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// normalizeSeparators rewrites s so that '.' is the only decimal separator
// and no grouping characters remain.
func normalizeSeparators(s string) string {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			// 1.234,56
			return strings.Replace(strings.ReplaceAll(s, ".", ""), ",", ".", 1)
		}
		// 1,234.56
		return strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			return s // malformed, rejected by the decimal parser
		}
		return strings.Replace(s, ",", ".", 1)
	case lastDot >= 0:
		if strings.Count(s, ".") > 1 || isThousandsGroup(s, lastDot) {
			return strings.ReplaceAll(s, ".", "")
		}
	}
	return s
}

// isThousandsGroup reports whether a single dot at i reads as pt-BR grouping,
// e.g. "1.234" rather than "12.5".
func isThousandsGroup(s string, i int) bool {
	return len(s)-i-1 == 3 && i > 0 && i <= 3 && s[:i] != "0"
}

// Round rounds v half away from zero to two decimal places.
func Round(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Format renders v as "R$ 1.234,56".
func Format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + Symbol + " " + groupFixed(d.StringFixed(2))
}

// FormatPercent renders v as "12,50%".
func FormatPercent(v float64) string {
	return formatNumber(v) + "%"
}

// FormatMultiple renders a markup multiple such as 2.5 as "2,50x".
func FormatMultiple(v float64) string {
	return formatNumber(v) + "x"
}

// formatNumber renders v with two decimals in pt-BR notation, "-1.234,50".
func formatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + groupFixed(d.StringFixed(2))
}

// groupFixed turns "1234567.89" into "1.234.567,89".
func groupFixed(fixed string) string {
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(intPart[i : i+3])
	}
	if frac != "" {
		b.WriteByte(',')
		b.WriteString(frac)
	}
	return b.String()
}
