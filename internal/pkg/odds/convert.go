// Package odds converts source price encodings (American, fractional,
// decimal) into the one canonical representation: decimal odds rounded to one
// decimal place. It also carries the handicap-line helpers shared by the
// market normalizers.
package odds

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Round1 rounds a decimal odd to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ConvertAmerican converts an American price string to decimal odds. The
// sentinel "EVEN" is mapped to +100 before arithmetic. An empty or
// unparseable price returns ok=false and the caller omits the outcome.
func ConvertAmerican(price string) (float64, bool) {
	price = strings.TrimSpace(price)
	if price == "" {
		return 0, false
	}
	if strings.EqualFold(price, "EVEN") {
		price = "+100"
	}
	v, err := strconv.ParseFloat(strings.TrimPrefix(price, "+"), 64)
	if err != nil || v == 0 {
		return 0, false
	}
	if v > 0 {
		return Round1(v/100 + 1), true
	}
	return Round1(100/-v + 1), true
}

// ConvertFractional converts "n/d" (or the literal "evens") to decimal odds
// n/d + 1.
func ConvertFractional(price string) (float64, bool) {
	price = strings.ToLower(strings.TrimSpace(price))
	if price == "" {
		return 0, false
	}
	if price == "evens" {
		return 2.0, true
	}
	if num, den, ok := strings.Cut(price, "/"); ok {
		n, err1 := strconv.ParseFloat(strings.TrimSpace(num), 64)
		d, err2 := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0, false
		}
		return Round1(n/d + 1), true
	}
	// Some feeds publish whole numbers or decimal-like strings in the
	// fractional field.
	return ConvertDecimal(price)
}

// ConvertDecimal passes a decimal price through with rounding only.
func ConvertDecimal(price string) (float64, bool) {
	price = strings.TrimSpace(price)
	if price == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(price, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return Round1(v), true
}

// NegateHandicap flips the sign of a handicap string, handling multi-part
// "a,b" split lines. Negation maps -0.0 back to 0.0. Unparseable input
// degrades to "0", matching the historical behavior.
func NegateHandicap(line string) string {
	parts := strings.Split(line, ",")
	negated := make([]string, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return "0"
		}
		v = -v
		if v == 0 {
			v = 0 // no -0.0
		}
		negated = append(negated, formatLine(v))
	}
	return strings.Join(negated, ",")
}

// MeanLine collapses a split Asian line into its arithmetic midpoint,
// formatted as a fixed-precision decimal string.
func MeanLine(line, line2 string) (string, error) {
	a, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
	if err != nil {
		return "", fmt.Errorf("parse line %q: %w", line, err)
	}
	b, err := strconv.ParseFloat(strings.TrimSpace(line2), 64)
	if err != nil {
		return "", fmt.Errorf("parse line %q: %w", line2, err)
	}
	return formatLine((a + b) / 2), nil
}

// formatLine renders a handicap value without trailing zeros beyond what the
// quarter-line grid needs ("2.5", "-0.75", "3").
func formatLine(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s
}
