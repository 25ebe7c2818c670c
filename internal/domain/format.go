package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatINR renders an amount in rupees with Indian digit grouping,
// e.g. -1234567.891 -> "-₹12,34,567.89".
func FormatINR(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		n = 0
	}
	s := strconv.FormatFloat(math.Abs(n), 'f', 2, 64)
	intPart, frac, _ := strings.Cut(s, ".")

	out := "₹" + groupIndian(intPart) + "." + frac
	if n < 0 && s != "0.00" {
		return "-" + out
	}
	return out
}

// FormatPercent renders a signed percentage with two decimals: "+1.23%", "-0.50%", "0.00%".
func FormatPercent(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		n = 0
	}
	rounded := math.Round(n*100) / 100
	if rounded == 0 {
		return "0.00%"
	}
	if rounded > 0 {
		return fmt.Sprintf("+%.2f%%", rounded)
	}
	return fmt.Sprintf("%.2f%%", rounded)
}

// FormatCompact renders large numbers in Indian short form:
// thousands as K, lakhs as L and crores as Cr, with at most one decimal.
func FormatCompact(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		n = 0
	}
	abs := math.Abs(n)

	var scaled float64
	var suffix string
	switch {
	case abs >= 1e7:
		scaled, suffix = abs/1e7, "Cr"
	case abs >= 1e5:
		scaled, suffix = abs/1e5, "L"
	case abs >= 1e3:
		scaled, suffix = abs/1e3, "K"
	default:
		scaled = abs
	}

	s := strconv.FormatFloat(math.Round(scaled*10)/10, 'f', 1, 64)
	s = strings.TrimSuffix(s, ".0")
	intPart, frac, hasFrac := strings.Cut(s, ".")
	s = groupIndian(intPart)
	if hasFrac {
		s += "." + frac
	}

	if n < 0 && s != "0" {
		s = "-" + s
	}
	return s + suffix
}

// groupIndian inserts separators in an unsigned digit string using the
// 3-2-2 Indian grouping: 1234567 -> 12,34,567.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)

	return strings.Join(groups, ",") + "," + tail
}
