package schema

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParsePrice extracts the numeric amount from a display price string.
// The API ships prices as display strings (e.g. "₹999", "₹1,299.50"), so
// totals have to be recovered by stripping the currency marker and grouping
// separators. Returns 0 for strings with no digits rather than an error;
// price strings are presentation data and a missing amount must not block
// the cart flow.
func ParsePrice(price string) float64 {
	var b strings.Builder
	for _, r := range price {
		if unicode.IsDigit(r) || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	amount, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return amount
}

// FormatPrice renders a numeric amount the way the storefront displays it.
func FormatPrice(amount float64) string {
	if amount == float64(int64(amount)) {
		return fmt.Sprintf("₹%d", int64(amount))
	}
	return fmt.Sprintf("₹%.2f", amount)
}

// CartTotal sums the line totals of all items in the slice.
func CartTotal(items []CartItem) float64 {
	var total float64
	for _, it := range items {
		total += ParsePrice(it.UnitPrice) * float64(it.Quantity)
	}
	return total
}

// Initials derives a two-letter tag from brand and model names, used for
// generated avatar placeholders. Falls back to "BP" when both are empty.
func Initials(brand, model string) string {
	first := firstLetter(brand)
	second := firstLetter(model)
	if first == "" && second == "" {
		return "BP"
	}
	if second == "" {
		second = first
	}
	if first == "" {
		first = second
	}
	return strings.ToUpper(first + second)
}

func firstLetter(s string) string {
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return string(r)
		}
	}
	return ""
}
