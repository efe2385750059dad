package checkout

import (
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// Total sums cart entry prices. Each entry is one purchased unit; the
// entry's Quantity field is a stock hint and never multiplies the price.
func Total(cart domain.Cart) decimal.Decimal {
	total := decimal.Zero
	for _, entry := range cart {
		total = total.Add(entry.Price)
	}
	return total
}

// FormatTotal renders an amount the way the cart page shows it, e.g. $1,350.50.
func FormatTotal(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)
	neg := strings.HasPrefix(fixed, "-")
	if neg {
		fixed = fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
