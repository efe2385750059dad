package stripe

import (
	"github.com/shopspring/decimal"
	stripego "github.com/stripe/stripe-go/v82"

	"storefront/internal/domain"
)

const (
	sessionCurrency = "usd"

	// maxDescriptionLen caps product descriptions forwarded to the hosted page.
	maxDescriptionLen = 100
)

var centsPerUnit = decimal.NewFromInt(100)

// minorUnits converts a currency-unit amount to integer minor units.
func minorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(centsPerUnit).Round(0).IntPart()
}

// truncate caps s at max characters without splitting a multibyte rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// buildLineItems produces one hosted-checkout line item per cart entry.
// Entries without a positive price are dropped. Quantity is always 1: a cart
// entry is one purchased unit and its Quantity field is only a stock hint.
// When nothing survives (or no cart was supplied) a single aggregate line
// item covering the full amount is returned instead.
func buildLineItems(cart domain.Cart, total decimal.Decimal) []*stripego.CheckoutSessionLineItemParams {
	var items []*stripego.CheckoutSessionLineItemParams
	for _, entry := range cart {
		cents := minorUnits(entry.Price)
		if cents <= 0 {
			continue
		}
		name := entry.Name
		if name == "" {
			name = "Product"
		}
		description := truncate(entry.Description, maxDescriptionLen)
		productData := &stripego.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripego.String(name),
		}
		if description != "" {
			productData.Description = stripego.String(description)
		}
		items = append(items, &stripego.CheckoutSessionLineItemParams{
			PriceData: &stripego.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripego.String(sessionCurrency),
				ProductData: productData,
				UnitAmount:  stripego.Int64(cents),
			},
			Quantity: stripego.Int64(1),
		})
	}

	if len(items) == 0 {
		items = []*stripego.CheckoutSessionLineItemParams{{
			PriceData: &stripego.CheckoutSessionLineItemPriceDataParams{
				Currency: stripego.String(sessionCurrency),
				ProductData: &stripego.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripego.String("Order Total"),
				},
				UnitAmount: stripego.Int64(minorUnits(total)),
			},
			Quantity: stripego.Int64(1),
		}}
	}

	return items
}
