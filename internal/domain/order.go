package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the durable record created once a payment attempt is treated as
// successful. Products preserves cart entry order, duplicates included.
// There is no update path after creation.
type Order struct {
	ID        string    `json:"id"`
	Products  []string  `json:"products"`
	Payment   Payment   `json:"payment"`
	BuyerID   string    `json:"buyer"`
	CreatedAt time.Time `json:"createdAt"`
}

type Payment struct {
	Method    string          `json:"method"`
	Status    string          `json:"status"`
	Amount    decimal.Decimal `json:"amount"`
	PaymentID string          `json:"paymentId,omitempty"`
}
