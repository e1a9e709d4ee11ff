// Package receipts composes the receipt value object emitted when a payment
// settles and pushes it to the downstream notification topic. Receipts are not
// database entities; they are assembled from the order at settlement time and
// the number alone is persisted back onto the order row.
package receipts

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmgatehq/farmgate-backend/pkg/db/models"
	"github.com/farmgatehq/farmgate-backend/pkg/enums"
)

// NumberPrefix leads every issued receipt number.
const NumberPrefix = "FG"

// FormatNumber renders a claimed counter value as the printed receipt number.
func FormatNumber(seq int64) string {
	return fmt.Sprintf("%s-%06d", NumberPrefix, seq)
}

// Item is a single product line on a receipt.
type Item struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// Receipt is the printable settlement artifact for one order.
type Receipt struct {
	ReceiptNo     string              `json:"receipt_no"`
	OrderID       uuid.UUID           `json:"order_id"`
	CustomerID    uuid.UUID           `json:"customer_id"`
	IssuedAt      time.Time           `json:"issued_at"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	Items         []Item              `json:"items"`
	SubTotal      decimal.Decimal     `json:"sub_total"`
	VAT           decimal.Decimal     `json:"vat"`
	Total         decimal.Decimal     `json:"total"`
	Collected     decimal.Decimal     `json:"collected"`
	Balance       decimal.Decimal     `json:"balance"`
}

// Build assembles the receipt from a settled order. The order must already
// carry its receipt number and the collected amount recorded by the payment.
func Build(order *models.Order, issuedAt time.Time) Receipt {
	items := make([]Item, 0, len(order.Items))
	subTotal := decimal.Zero
	for _, line := range order.Items {
		total := line.LineTotal()
		subTotal = subTotal.Add(total)
		items = append(items, Item{
			Name:      line.ProductName,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Total:     total,
		})
	}

	receiptNo := ""
	if order.ReceiptNo != nil {
		receiptNo = *order.ReceiptNo
	}
	method := enums.PaymentMethod("")
	if order.PaymentMethod != nil {
		method = *order.PaymentMethod
	}

	return Receipt{
		ReceiptNo:     receiptNo,
		OrderID:       order.ID,
		CustomerID:    order.CustomerID,
		IssuedAt:      issuedAt,
		PaymentMethod: method,
		PaymentStatus: order.PaymentStatus,
		Items:         items,
		SubTotal:      subTotal,
		VAT:           order.VATAmount,
		Total:         order.TotalAmount,
		Collected:     order.CollectedAmount,
		Balance:       order.PendingBalance(),
	}
}
