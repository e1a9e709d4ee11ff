package receipts

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmgatehq/farmgate-backend/pkg/db/models"
	"github.com/farmgatehq/farmgate-backend/pkg/enums"
)

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	if got := FormatNumber(7); got != "FG-000007" {
		t.Fatalf("unexpected receipt number: %s", got)
	}
	if got := FormatNumber(1234567); got != "FG-1234567" {
		t.Fatalf("unexpected overflow formatting: %s", got)
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	receiptNo := "FG-000042"
	method := enums.PaymentMethodCash
	issuedAt := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	order := &models.Order{
		ID:              uuid.New(),
		CustomerID:      uuid.New(),
		ReceiptNo:       &receiptNo,
		PaymentMethod:   &method,
		PaymentStatus:   enums.PaymentStatusPartiallyPaid,
		TotalAmount:     decimal.NewFromInt(100),
		VATAmount:       decimal.NewFromInt(15),
		CollectedAmount: decimal.NewFromInt(60),
		Items: []models.OrderItem{
			{ProductName: "Tomatoes", Quantity: 4, UnitPrice: decimal.NewFromInt(10)},
			{ProductName: "Onions", Quantity: 3, UnitPrice: decimal.NewFromInt(15)},
		},
	}

	receipt := Build(order, issuedAt)
	if receipt.ReceiptNo != receiptNo {
		t.Fatalf("expected receipt no %s, got %s", receiptNo, receipt.ReceiptNo)
	}
	if len(receipt.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(receipt.Items))
	}
	if !receipt.SubTotal.Equal(decimal.NewFromInt(85)) {
		t.Fatalf("expected subtotal 85, got %s", receipt.SubTotal)
	}
	if !receipt.Balance.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("expected balance 40, got %s", receipt.Balance)
	}
	if receipt.PaymentStatus != enums.PaymentStatusPartiallyPaid {
		t.Fatalf("unexpected payment status %s", receipt.PaymentStatus)
	}
}
