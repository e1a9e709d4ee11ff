package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/farmgatehq/farmgate-backend/internal/receipts"
	"github.com/farmgatehq/farmgate-backend/pkg/db/models"
	"github.com/farmgatehq/farmgate-backend/pkg/enums"
	pkgerrors "github.com/farmgatehq/farmgate-backend/pkg/errors"
)

// Input is the payment payload supplied with a delivery confirmation.
type Input struct {
	Method enums.PaymentMethod `json:"method" validate:"required"`
	Full   bool                `json:"full"`
	Amount *decimal.Decimal    `json:"amount,omitempty"`
}

// Settlement is the outcome of applying a payment to an order. The caller
// persists the returned field updates inside the same transaction.
type Settlement struct {
	Collected decimal.Decimal
	Status    enums.PaymentStatus
	ReceiptNo string
	Receipt   receipts.Receipt
}

// Service applies payment settlements against delivered orders.
type Service interface {
	Settle(ctx context.Context, tx *gorm.DB, order *models.Order, input Input, now time.Time) (*Settlement, error)
}

type service struct {
	repo Repository
}

// NewService builds a payments service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	return &service{repo: repo}, nil
}

// Settle validates the payment payload, claims a receipt number, and stamps
// the settlement onto the in-memory order. Full payments force collected to
// the order total; partial payments must fall in (0, total].
func (s *service) Settle(ctx context.Context, tx *gorm.DB, order *models.Order, input Input, now time.Time) (*Settlement, error) {
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order required")
	}
	if !input.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}
	if order.ReceiptNo != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order already settled")
	}

	collected := order.TotalAmount
	if !input.Full {
		if input.Amount == nil {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidAmount, "partial payment requires an amount")
		}
		amount := *input.Amount
		if amount.LessThanOrEqual(decimal.Zero) {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidAmount, "payment amount must be positive")
		}
		if amount.GreaterThan(order.TotalAmount) {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidAmount, "payment amount exceeds order total").
				WithDetails(map[string]string{
					"amount": amount.String(),
					"total":  order.TotalAmount.String(),
				})
		}
		collected = amount
	}

	seq, err := s.repo.WithTx(tx).ClaimReceiptNumber(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim receipt number")
	}
	receiptNo := receipts.FormatNumber(seq)

	method := input.Method
	order.PaymentMethod = &method
	order.CollectedAmount = collected
	order.PaymentStatus = enums.DerivePaymentStatus(collected, order.TotalAmount)
	order.ReceiptNo = &receiptNo

	return &Settlement{
		Collected: collected,
		Status:    order.PaymentStatus,
		ReceiptNo: receiptNo,
		Receipt:   receipts.Build(order, now),
	}, nil
}
