package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmgatehq/farmgate-backend/pkg/db/types"
	"github.com/farmgatehq/farmgate-backend/pkg/enums"
)

// Order is one sales transaction for one customer, tracked through the
// fulfillment state machine. Orders are never physically deleted; cancellation
// is a terminal status.
type Order struct {
	ID                uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID        uuid.UUID            `gorm:"column:customer_id;type:uuid;not null"`
	Status            enums.OrderStatus    `gorm:"column:status;type:text;not null;default:'pending'"`
	CreatedByUserID   uuid.UUID            `gorm:"column:created_by_user_id;type:uuid;not null"`
	AssignedAgentID   *uuid.UUID           `gorm:"column:assigned_agent_id;type:uuid"`
	CompletedByUserID *uuid.UUID           `gorm:"column:completed_by_user_id;type:uuid"`
	VehicleID         *uuid.UUID           `gorm:"column:vehicle_id;type:uuid"`
	PurchaseOrderRef  *string              `gorm:"column:purchase_order_ref"`
	SecurityNote      types.SecurityNote   `gorm:"column:security_note;type:jsonb;serializer:json"`
	PaymentMethod     *enums.PaymentMethod `gorm:"column:payment_method;type:text"`
	PaymentStatus     enums.PaymentStatus  `gorm:"column:payment_status;type:text;not null;default:'unpaid'"`
	ReceiptNo         *string              `gorm:"column:receipt_no;uniqueIndex"`
	TotalAmount       decimal.Decimal      `gorm:"column:total_amount;type:numeric(12,2);not null"`
	VATAmount         decimal.Decimal      `gorm:"column:vat_amount;type:numeric(12,2);not null"`
	VATApplicable     bool                 `gorm:"column:vat_applicable;not null;default:false"`
	CollectedAmount   decimal.Decimal      `gorm:"column:collected_amount;type:numeric(12,2);not null"`
	DeliveryDate      *time.Time           `gorm:"column:delivery_date"`
	CompletedAt       *time.Time           `gorm:"column:completed_at"`
	Items             []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// SecurityStatus is a convenience accessor over the persisted note variant.
func (o *Order) SecurityStatus() enums.SecurityStatus {
	if o.SecurityNote.Status == "" {
		return enums.SecurityStatusPending
	}
	return o.SecurityNote.Status
}

// PendingBalance is the uncollected remainder of the total amount.
func (o *Order) PendingBalance() decimal.Decimal {
	balance := o.TotalAmount.Sub(o.CollectedAmount)
	if balance.IsNegative() {
		return decimal.Zero
	}
	return balance
}
