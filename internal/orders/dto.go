package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmgatehq/farmgate-backend/internal/inspection"
	"github.com/farmgatehq/farmgate-backend/internal/payments"
	"github.com/farmgatehq/farmgate-backend/pkg/db/models"
	"github.com/farmgatehq/farmgate-backend/pkg/enums"
)

// OrderItemInput is one product line of a new order.
type OrderItemInput struct {
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	Qty       int             `json:"qty" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"required"`
}

// CreateOrderInput carries the fields needed to open an order. A supplied
// agent starts the order in the assigned state; otherwise it stays pending.
type CreateOrderInput struct {
	CustomerID       uuid.UUID        `json:"customer_id" validate:"required"`
	Items            []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	AssignedAgentID  *uuid.UUID       `json:"assigned_agent_id,omitempty"`
	VehicleID        *uuid.UUID       `json:"vehicle_id,omitempty"`
	DeliveryDate     *time.Time       `json:"delivery_date,omitempty"`
	PurchaseOrderRef *string          `json:"purchase_order_ref,omitempty"`
	VATApplicable    bool             `json:"vat_applicable"`
	CreatedByUserID  uuid.UUID        `json:"-"`
}

// TransitionInput carries a transition request plus the target-specific
// payload. Exactly one payload section applies to any given target.
type TransitionInput struct {
	OrderID     uuid.UUID                   `json:"-"`
	Target      enums.TransitionTarget      `json:"target" validate:"required"`
	ActorUserID uuid.UUID                   `json:"-"`
	ActorRole   enums.Role                  `json:"-"`
	Incomplete  *inspection.IncompleteInput `json:"incomplete,omitempty"`
	Bypass      *inspection.BypassInput     `json:"bypass,omitempty"`
	Payment     *payments.Input             `json:"payment,omitempty"`
}

// OrderFilters describe the supported filter knobs for the order listing.
type OrderFilters struct {
	Status          *enums.OrderStatus `json:"status,omitempty"`
	AssignedAgentID *uuid.UUID         `json:"assigned_agent_id,omitempty"`
	VehicleID       *uuid.UUID         `json:"vehicle_id,omitempty"`
	DeliveryFrom    *time.Time         `json:"delivery_from,omitempty"`
	DeliveryTo      *time.Time         `json:"delivery_to,omitempty"`
	Limit           int                `json:"limit,omitempty"`
	Offset          int                `json:"offset,omitempty"`
}

// TransitionResult is what a committed transition hands back to callers.
type TransitionResult struct {
	Order     *models.Order `json:"order"`
	ReceiptNo string        `json:"receipt_no,omitempty"`
}
