package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/farmgatehq/farmgate-backend/internal/inspection"
	"github.com/farmgatehq/farmgate-backend/internal/inventory"
	"github.com/farmgatehq/farmgate-backend/internal/payments"
	"github.com/farmgatehq/farmgate-backend/internal/receipts"
	"github.com/farmgatehq/farmgate-backend/pkg/clock"
	"github.com/farmgatehq/farmgate-backend/pkg/db/models"
	"github.com/farmgatehq/farmgate-backend/pkg/db/types"
	"github.com/farmgatehq/farmgate-backend/pkg/enums"
	pkgerrors "github.com/farmgatehq/farmgate-backend/pkg/errors"
	"github.com/farmgatehq/farmgate-backend/pkg/metrics"
)

// vatRate applies when an order is flagged VAT-applicable.
var vatRate = decimal.NewFromFloat(0.15)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// InventoryLedger is the slice of the inventory service orders need.
type InventoryLedger interface {
	Reserve(ctx context.Context, tx *gorm.DB, requests []inventory.ReservationRequest) error
	Restock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
}

// ReceiptNotifier delivers settlement receipts downstream, best effort.
type ReceiptNotifier interface {
	Notify(ctx context.Context, receipt receipts.Receipt)
}

// Service drives the order state machine.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filters OrderFilters) ([]models.Order, error)
	RequestTransition(ctx context.Context, input TransitionInput) (*TransitionResult, error)
}

type service struct {
	repo       Repository
	tx         txRunner
	inventory  InventoryLedger
	payments   payments.Service
	notifier   ReceiptNotifier
	clock      clock.Clock
	hours      clock.WorkingHours
	transition *metrics.TransitionMetrics
}

// ServiceParams collects the order service dependencies.
type ServiceParams struct {
	Repo       Repository
	Tx         txRunner
	Inventory  InventoryLedger
	Payments   payments.Service
	Notifier   ReceiptNotifier
	Clock      clock.Clock
	Hours      clock.WorkingHours
	Transition *metrics.TransitionMetrics
}

// NewService builds the order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory ledger required")
	}
	if params.Payments == nil {
		return nil, fmt.Errorf("payments service required")
	}
	if params.Clock == nil {
		params.Clock = clock.System{}
	}
	return &service{
		repo:       params.Repo,
		tx:         params.Tx,
		inventory:  params.Inventory,
		payments:   params.Payments,
		notifier:   params.Notifier,
		clock:      params.Clock,
		hours:      params.Hours,
		transition: params.Transition,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if input.CreatedByUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one order item required")
	}

	requests := make([]inventory.ReservationRequest, 0, len(input.Items))
	for _, item := range input.Items {
		if item.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
		}
		if item.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "order quantity must be positive")
		}
		if item.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
		}
		requests = append(requests, inventory.ReservationRequest{ProductID: item.ProductID, Qty: item.Qty})
	}

	status := enums.OrderStatusPending
	if input.AssignedAgentID != nil {
		status = enums.OrderStatusAssigned
	}

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.inventory.Reserve(ctx, tx, requests); err != nil {
			return err
		}

		repo := s.repo.WithTx(tx)
		subtotal := decimal.Zero
		items := make([]models.OrderItem, 0, len(input.Items))
		for _, item := range input.Items {
			product, err := s.inventory.GetProduct(ctx, item.ProductID)
			if err != nil {
				return err
			}
			subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Qty))))
			items = append(items, models.OrderItem{
				ProductID:   item.ProductID,
				ProductName: product.Name,
				Quantity:    item.Qty,
				UnitPrice:   item.UnitPrice,
			})
		}

		vat := decimal.Zero
		if input.VATApplicable {
			vat = subtotal.Mul(vatRate).Round(2)
		}

		order := &models.Order{
			CustomerID:       input.CustomerID,
			Status:           status,
			CreatedByUserID:  input.CreatedByUserID,
			AssignedAgentID:  input.AssignedAgentID,
			VehicleID:        input.VehicleID,
			PurchaseOrderRef: input.PurchaseOrderRef,
			SecurityNote:     types.NoSecurityNote(),
			PaymentStatus:    enums.PaymentStatusUnpaid,
			TotalAmount:      subtotal.Add(vat),
			VATAmount:        vat,
			VATApplicable:    input.VATApplicable,
			CollectedAmount:  decimal.Zero,
			DeliveryDate:     input.DeliveryDate,
		}
		order, err := repo.CreateOrder(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := repo.CreateOrderItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}

		order.Items = items
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, filters OrderFilters) ([]models.Order, error) {
	orders, err := s.repo.ListOrders(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orders, nil
}

// RequestTransition applies one state-machine step. The checks run in a fixed
// order so every rejection names the first rule that failed: authorization,
// then reachability, then the target's payload guard. All effects of an
// accepted transition commit atomically.
func (s *service) RequestTransition(ctx context.Context, input TransitionInput) (*TransitionResult, error) {
	started := s.clock.Now()
	result, err := s.requestTransition(ctx, input)
	if s.transition != nil {
		s.transition.ObserveDuration(input.Target.String(), time.Since(started))
		if err != nil {
			code := string(pkgerrors.CodeInternal)
			if typed := pkgerrors.As(err); typed != nil {
				code = string(typed.Code())
			}
			s.transition.IncFailure(input.Target.String(), code)
		} else {
			s.transition.IncSuccess(input.Target.String())
		}
	}
	return result, err
}

func (s *service) requestTransition(ctx context.Context, input TransitionInput) (*TransitionResult, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.ActorRole.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "unknown role")
	}
	if !input.Target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown transition target")
	}

	now := s.clock.Now()
	var out TransitionResult
	var settled *payments.Settlement

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if !roleAllowsTransition(input.ActorRole, order.Status, input.Target) {
			return pkgerrors.New(pkgerrors.CodeForbidden,
				fmt.Sprintf("role %s may not request %s", input.ActorRole, input.Target))
		}
		if !graphAllowsTransition(order.Status, input.Target) {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition,
				fmt.Sprintf("cannot move from %s to %s", order.Status, input.Target))
		}

		updates := map[string]any{"status": input.Target.CommittedStatus()}

		switch {
		case input.Target == enums.TargetSecurityChecked:
			updates["security_note"] = inspection.BuildCompleted()

		case input.Target == enums.TargetSecurityCheckIncomplete:
			if input.Incomplete == nil {
				return pkgerrors.New(pkgerrors.CodeValidation, "at least one reason or a note is required")
			}
			note, err := inspection.BuildIncomplete(*input.Incomplete)
			if err != nil {
				return err
			}
			updates["security_note"] = note

		case input.Target == enums.TargetSecurityCheckBypassed:
			if input.Bypass == nil {
				return pkgerrors.New(pkgerrors.CodeValidation, "bypass reason required")
			}
			payload := *input.Bypass
			payload.ActorUserID = input.ActorUserID
			note, err := inspection.BuildBypass(payload, s.hours, now)
			if err != nil {
				return err
			}
			updates["security_note"] = note

		case input.Target.IsPaymentTrigger():
			if input.Payment == nil {
				return pkgerrors.New(pkgerrors.CodeValidation, "payment payload required")
			}
			payload := *input.Payment
			payload.Full = input.Target == enums.TargetDeliveredPaymentCollected
			settlement, err := s.payments.Settle(ctx, tx, order, payload, now)
			if err != nil {
				return err
			}
			settled = settlement
			updates["payment_method"] = order.PaymentMethod
			updates["collected_amount"] = settlement.Collected
			updates["payment_status"] = settlement.Status
			updates["receipt_no"] = settlement.ReceiptNo
			updates["completed_by_user_id"] = input.ActorUserID
			updates["completed_at"] = now
			out.ReceiptNo = settlement.ReceiptNo

		case input.Target == enums.TargetCompleted:
			updates["completed_by_user_id"] = input.ActorUserID
			updates["completed_at"] = now

		case input.Target == enums.TargetCancelled:
			for _, item := range order.Items {
				remainder := item.Quantity - item.ReturnedQuantity
				if remainder <= 0 {
					continue
				}
				if err := s.inventory.Restock(ctx, tx, item.ProductID, remainder); err != nil {
					return err
				}
			}
		}

		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}

		order, err = repo.FindOrder(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		out.Order = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if settled != nil && s.notifier != nil {
		s.notifier.Notify(ctx, settled.Receipt)
	}
	return &out, nil
}
