package returns

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmgatehq/farmgate-backend/pkg/db/models"
	pkgerrors "github.com/farmgatehq/farmgate-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// InventoryRestocker puts returned units back into warehouse stock.
type InventoryRestocker interface {
	Restock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error
}

// ProcessReturnInput carries the fields needed to apply a customer return.
type ProcessReturnInput struct {
	OrderItemID uuid.UUID `json:"order_item_id" validate:"required"`
	Quantity    int       `json:"quantity" validate:"gt=0"`
	Reason      string    `json:"reason" validate:"required"`
	ActorUserID uuid.UUID `json:"-"`
}

// Service applies partial product returns against order lines.
type Service interface {
	Process(ctx context.Context, input ProcessReturnInput) (*models.OrderReturn, error)
	ListForOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderReturn, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	inventory InventoryRestocker
}

// NewService builds a returns service with the required dependencies.
func NewService(repo Repository, tx txRunner, restocker InventoryRestocker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("returns repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if restocker == nil {
		return nil, fmt.Errorf("inventory restocker required")
	}
	return &service{repo: repo, tx: tx, inventory: restocker}, nil
}

// Process appends the audit record, bumps the line's returned counter, and
// restocks the product, all under one commit.
func (s *service) Process(ctx context.Context, input ProcessReturnInput) (*models.OrderReturn, error) {
	if input.OrderItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order item id required")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidReturn, "return quantity must be positive")
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidReturn, "return reason required")
	}

	var record *models.OrderReturn
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		item, err := repo.FindOrderItem(ctx, input.OrderItemID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order item")
		}

		moved, err := repo.IncrementReturned(ctx, item.ID, input.Quantity)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment returned quantity")
		}
		if !moved {
			return pkgerrors.New(pkgerrors.CodeInvalidReturn, "return exceeds remaining quantity").
				WithDetails(map[string]int{
					"requested": input.Quantity,
					"remaining": item.RemainingReturnable(),
				})
		}

		record = &models.OrderReturn{
			OrderItemID: item.ID,
			Quantity:    input.Quantity,
			Reason:      reason,
			ActorUserID: input.ActorUserID,
		}
		if err := repo.CreateReturn(ctx, record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create return record")
		}

		return s.inventory.Restock(ctx, tx, item.ProductID, input.Quantity)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *service) ListForOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderReturn, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	records, err := s.repo.ListReturnsForOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list returns")
	}
	return records, nil
}
