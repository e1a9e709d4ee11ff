package returns

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmgatehq/farmgate-backend/pkg/db/models"
)

// Repository defines persistence operations for customer returns.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindOrderItem(ctx context.Context, itemID uuid.UUID) (*models.OrderItem, error)
	CreateReturn(ctx context.Context, record *models.OrderReturn) error
	IncrementReturned(ctx context.Context, itemID uuid.UUID, qty int) (bool, error)
	ListReturnsForOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderReturn, error)
}
