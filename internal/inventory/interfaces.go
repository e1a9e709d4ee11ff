package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmgatehq/farmgate-backend/pkg/db/models"
	"github.com/farmgatehq/farmgate-backend/pkg/pagination"
)

// Repository defines persistence operations for the product stock ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	FindProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	FindProducts(ctx context.Context, productIDs []uuid.UUID) ([]models.Product, error)
	ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductList, error)
	DecrementStock(ctx context.Context, productID uuid.UUID, qty int) (bool, error)
	IncrementStock(ctx context.Context, productID uuid.UUID, qty int) error
	UpdateReorderThreshold(ctx context.Context, productID uuid.UUID, threshold int) error
}
