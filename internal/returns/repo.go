package returns

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmgatehq/farmgate-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a returns repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindOrderItem(ctx context.Context, itemID uuid.UUID) (*models.OrderItem, error) {
	var item models.OrderItem
	err := r.db.WithContext(ctx).
		Where("id = ?", itemID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) CreateReturn(ctx context.Context, record *models.OrderReturn) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// IncrementReturned bumps the returned counter. The WHERE guard keeps the
// cumulative returns within the ordered quantity.
func (r *repository) IncrementReturned(ctx context.Context, itemID uuid.UUID, qty int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("id = ? AND quantity - returned_quantity >= ?", itemID, qty).
		UpdateColumn("returned_quantity", gorm.Expr("returned_quantity + ?", qty))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) ListReturnsForOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderReturn, error) {
	var records []models.OrderReturn
	err := r.db.WithContext(ctx).
		Joins("JOIN order_items ON order_items.id = order_returns.order_item_id").
		Where("order_items.order_id = ?", orderID).
		Order("order_returns.created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
