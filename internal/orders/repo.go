package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmgatehq/farmgate-backend/pkg/db/models"
	"github.com/farmgatehq/farmgate-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// statusPriorityExpr ranks statuses for the dispatch board. Declared once at
// init so every list query shares the same CASE expression.
var statusPriorityExpr = buildStatusPriorityExpr()

func buildStatusPriorityExpr() string {
	statuses := []enums.OrderStatus{
		enums.OrderStatusPending,
		enums.OrderStatusAssigned,
		enums.OrderStatusProductsLoaded,
		enums.OrderStatusProductReloaded,
		enums.OrderStatusSecurityCheckIncomplete,
		enums.OrderStatusSecurityChecked,
		enums.OrderStatusSecurityCheckBypassed,
		enums.OrderStatusDepartedFarm,
		enums.OrderStatusDelivered,
		enums.OrderStatusCompleted,
		enums.OrderStatusCancelled,
	}

	var b strings.Builder
	b.WriteString("CASE status")
	for _, status := range statuses {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", status, status.ListPriority())
	}
	fmt.Fprintf(&b, " ELSE %d END", len(statuses))
	return b.String()
}

// ListOrders applies the board ordering: delivery date first with undated
// orders last, then status priority, then insertion order.
func (r *repository) ListOrders(ctx context.Context, filters OrderFilters) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{}).Preload("Items")

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.AssignedAgentID != nil {
		query = query.Where("assigned_agent_id = ?", *filters.AssignedAgentID)
	}
	if filters.VehicleID != nil {
		query = query.Where("vehicle_id = ?", *filters.VehicleID)
	}
	if filters.DeliveryFrom != nil {
		query = query.Where("delivery_date >= ?", *filters.DeliveryFrom)
	}
	if filters.DeliveryTo != nil {
		query = query.Where("delivery_date <= ?", *filters.DeliveryTo)
	}

	query = query.Order("(delivery_date IS NULL) ASC").
		Order("delivery_date ASC").
		Order(statusPriorityExpr + " ASC").
		Order("created_at ASC")

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates).Error
}
