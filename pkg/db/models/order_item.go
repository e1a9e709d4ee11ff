package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is one product line of an order. ReturnedQuantity never exceeds
// Quantity; the return processor enforces that under the order's tx boundary.
type OrderItem struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID          uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	ProductID        uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	ProductName      string          `gorm:"column:product_name;not null"`
	Quantity         int             `gorm:"column:quantity;not null"`
	UnitPrice        decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	ReturnedQuantity int             `gorm:"column:returned_quantity;not null;default:0"`
	Returns          []OrderReturn   `gorm:"foreignKey:OrderItemID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// LineTotal is quantity times unit price before returns.
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// RemainingReturnable is how many units can still be returned.
func (i *OrderItem) RemainingReturnable() int {
	return i.Quantity - i.ReturnedQuantity
}
