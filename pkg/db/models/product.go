package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is the inventory record the ledger guards. Quantity never goes
// negative; only the inventory ledger mutates it.
type Product struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name             string    `gorm:"column:name;not null"`
	Quantity         int       `gorm:"column:quantity;not null;default:0"`
	ReorderThreshold int       `gorm:"column:reorder_threshold;not null;default:0"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// BelowReorderThreshold flags products the back office should restock.
func (p *Product) BelowReorderThreshold() bool {
	return p.Quantity < p.ReorderThreshold
}
