package models

import (
	"time"

	"github.com/google/uuid"
)

// AssignmentItem tracks one product within an assignment. The ledger invariant
// is assigned >= sold + returned at all times.
type AssignmentItem struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AssignmentID     uuid.UUID `gorm:"column:assignment_id;type:uuid;not null"`
	ProductID        uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	AssignedQuantity int       `gorm:"column:assigned_quantity;not null"`
	SoldQuantity     int       `gorm:"column:sold_quantity;not null;default:0"`
	ReturnedQuantity int       `gorm:"column:returned_quantity;not null;default:0"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Available is the unsold, unreturned remainder the agent still carries.
func (i *AssignmentItem) Available() int {
	return i.AssignedQuantity - i.SoldQuantity - i.ReturnedQuantity
}
