package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderReturn is the immutable audit record of one return event against an
// order item. Rows are append-only; there is no update or delete path.
type OrderReturn struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderItemID uuid.UUID `gorm:"column:order_item_id;type:uuid;not null"`
	Quantity    int       `gorm:"column:quantity;not null"`
	Reason      string    `gorm:"column:reason;not null"`
	ActorUserID uuid.UUID `gorm:"column:actor_user_id;type:uuid;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
