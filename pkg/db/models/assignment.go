package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmgatehq/farmgate-backend/pkg/enums"
)

// Assignment is a batch of inventory handed to a field agent for on-site sale.
// A nil CreatedByUserID means the agent requested the stock themselves.
type Assignment struct {
	ID              uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AgentUserID     uuid.UUID              `gorm:"column:agent_user_id;type:uuid;not null"`
	CreatedByUserID *uuid.UUID             `gorm:"column:created_by_user_id;type:uuid"`
	Status          enums.AssignmentStatus `gorm:"column:status;type:text;not null;default:'active'"`
	Items           []AssignmentItem       `gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE"`
	ClosedAt        *time.Time             `gorm:"column:closed_at"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
