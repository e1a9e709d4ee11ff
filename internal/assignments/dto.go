package assignments

import (
	"github.com/google/uuid"

	"github.com/farmgatehq/farmgate-backend/pkg/db/models"
)

// AssignmentItemInput is one product line of a new assignment.
type AssignmentItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Qty       int       `json:"qty" validate:"gt=0"`
}

// CreateAssignmentInput carries the fields needed to hand stock to an agent.
// CreatedByUserID stays nil when the agent requested the stock themselves.
type CreateAssignmentInput struct {
	AgentUserID     uuid.UUID             `json:"agent_user_id" validate:"required"`
	CreatedByUserID *uuid.UUID            `json:"created_by_user_id,omitempty"`
	Items           []AssignmentItemInput `json:"items" validate:"required,min=1,dive"`
}

// RecordSaleInput marks qty units of an assignment item as sold on site.
type RecordSaleInput struct {
	AssignmentID uuid.UUID `json:"assignment_id" validate:"required"`
	ItemID       uuid.UUID `json:"item_id" validate:"required"`
	Qty          int       `json:"qty" validate:"gt=0"`
	ActorUserID  uuid.UUID `json:"-"`
}

// ReturnUnsoldInput brings qty unsold units back into warehouse stock.
type ReturnUnsoldInput struct {
	AssignmentID uuid.UUID `json:"assignment_id" validate:"required"`
	ItemID       uuid.UUID `json:"item_id" validate:"required"`
	Qty          int       `json:"qty" validate:"gt=0"`
	ActorUserID  uuid.UUID `json:"-"`
}

// CloseAssignmentInput finalizes an assignment. Cancel restocks the unsold
// remainder of every item before flipping the status.
type CloseAssignmentInput struct {
	AssignmentID uuid.UUID `json:"assignment_id" validate:"required"`
	Cancel       bool      `json:"cancel,omitempty"`
	ActorUserID  uuid.UUID `json:"-"`
}

// AssignmentList wraps a page of assignments plus the next page cursor.
type AssignmentList struct {
	Assignments []models.Assignment `json:"assignments"`
	NextCursor  string              `json:"next_cursor,omitempty"`
}
