package assignments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmgatehq/farmgate-backend/pkg/db/models"
	"github.com/farmgatehq/farmgate-backend/pkg/enums"
	"github.com/farmgatehq/farmgate-backend/pkg/pagination"
)

// Repository defines persistence operations for agent stock assignments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateAssignment(ctx context.Context, assignment *models.Assignment) (*models.Assignment, error)
	CreateAssignmentItems(ctx context.Context, items []models.AssignmentItem) error
	FindAssignment(ctx context.Context, assignmentID uuid.UUID) (*models.Assignment, error)
	FindAssignmentItem(ctx context.Context, itemID uuid.UUID) (*models.AssignmentItem, error)
	ListAgentAssignments(ctx context.Context, agentUserID uuid.UUID, params pagination.Params) (*AssignmentList, error)
	IncrementSold(ctx context.Context, itemID uuid.UUID, qty int) (bool, error)
	IncrementReturned(ctx context.Context, itemID uuid.UUID, qty int) (bool, error)
	UpdateAssignmentStatus(ctx context.Context, assignmentID uuid.UUID, status enums.AssignmentStatus, updates map[string]any) error
}
