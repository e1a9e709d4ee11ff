package assignments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmgatehq/farmgate-backend/pkg/db/models"
	"github.com/farmgatehq/farmgate-backend/pkg/enums"
	"github.com/farmgatehq/farmgate-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an assignments repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateAssignment(ctx context.Context, assignment *models.Assignment) (*models.Assignment, error) {
	if err := r.db.WithContext(ctx).Create(assignment).Error; err != nil {
		return nil, err
	}
	return assignment, nil
}

func (r *repository) CreateAssignmentItems(ctx context.Context, items []models.AssignmentItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindAssignment(ctx context.Context, assignmentID uuid.UUID) (*models.Assignment, error) {
	var assignment models.Assignment
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", assignmentID).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *repository) FindAssignmentItem(ctx context.Context, itemID uuid.UUID) (*models.AssignmentItem, error) {
	var item models.AssignmentItem
	err := r.db.WithContext(ctx).
		Where("id = ?", itemID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) ListAgentAssignments(ctx context.Context, agentUserID uuid.UUID, params pagination.Params) (*AssignmentList, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.Assignment{}).
		Preload("Items").
		Where("agent_user_id = ?", agentUserID)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var assignments []models.Assignment
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&assignments).Error; err != nil {
		return nil, err
	}

	list := &AssignmentList{Assignments: assignments}
	if len(assignments) > normalized {
		next := assignments[normalized]
		list.Assignments = assignments[:normalized]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID})
	}
	return list, nil
}

// IncrementSold bumps the sold counter. The WHERE guard holds the ledger
// invariant assigned >= sold + returned.
func (r *repository) IncrementSold(ctx context.Context, itemID uuid.UUID, qty int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.AssignmentItem{}).
		Where("id = ? AND assigned_quantity - sold_quantity - returned_quantity >= ?", itemID, qty).
		UpdateColumn("sold_quantity", gorm.Expr("sold_quantity + ?", qty))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) IncrementReturned(ctx context.Context, itemID uuid.UUID, qty int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.AssignmentItem{}).
		Where("id = ? AND assigned_quantity - sold_quantity - returned_quantity >= ?", itemID, qty).
		UpdateColumn("returned_quantity", gorm.Expr("returned_quantity + ?", qty))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) UpdateAssignmentStatus(ctx context.Context, assignmentID uuid.UUID, status enums.AssignmentStatus, updates map[string]any) error {
	if updates == nil {
		updates = map[string]any{}
	}
	updates["status"] = status
	return r.db.WithContext(ctx).
		Model(&models.Assignment{}).
		Where("id = ?", assignmentID).
		Updates(updates).Error
}
