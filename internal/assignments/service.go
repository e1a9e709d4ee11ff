package assignments

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmgatehq/farmgate-backend/internal/inventory"
	"github.com/farmgatehq/farmgate-backend/pkg/clock"
	"github.com/farmgatehq/farmgate-backend/pkg/db/models"
	"github.com/farmgatehq/farmgate-backend/pkg/enums"
	pkgerrors "github.com/farmgatehq/farmgate-backend/pkg/errors"
	"github.com/farmgatehq/farmgate-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// InventoryLedger is the slice of the inventory service assignments need.
type InventoryLedger interface {
	Reserve(ctx context.Context, tx *gorm.DB, requests []inventory.ReservationRequest) error
	Restock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error
}

// Service manages the lifecycle of field agent stock assignments.
type Service interface {
	Create(ctx context.Context, input CreateAssignmentInput) (*models.Assignment, error)
	Get(ctx context.Context, assignmentID uuid.UUID) (*models.Assignment, error)
	ListForAgent(ctx context.Context, agentUserID uuid.UUID, params pagination.Params) (*AssignmentList, error)
	RecordSale(ctx context.Context, input RecordSaleInput) error
	ReturnUnsold(ctx context.Context, input ReturnUnsoldInput) error
	Close(ctx context.Context, input CloseAssignmentInput) error
}

type service struct {
	repo      Repository
	tx        txRunner
	inventory InventoryLedger
	clock     clock.Clock
}

// NewService builds an assignments service with the required dependencies.
func NewService(repo Repository, tx txRunner, ledger InventoryLedger, clk clock.Clock) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("assignments repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("inventory ledger required")
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &service{repo: repo, tx: tx, inventory: ledger, clock: clk}, nil
}

func (s *service) Create(ctx context.Context, input CreateAssignmentInput) (*models.Assignment, error) {
	if input.AgentUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "agent user id required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one assignment item required")
	}

	requests := make([]inventory.ReservationRequest, 0, len(input.Items))
	for _, item := range input.Items {
		if item.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
		}
		if item.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "assignment quantity must be positive")
		}
		requests = append(requests, inventory.ReservationRequest{ProductID: item.ProductID, Qty: item.Qty})
	}

	var created *models.Assignment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.inventory.Reserve(ctx, tx, requests); err != nil {
			return err
		}

		repo := s.repo.WithTx(tx)
		assignment := &models.Assignment{
			AgentUserID:     input.AgentUserID,
			CreatedByUserID: input.CreatedByUserID,
			Status:          enums.AssignmentStatusActive,
		}
		assignment, err := repo.CreateAssignment(ctx, assignment)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create assignment")
		}

		items := make([]models.AssignmentItem, 0, len(input.Items))
		for _, item := range input.Items {
			items = append(items, models.AssignmentItem{
				AssignmentID:     assignment.ID,
				ProductID:        item.ProductID,
				AssignedQuantity: item.Qty,
			})
		}
		if err := repo.CreateAssignmentItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create assignment items")
		}

		assignment.Items = items
		created = assignment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, assignmentID uuid.UUID) (*models.Assignment, error) {
	if assignmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "assignment id required")
	}
	assignment, err := s.repo.FindAssignment(ctx, assignmentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assignment")
	}
	return assignment, nil
}

func (s *service) ListForAgent(ctx context.Context, agentUserID uuid.UUID, params pagination.Params) (*AssignmentList, error) {
	if agentUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "agent user id required")
	}
	list, err := s.repo.ListAgentAssignments(ctx, agentUserID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list assignments")
	}
	return list, nil
}

func (s *service) RecordSale(ctx context.Context, input RecordSaleInput) error {
	if input.AssignmentID == uuid.Nil || input.ItemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "assignment and item ids required")
	}
	if input.Qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "sale quantity must be positive")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		item, err := s.loadActiveItem(ctx, repo, input.AssignmentID, input.ItemID)
		if err != nil {
			return err
		}

		moved, err := repo.IncrementSold(ctx, item.ID, input.Qty)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record sale")
		}
		if !moved {
			return pkgerrors.New(pkgerrors.CodeInsufficientStock, "sale exceeds remaining assigned stock").
				WithDetails(inventory.Shortfall{
					ProductID: item.ProductID,
					Requested: input.Qty,
					Available: item.Available(),
				})
		}
		return nil
	})
}

func (s *service) ReturnUnsold(ctx context.Context, input ReturnUnsoldInput) error {
	if input.AssignmentID == uuid.Nil || input.ItemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "assignment and item ids required")
	}
	if input.Qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "return quantity must be positive")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		item, err := s.loadActiveItem(ctx, repo, input.AssignmentID, input.ItemID)
		if err != nil {
			return err
		}

		moved, err := repo.IncrementReturned(ctx, item.ID, input.Qty)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record agent return")
		}
		if !moved {
			return pkgerrors.New(pkgerrors.CodeInvalidReturn, "return exceeds remaining assigned stock").
				WithDetails(inventory.Shortfall{
					ProductID: item.ProductID,
					Requested: input.Qty,
					Available: item.Available(),
				})
		}

		return s.inventory.Restock(ctx, tx, item.ProductID, input.Qty)
	})
}

// Close finalizes an assignment. Whatever the agent still carries goes back
// into warehouse stock; cancel and complete differ only in the final status.
func (s *service) Close(ctx context.Context, input CloseAssignmentInput) error {
	if input.AssignmentID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "assignment id required")
	}

	target := enums.AssignmentStatusCompleted
	if input.Cancel {
		target = enums.AssignmentStatusCancelled
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		assignment, err := repo.FindAssignment(ctx, input.AssignmentID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assignment")
		}
		if assignment.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeConflict, "assignment already closed")
		}

		for _, item := range assignment.Items {
			remainder := item.Available()
			if remainder <= 0 {
				continue
			}
			if _, err := repo.IncrementReturned(ctx, item.ID, remainder); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sweep assignment remainder")
			}
			if err := s.inventory.Restock(ctx, tx, item.ProductID, remainder); err != nil {
				return err
			}
		}

		now := s.clock.Now()
		updates := map[string]any{"closed_at": &now}
		if err := repo.UpdateAssignmentStatus(ctx, assignment.ID, target, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close assignment")
		}
		return nil
	})
}

func (s *service) loadActiveItem(ctx context.Context, repo Repository, assignmentID, itemID uuid.UUID) (*models.AssignmentItem, error) {
	assignment, err := repo.FindAssignment(ctx, assignmentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assignment")
	}
	if assignment.Status != enums.AssignmentStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "assignment is not active")
	}

	item, err := repo.FindAssignmentItem(ctx, itemID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "assignment item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assignment item")
	}
	if item.AssignmentID != assignment.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "item does not belong to assignment")
	}
	return item, nil
}
