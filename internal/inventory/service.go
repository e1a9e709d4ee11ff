package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmgatehq/farmgate-backend/pkg/db/models"
	pkgerrors "github.com/farmgatehq/farmgate-backend/pkg/errors"
	"github.com/farmgatehq/farmgate-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the stock ledger to the order and assignment flows. Reserve
// and Restock run against the caller's tx so stock moves commit or roll back
// together with the rows that caused them.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductList, error)
	UpdateReorderThreshold(ctx context.Context, productID uuid.UUID, threshold int) error
	Reserve(ctx context.Context, tx *gorm.DB, requests []ReservationRequest) error
	Restock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds an inventory service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	if input.ReorderThreshold < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reorder threshold cannot be negative")
	}

	product := &models.Product{
		Name:             input.Name,
		Quantity:         input.Quantity,
		ReorderThreshold: input.ReorderThreshold,
	}
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return created, nil
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindProduct(ctx, productID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductList, error) {
	list, err := s.repo.ListProducts(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return list, nil
}

// UpdateReorderThreshold moves the low-stock line for a product.
func (s *service) UpdateReorderThreshold(ctx context.Context, productID uuid.UUID, threshold int) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if threshold < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "reorder threshold cannot be negative")
	}
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return err
	}
	if err := s.repo.UpdateReorderThreshold(ctx, productID, threshold); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update reorder threshold")
	}
	return nil
}

// Reserve takes stock for every request or none. Requests against the same
// product are attempted in the order given; the first shortfall collects the
// remaining availability and aborts the whole batch.
func (s *service) Reserve(ctx context.Context, tx *gorm.DB, requests []ReservationRequest) error {
	if len(requests) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one reservation required")
	}
	for _, req := range requests {
		if req.ProductID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
		}
		if req.Qty <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "reservation quantity must be positive")
		}
	}

	repo := s.repo.WithTx(tx)
	for _, req := range requests {
		reserved, err := repo.DecrementStock(ctx, req.ProductID, req.Qty)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve stock")
		}
		if !reserved {
			product, err := repo.FindProduct(ctx, req.ProductID)
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
			}
			return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
				WithDetails(Shortfall{
					ProductID: req.ProductID,
					Requested: req.Qty,
					Available: product.Quantity,
				})
		}
	}
	return nil
}

// Restock puts qty units back on the shelf, used by cancellations and returns.
func (s *service) Restock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "restock quantity must be positive")
	}
	if err := s.repo.WithTx(tx).IncrementStock(ctx, productID, qty); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restock product")
	}
	return nil
}
