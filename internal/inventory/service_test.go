package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmgatehq/farmgate-backend/pkg/db"
	"github.com/farmgatehq/farmgate-backend/pkg/db/models"
	pkgerrors "github.com/farmgatehq/farmgate-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := newTestDB(t)
	svc, err := NewService(NewRepository(conn), db.NewFromConn(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func TestServiceReserve_allOrNothing(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	ctx := context.Background()
	tomatoes := seedProduct(t, conn, "Tomatoes", 10, 0)
	onions := seedProduct(t, conn, "Onions", 2, 0)

	err := conn.Transaction(func(tx *gorm.DB) error {
		return svc.Reserve(ctx, tx, []ReservationRequest{
			{ProductID: tomatoes.ID, Qty: 4},
			{ProductID: onions.ID, Qty: 5},
		})
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}

	var loaded models.Product
	if err := conn.First(&loaded, "id = ?", tomatoes.ID).Error; err != nil {
		t.Fatalf("load tomatoes: %v", err)
	}
	if loaded.Quantity != 10 {
		t.Fatalf("expected rollback to leave quantity 10, got %d", loaded.Quantity)
	}
}

func TestServiceReserve_shortfallDetails(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	ctx := context.Background()
	product := seedProduct(t, conn, "Peppers", 3, 0)

	err := conn.Transaction(func(tx *gorm.DB) error {
		return svc.Reserve(ctx, tx, []ReservationRequest{{ProductID: product.ID, Qty: 8}})
	})

	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("expected app error, got %v", err)
	}
	shortfall, ok := appErr.Details().(Shortfall)
	if !ok {
		t.Fatalf("expected shortfall details, got %T", appErr.Details())
	}
	if shortfall.Requested != 8 || shortfall.Available != 3 {
		t.Fatalf("unexpected shortfall: %+v", shortfall)
	}
}

func TestServiceReserve_validation(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		requests []ReservationRequest
	}{
		{name: "empty batch", requests: nil},
		{name: "zero qty", requests: []ReservationRequest{{ProductID: uuid.New(), Qty: 0}}},
		{name: "missing product", requests: []ReservationRequest{{Qty: 1}}},
	}
	for _, tc := range cases {
		err := svc.Reserve(ctx, conn, tc.requests)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestServiceRestock(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	ctx := context.Background()
	product := seedProduct(t, conn, "Maize", 2, 0)

	if err := svc.Restock(ctx, conn, product.ID, 6); err != nil {
		t.Fatalf("restock: %v", err)
	}

	var loaded models.Product
	if err := conn.First(&loaded, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if loaded.Quantity != 8 {
		t.Fatalf("expected quantity 8, got %d", loaded.Quantity)
	}
}
