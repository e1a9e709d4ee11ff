package payments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/farmgatehq/farmgate-backend/pkg/db/models"
	"github.com/farmgatehq/farmgate-backend/pkg/enums"
	pkgerrors "github.com/farmgatehq/farmgate-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:payments_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.ReceiptCounter{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := conn.Create(&models.ReceiptCounter{ID: 1, LastNo: 0}).Error; err != nil {
		t.Fatalf("seed counter: %v", err)
	}
	return conn
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := newTestDB(t)
	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func testOrder(total int64) *models.Order {
	return &models.Order{
		ID:          uuid.New(),
		CustomerID:  uuid.New(),
		TotalAmount: decimal.NewFromInt(total),
		Items: []models.OrderItem{
			{ProductName: "Tomatoes", Quantity: 2, UnitPrice: decimal.NewFromInt(50)},
		},
	}
}

func TestServiceSettle_fullPayment(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	ctx := context.Background()
	order := testOrder(100)
	now := time.Date(2025, 4, 1, 20, 0, 0, 0, time.UTC)

	settlement, err := svc.Settle(ctx, conn, order, Input{Method: enums.PaymentMethodCash, Full: true}, now)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if settlement.Status != enums.PaymentStatusFullyPaid {
		t.Fatalf("expected fully paid, got %s", settlement.Status)
	}
	if !settlement.Collected.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected collected 100, got %s", settlement.Collected)
	}
	if settlement.ReceiptNo != "FG-000001" {
		t.Fatalf("unexpected receipt number %s", settlement.ReceiptNo)
	}
	if order.ReceiptNo == nil || *order.ReceiptNo != settlement.ReceiptNo {
		t.Fatalf("order not stamped with receipt number: %+v", order.ReceiptNo)
	}
	if settlement.Receipt.ReceiptNo != settlement.ReceiptNo {
		t.Fatalf("receipt artifact missing number")
	}
}

func TestServiceSettle_partialPayment(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	ctx := context.Background()
	order := testOrder(100)
	amount := decimal.NewFromInt(40)

	settlement, err := svc.Settle(ctx, conn, order, Input{Method: enums.PaymentMethodNet, Amount: &amount}, time.Now())
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if settlement.Status != enums.PaymentStatusPartiallyPaid {
		t.Fatalf("expected partially paid, got %s", settlement.Status)
	}
	if !order.PendingBalance().Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected pending balance 60, got %s", order.PendingBalance())
	}
}

func TestServiceSettle_partialEqualToTotalIsFullyPaid(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	ctx := context.Background()
	order := testOrder(100)
	amount := decimal.NewFromInt(100)

	settlement, err := svc.Settle(ctx, conn, order, Input{Method: enums.PaymentMethodCash, Amount: &amount}, time.Now())
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if settlement.Status != enums.PaymentStatusFullyPaid {
		t.Fatalf("expected fully paid, got %s", settlement.Status)
	}
}

func TestServiceSettle_invalidAmounts(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	ctx := context.Background()
	zero := decimal.Zero
	negative := decimal.NewFromInt(-5)
	over := decimal.NewFromInt(150)

	cases := []struct {
		name   string
		amount *decimal.Decimal
	}{
		{name: "missing amount", amount: nil},
		{name: "zero amount", amount: &zero},
		{name: "negative amount", amount: &negative},
		{name: "amount over total", amount: &over},
	}
	for _, tc := range cases {
		order := testOrder(100)
		_, err := svc.Settle(ctx, conn, order, Input{Method: enums.PaymentMethodCash, Amount: tc.amount}, time.Now())
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInvalidAmount {
			t.Fatalf("%s: expected invalid amount error, got %v", tc.name, err)
		}
		if order.ReceiptNo != nil {
			t.Fatalf("%s: rejected settlement must not stamp a receipt", tc.name)
		}
	}
}

func TestServiceSettle_receiptNumbersMonotonic(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	ctx := context.Background()

	first, err := svc.Settle(ctx, conn, testOrder(50), Input{Method: enums.PaymentMethodCash, Full: true}, time.Now())
	if err != nil {
		t.Fatalf("first settle: %v", err)
	}
	second, err := svc.Settle(ctx, conn, testOrder(50), Input{Method: enums.PaymentMethodCash, Full: true}, time.Now())
	if err != nil {
		t.Fatalf("second settle: %v", err)
	}
	if first.ReceiptNo != "FG-000001" || second.ReceiptNo != "FG-000002" {
		t.Fatalf("expected monotonic receipt numbers, got %s then %s", first.ReceiptNo, second.ReceiptNo)
	}
}

func TestServiceSettle_alreadySettled(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	ctx := context.Background()
	order := testOrder(100)
	existing := "FG-000009"
	order.ReceiptNo = &existing

	_, err := svc.Settle(ctx, conn, order, Input{Method: enums.PaymentMethodCash, Full: true}, time.Now())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}
