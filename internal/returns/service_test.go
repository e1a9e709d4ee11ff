package returns

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/farmgatehq/farmgate-backend/internal/inventory"
	"github.com/farmgatehq/farmgate-backend/pkg/db"
	"github.com/farmgatehq/farmgate-backend/pkg/db/models"
	pkgerrors "github.com/farmgatehq/farmgate-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:returns_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}, &models.Order{}, &models.OrderItem{}, &models.OrderReturn{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := newTestDB(t)
	runner := db.NewFromConn(conn)
	ledger, err := inventory.NewService(inventory.NewRepository(conn), runner)
	if err != nil {
		t.Fatalf("inventory service: %v", err)
	}
	svc, err := NewService(NewRepository(conn), runner, ledger)
	if err != nil {
		t.Fatalf("returns service: %v", err)
	}
	return svc, conn
}

func seedOrderItem(t *testing.T, conn *gorm.DB, qty, returned, productQty int) models.OrderItem {
	t.Helper()
	product := models.Product{ID: uuid.New(), Name: "Tomatoes", Quantity: productQty}
	if err := conn.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	order := models.Order{
		ID:              uuid.New(),
		CustomerID:      uuid.New(),
		CreatedByUserID: uuid.New(),
	}
	if err := conn.Create(&order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	item := models.OrderItem{
		ID:               uuid.New(),
		OrderID:          order.ID,
		ProductID:        product.ID,
		ProductName:      product.Name,
		Quantity:         qty,
		UnitPrice:        decimal.NewFromInt(10),
		ReturnedQuantity: returned,
	}
	if err := conn.Create(&item).Error; err != nil {
		t.Fatalf("seed order item: %v", err)
	}
	return item
}

func TestServiceProcess_appliesAllEffects(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	ctx := context.Background()
	item := seedOrderItem(t, conn, 10, 6, 20)

	record, err := svc.Process(ctx, ProcessReturnInput{
		OrderItemID: item.ID,
		Quantity:    4,
		Reason:      "damaged on arrival",
		ActorUserID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("process return: %v", err)
	}
	if record.Quantity != 4 {
		t.Fatalf("unexpected return record: %+v", record)
	}

	var loadedItem models.OrderItem
	if err := conn.First(&loadedItem, "id = ?", item.ID).Error; err != nil {
		t.Fatalf("load item: %v", err)
	}
	if loadedItem.ReturnedQuantity != 10 {
		t.Fatalf("expected returned quantity 10, got %d", loadedItem.ReturnedQuantity)
	}

	var product models.Product
	if err := conn.First(&product, "id = ?", item.ProductID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if product.Quantity != 24 {
		t.Fatalf("expected product stock 24, got %d", product.Quantity)
	}
}

func TestServiceProcess_rejectsOverReturn(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	ctx := context.Background()
	item := seedOrderItem(t, conn, 10, 6, 20)

	_, err := svc.Process(ctx, ProcessReturnInput{
		OrderItemID: item.ID,
		Quantity:    5,
		Reason:      "damaged on arrival",
		ActorUserID: uuid.New(),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInvalidReturn {
		t.Fatalf("expected invalid return error, got %v", err)
	}

	var count int64
	if err := conn.Model(&models.OrderReturn{}).Count(&count).Error; err != nil {
		t.Fatalf("count returns: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no return rows, got %d", count)
	}

	var product models.Product
	if err := conn.First(&product, "id = ?", item.ProductID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if product.Quantity != 20 {
		t.Fatalf("expected untouched product stock, got %d", product.Quantity)
	}
}

func TestServiceProcess_requiresReason(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	ctx := context.Background()
	item := seedOrderItem(t, conn, 5, 0, 10)

	_, err := svc.Process(ctx, ProcessReturnInput{
		OrderItemID: item.ID,
		Quantity:    1,
		Reason:      "   ",
		ActorUserID: uuid.New(),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInvalidReturn {
		t.Fatalf("expected invalid return error, got %v", err)
	}
}

func TestServiceListForOrder(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	ctx := context.Background()
	item := seedOrderItem(t, conn, 10, 0, 10)

	for i := 0; i < 2; i++ {
		if _, err := svc.Process(ctx, ProcessReturnInput{
			OrderItemID: item.ID,
			Quantity:    2,
			Reason:      "short shipment",
			ActorUserID: uuid.New(),
		}); err != nil {
			t.Fatalf("process return %d: %v", i, err)
		}
	}

	records, err := svc.ListForOrder(ctx, item.OrderID)
	if err != nil {
		t.Fatalf("list returns: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 return records, got %d", len(records))
	}
}
