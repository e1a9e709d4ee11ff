package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/farmgatehq/farmgate-backend/internal/inspection"
	"github.com/farmgatehq/farmgate-backend/internal/inventory"
	"github.com/farmgatehq/farmgate-backend/internal/payments"
	"github.com/farmgatehq/farmgate-backend/internal/receipts"
	"github.com/farmgatehq/farmgate-backend/pkg/clock"
	"github.com/farmgatehq/farmgate-backend/pkg/db"
	"github.com/farmgatehq/farmgate-backend/pkg/db/models"
	"github.com/farmgatehq/farmgate-backend/pkg/enums"
	pkgerrors "github.com/farmgatehq/farmgate-backend/pkg/errors"
)

type capturedReceipts struct {
	receipts []receipts.Receipt
}

func (c *capturedReceipts) Notify(_ context.Context, receipt receipts.Receipt) {
	c.receipts = append(c.receipts, receipt)
}

type testEnv struct {
	svc      Service
	conn     *gorm.DB
	clock    *clock.Fixed
	notifier *capturedReceipts
}

func newTestEnv(t *testing.T, at time.Time) *testEnv {
	t.Helper()
	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderReturn{},
		&models.ReceiptCounter{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := conn.Create(&models.ReceiptCounter{ID: 1, LastNo: 0}).Error; err != nil {
		t.Fatalf("seed counter: %v", err)
	}

	runner := db.NewFromConn(conn)
	ledger, err := inventory.NewService(inventory.NewRepository(conn), runner)
	if err != nil {
		t.Fatalf("inventory service: %v", err)
	}
	paySvc, err := payments.NewService(payments.NewRepository(conn))
	if err != nil {
		t.Fatalf("payments service: %v", err)
	}

	fixed := &clock.Fixed{At: at}
	notifier := &capturedReceipts{}
	svc, err := NewService(ServiceParams{
		Repo:      NewRepository(conn),
		Tx:        runner,
		Inventory: ledger,
		Payments:  paySvc,
		Notifier:  notifier,
		Clock:     fixed,
		Hours:     clock.WorkingHours{OpenHour: 6, CloseHour: 18, Location: time.UTC},
	})
	if err != nil {
		t.Fatalf("orders service: %v", err)
	}
	return &testEnv{svc: svc, conn: conn, clock: fixed, notifier: notifier}
}

func (e *testEnv) seedProduct(t *testing.T, qty int) models.Product {
	t.Helper()
	product := models.Product{ID: uuid.New(), Name: "Tomatoes", Quantity: qty}
	if err := e.conn.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func (e *testEnv) createOrder(t *testing.T, product models.Product, qty int, price int64) *models.Order {
	t.Helper()
	agent := uuid.New()
	order, err := e.svc.Create(context.Background(), CreateOrderInput{
		CustomerID:      uuid.New(),
		CreatedByUserID: uuid.New(),
		AssignedAgentID: &agent,
		Items: []OrderItemInput{
			{ProductID: product.ID, Qty: qty, UnitPrice: decimal.NewFromInt(price)},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}

// advance walks the order to the wanted status using back-office transitions.
func (e *testEnv) advance(t *testing.T, orderID uuid.UUID, path ...enums.TransitionTarget) {
	t.Helper()
	for _, target := range path {
		input := TransitionInput{
			OrderID:     orderID,
			Target:      target,
			ActorUserID: uuid.New(),
			ActorRole:   enums.RoleAdmin,
		}
		if target == enums.TargetSecurityCheckBypassed {
			input.ActorRole = enums.RoleInspector
			input.Bypass = &inspection.BypassInput{Reason: "night dispatch"}
		}
		if _, err := e.svc.RequestTransition(context.Background(), input); err != nil {
			t.Fatalf("advance to %s: %v", target, err)
		}
	}
}

func TestServiceCreate(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC))
	product := env.seedProduct(t, 10)

	order := env.createOrder(t, product, 4, 25)
	if order.Status != enums.OrderStatusAssigned {
		t.Fatalf("expected assigned status, got %s", order.Status)
	}
	if !order.TotalAmount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected total 100, got %s", order.TotalAmount)
	}
	if order.PaymentStatus != enums.PaymentStatusUnpaid {
		t.Fatalf("expected unpaid, got %s", order.PaymentStatus)
	}

	var loaded models.Product
	if err := env.conn.First(&loaded, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if loaded.Quantity != 6 {
		t.Fatalf("expected stock 6 after reservation, got %d", loaded.Quantity)
	}
}

func TestServiceCreate_withoutAgentStaysPending(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC))
	product := env.seedProduct(t, 10)

	order, err := env.svc.Create(context.Background(), CreateOrderInput{
		CustomerID:      uuid.New(),
		CreatedByUserID: uuid.New(),
		Items: []OrderItemInput{
			{ProductID: product.ID, Qty: 1, UnitPrice: decimal.NewFromInt(10)},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.Status != enums.OrderStatusPending {
		t.Fatalf("expected pending status, got %s", order.Status)
	}
}

func TestRequestTransition_fieldAgentNeverChecksSecurity(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC))
	product := env.seedProduct(t, 10)
	order := env.createOrder(t, product, 1, 10)

	for _, setup := range [][]enums.TransitionTarget{
		nil,
		{enums.TargetProductsLoaded},
	} {
		env.advance(t, order.ID, setup...)
		_, err := env.svc.RequestTransition(context.Background(), TransitionInput{
			OrderID:     order.ID,
			Target:      enums.TargetSecurityChecked,
			ActorUserID: uuid.New(),
			ActorRole:   enums.RoleFieldAgent,
		})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
			t.Fatalf("expected forbidden, got %v", err)
		}
	}
}

func TestRequestTransition_fullPayment(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC))
	product := env.seedProduct(t, 20)
	order := env.createOrder(t, product, 10, 100)
	env.advance(t, order.ID,
		enums.TargetProductsLoaded,
		enums.TargetSecurityChecked,
		enums.TargetDepartedFarm,
	)

	result, err := env.svc.RequestTransition(context.Background(), TransitionInput{
		OrderID:     order.ID,
		Target:      enums.TargetDeliveredPaymentCollected,
		ActorUserID: uuid.New(),
		ActorRole:   enums.RoleFieldAgent,
		Payment:     &payments.Input{Method: enums.PaymentMethodCash},
	})
	if err != nil {
		t.Fatalf("full payment transition: %v", err)
	}
	if result.Order.Status != enums.OrderStatusDelivered {
		t.Fatalf("expected delivered, got %s", result.Order.Status)
	}
	if !result.Order.CollectedAmount.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected collected 1000, got %s", result.Order.CollectedAmount)
	}
	if result.Order.PaymentStatus != enums.PaymentStatusFullyPaid {
		t.Fatalf("expected fully paid, got %s", result.Order.PaymentStatus)
	}
	if result.ReceiptNo == "" || result.Order.ReceiptNo == nil {
		t.Fatalf("expected receipt number assigned")
	}
	if len(env.notifier.receipts) != 1 {
		t.Fatalf("expected one receipt notification, got %d", len(env.notifier.receipts))
	}
}

func TestRequestTransition_partialPayment(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC))
	product := env.seedProduct(t, 20)
	order := env.createOrder(t, product, 10, 100)
	env.advance(t, order.ID,
		enums.TargetProductsLoaded,
		enums.TargetSecurityChecked,
		enums.TargetDepartedFarm,
	)

	amount := decimal.NewFromInt(400)
	result, err := env.svc.RequestTransition(context.Background(), TransitionInput{
		OrderID:     order.ID,
		Target:      enums.TargetDeliveredPaymentPartiallyCollected,
		ActorUserID: uuid.New(),
		ActorRole:   enums.RoleFieldAgent,
		Payment:     &payments.Input{Method: enums.PaymentMethodNet, Amount: &amount},
	})
	if err != nil {
		t.Fatalf("partial payment transition: %v", err)
	}
	if result.Order.PaymentStatus != enums.PaymentStatusPartiallyPaid {
		t.Fatalf("expected partially paid, got %s", result.Order.PaymentStatus)
	}
	if !result.Order.PendingBalance().Equal(decimal.NewFromInt(600)) {
		t.Fatalf("expected pending balance 600, got %s", result.Order.PendingBalance())
	}
}

func TestRequestTransition_overpaymentLeavesOrderUntouched(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC))
	product := env.seedProduct(t, 20)
	order := env.createOrder(t, product, 10, 100)
	env.advance(t, order.ID,
		enums.TargetProductsLoaded,
		enums.TargetSecurityChecked,
		enums.TargetDepartedFarm,
	)

	amount := decimal.NewFromInt(1200)
	_, err := env.svc.RequestTransition(context.Background(), TransitionInput{
		OrderID:     order.ID,
		Target:      enums.TargetDeliveredPaymentPartiallyCollected,
		ActorUserID: uuid.New(),
		ActorRole:   enums.RoleFieldAgent,
		Payment:     &payments.Input{Method: enums.PaymentMethodCash, Amount: &amount},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInvalidAmount {
		t.Fatalf("expected invalid amount, got %v", err)
	}

	var loaded models.Order
	if err := env.conn.First(&loaded, "id = ?", order.ID).Error; err != nil {
		t.Fatalf("load order: %v", err)
	}
	if loaded.Status != enums.OrderStatusDepartedFarm || loaded.ReceiptNo != nil {
		t.Fatalf("rejected payment must leave order untouched: %+v", loaded)
	}
	if loaded.PaymentStatus != enums.PaymentStatusUnpaid {
		t.Fatalf("expected unpaid after rejection, got %s", loaded.PaymentStatus)
	}
}

func TestRequestTransition_incompleteRequiresPayload(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC))
	product := env.seedProduct(t, 10)
	order := env.createOrder(t, product, 1, 10)
	env.advance(t, order.ID, enums.TargetProductsLoaded)

	_, err := env.svc.RequestTransition(context.Background(), TransitionInput{
		OrderID:     order.ID,
		Target:      enums.TargetSecurityCheckIncomplete,
		ActorUserID: uuid.New(),
		ActorRole:   enums.RoleInspector,
		Incomplete:  &inspection.IncompleteInput{},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation failure, got %v", err)
	}

	var loaded models.Order
	if err := env.conn.First(&loaded, "id = ?", order.ID).Error; err != nil {
		t.Fatalf("load order: %v", err)
	}
	if loaded.Status != enums.OrderStatusProductsLoaded {
		t.Fatalf("status must be unchanged, got %s", loaded.Status)
	}
}

func TestRequestTransition_incompleteReEditIsIdempotent(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC))
	product := env.seedProduct(t, 10)
	order := env.createOrder(t, product, 1, 10)
	env.advance(t, order.ID, enums.TargetProductsLoaded)

	payload := &inspection.IncompleteInput{
		Reasons: []string{"missing_quantity"},
		Note:    "two crates short",
	}
	for i := 0; i < 2; i++ {
		if _, err := env.svc.RequestTransition(context.Background(), TransitionInput{
			OrderID:     order.ID,
			Target:      enums.TargetSecurityCheckIncomplete,
			ActorUserID: uuid.New(),
			ActorRole:   enums.RoleInspector,
			Incomplete:  payload,
		}); err != nil {
			t.Fatalf("incomplete submission %d: %v", i, err)
		}
	}

	var loaded models.Order
	if err := env.conn.First(&loaded, "id = ?", order.ID).Error; err != nil {
		t.Fatalf("load order: %v", err)
	}
	if loaded.SecurityNote.Incomplete == nil {
		t.Fatalf("expected incomplete note, got %+v", loaded.SecurityNote)
	}
	if len(loaded.SecurityNote.Incomplete.Reasons) != 1 {
		t.Fatalf("re-submission must not accumulate reasons: %v", loaded.SecurityNote.Incomplete.Reasons)
	}
	if loaded.SecurityNote.Incomplete.Note != "two crates short" {
		t.Fatalf("unexpected note: %q", loaded.SecurityNote.Incomplete.Note)
	}
}

func TestRequestTransition_bypassRespectsWorkingHours(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC))
	product := env.seedProduct(t, 10)
	order := env.createOrder(t, product, 1, 10)
	env.advance(t, order.ID, enums.TargetProductsLoaded)

	_, err := env.svc.RequestTransition(context.Background(), TransitionInput{
		OrderID:     order.ID,
		Target:      enums.TargetSecurityCheckBypassed,
		ActorUserID: uuid.New(),
		ActorRole:   enums.RoleInspector,
		Bypass:      &inspection.BypassInput{Reason: "urgent dispatch"},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInvalidTransition {
		t.Fatalf("expected in-hours bypass to fail InvalidTransition, got %v", err)
	}

	env.clock.At = time.Date(2025, 4, 1, 20, 0, 0, 0, time.UTC)
	actor := uuid.New()
	result, err := env.svc.RequestTransition(context.Background(), TransitionInput{
		OrderID:     order.ID,
		Target:      enums.TargetSecurityCheckBypassed,
		ActorUserID: actor,
		ActorRole:   enums.RoleInspector,
		Bypass:      &inspection.BypassInput{Reason: "urgent dispatch"},
	})
	if err != nil {
		t.Fatalf("off-hours bypass: %v", err)
	}
	if result.Order.Status != enums.OrderStatusSecurityCheckBypassed {
		t.Fatalf("expected bypassed status, got %s", result.Order.Status)
	}
	if result.Order.SecurityNote.Bypass == nil || result.Order.SecurityNote.Bypass.ActorUserID != actor {
		t.Fatalf("bypass note missing audit fields: %+v", result.Order.SecurityNote)
	}
}

func TestRequestTransition_bypassReservedForInspector(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, time.Date(2025, 4, 1, 20, 0, 0, 0, time.UTC))
	product := env.seedProduct(t, 10)
	order := env.createOrder(t, product, 1, 10)
	env.advance(t, order.ID, enums.TargetProductsLoaded)

	_, err := env.svc.RequestTransition(context.Background(), TransitionInput{
		OrderID:     order.ID,
		Target:      enums.TargetSecurityCheckBypassed,
		ActorUserID: uuid.New(),
		ActorRole:   enums.RoleAdmin,
		Bypass:      &inspection.BypassInput{Reason: "urgent dispatch"},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestRequestTransition_cancelRestocksRemainder(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC))
	product := env.seedProduct(t, 10)
	order := env.createOrder(t, product, 6, 10)

	result, err := env.svc.RequestTransition(context.Background(), TransitionInput{
		OrderID:     order.ID,
		Target:      enums.TargetCancelled,
		ActorUserID: uuid.New(),
		ActorRole:   enums.RoleOrderManager,
	})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if result.Order.Status != enums.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", result.Order.Status)
	}

	var loaded models.Product
	if err := env.conn.First(&loaded, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if loaded.Quantity != 10 {
		t.Fatalf("expected stock back to 10, got %d", loaded.Quantity)
	}

	_, err = env.svc.RequestTransition(context.Background(), TransitionInput{
		OrderID:     order.ID,
		Target:      enums.TargetProductsLoaded,
		ActorUserID: uuid.New(),
		ActorRole:   enums.RoleAdmin,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInvalidTransition {
		t.Fatalf("expected terminal state to refuse transitions, got %v", err)
	}
}

func TestRequestTransition_completedStampsCompleter(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC))
	product := env.seedProduct(t, 20)
	order := env.createOrder(t, product, 2, 50)
	env.advance(t, order.ID,
		enums.TargetProductsLoaded,
		enums.TargetSecurityChecked,
		enums.TargetDepartedFarm,
	)
	if _, err := env.svc.RequestTransition(context.Background(), TransitionInput{
		OrderID:     order.ID,
		Target:      enums.TargetDeliveredPaymentCollected,
		ActorUserID: uuid.New(),
		ActorRole:   enums.RoleFieldAgent,
		Payment:     &payments.Input{Method: enums.PaymentMethodCash},
	}); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	completer := uuid.New()
	result, err := env.svc.RequestTransition(context.Background(), TransitionInput{
		OrderID:     order.ID,
		Target:      enums.TargetCompleted,
		ActorUserID: completer,
		ActorRole:   enums.RoleFinanceAdmin,
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if result.Order.CompletedByUserID == nil || *result.Order.CompletedByUserID != completer {
		t.Fatalf("expected completer stamped, got %+v", result.Order.CompletedByUserID)
	}
	if result.Order.CompletedAt == nil {
		t.Fatalf("expected completed timestamp")
	}
}
