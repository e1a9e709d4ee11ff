package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/farmgatehq/farmgate-backend/internal/assignments"
	"github.com/farmgatehq/farmgate-backend/internal/inventory"
	"github.com/farmgatehq/farmgate-backend/internal/orders"
	"github.com/farmgatehq/farmgate-backend/internal/payments"
	"github.com/farmgatehq/farmgate-backend/internal/returns"
	pkgauth "github.com/farmgatehq/farmgate-backend/pkg/auth"
	"github.com/farmgatehq/farmgate-backend/pkg/clock"
	"github.com/farmgatehq/farmgate-backend/pkg/config"
	"github.com/farmgatehq/farmgate-backend/pkg/db"
	"github.com/farmgatehq/farmgate-backend/pkg/db/models"
	"github.com/farmgatehq/farmgate-backend/pkg/enums"
	"github.com/farmgatehq/farmgate-backend/pkg/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "farmgate-test",
			ExpirationMinutes: 10,
		},
	}
}

func newTestRouter(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()

	dsn := "file:router_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderReturn{},
		&models.Assignment{},
		&models.AssignmentItem{},
		&models.ReceiptCounter{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := conn.Create(&models.ReceiptCounter{ID: 1, LastNo: 0}).Error; err != nil {
		t.Fatalf("seed counter: %v", err)
	}

	runner := db.NewFromConn(conn)
	inventorySvc, err := inventory.NewService(inventory.NewRepository(conn), runner)
	if err != nil {
		t.Fatalf("inventory service: %v", err)
	}
	paymentsSvc, err := payments.NewService(payments.NewRepository(conn))
	if err != nil {
		t.Fatalf("payments service: %v", err)
	}
	assignmentsSvc, err := assignments.NewService(assignments.NewRepository(conn), runner, inventorySvc, clock.System{})
	if err != nil {
		t.Fatalf("assignments service: %v", err)
	}
	returnsSvc, err := returns.NewService(returns.NewRepository(conn), runner, inventorySvc)
	if err != nil {
		t.Fatalf("returns service: %v", err)
	}
	ordersSvc, err := orders.NewService(orders.ServiceParams{
		Repo:      orders.NewRepository(conn),
		Tx:        runner,
		Inventory: inventorySvc,
		Payments:  paymentsSvc,
		Clock:     clock.System{},
		Hours:     clock.WorkingHours{OpenHour: 6, CloseHour: 18, Location: time.UTC},
	})
	if err != nil {
		t.Fatalf("orders service: %v", err)
	}

	handler := NewRouter(RouterParams{
		Config:      testConfig(),
		Logger:      logger.New(logger.Options{ServiceName: "router-test"}),
		DB:          runner,
		Orders:      ordersSvc,
		Inventory:   inventorySvc,
		Assignments: assignmentsSvc,
		Returns:     returnsSvc,
	})
	return handler, conn
}

func mintToken(t *testing.T, role enums.Role) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(testConfig().JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRouterHealthLive(t *testing.T) {
	handler, _ := newTestRouter(t)

	rec := doJSON(t, handler, http.MethodGet, "/health/live", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouterRejectsMissingToken(t *testing.T) {
	handler, _ := newTestRouter(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/products", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouterProductRoleGuard(t *testing.T) {
	handler, _ := newTestRouter(t)

	body := map[string]any{"name": "Tomatoes", "quantity": 50, "reorder_threshold": 10}

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/products", mintToken(t, enums.RoleFieldAgent), body)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for field agent, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/products", mintToken(t, enums.RoleAdmin), body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for admin, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouterCreateOrderReservesStock(t *testing.T) {
	handler, conn := newTestRouter(t)

	product := models.Product{ID: uuid.New(), Name: "Spinach", Quantity: 40}
	if err := conn.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	agent := uuid.New()
	body := map[string]any{
		"customer_id":       uuid.New().String(),
		"assigned_agent_id": agent.String(),
		"items": []map[string]any{
			{"product_id": product.ID.String(), "qty": 15, "unit_price": "12.5"},
		},
	}

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/orders", mintToken(t, enums.RoleOrderManager), body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var stored models.Product
	if err := conn.First(&stored, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if stored.Quantity != 25 {
		t.Fatalf("expected stock 25 after reservation, got %d", stored.Quantity)
	}
}

func TestRouterOrderCreateRequiresBackOffice(t *testing.T) {
	handler, conn := newTestRouter(t)

	product := models.Product{ID: uuid.New(), Name: "Kale", Quantity: 10}
	if err := conn.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	body := map[string]any{
		"customer_id": uuid.New().String(),
		"items": []map[string]any{
			{"product_id": product.ID.String(), "qty": 1, "unit_price": "3"},
		},
	}

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/orders", mintToken(t, enums.RoleInspector), body)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouterInsufficientStockConflict(t *testing.T) {
	handler, conn := newTestRouter(t)

	product := models.Product{ID: uuid.New(), Name: "Basil", Quantity: 2}
	if err := conn.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	body := map[string]any{
		"customer_id": uuid.New().String(),
		"items": []map[string]any{
			{"product_id": product.ID.String(), "qty": 5, "unit_price": "4"},
		},
	}

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/orders", mintToken(t, enums.RoleAdmin), body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Error.Code != "INSUFFICIENT_STOCK" {
		t.Fatalf("expected INSUFFICIENT_STOCK, got %s", envelope.Error.Code)
	}
}

func TestRouterAssignmentLifecycle(t *testing.T) {
	handler, conn := newTestRouter(t)

	product := models.Product{ID: uuid.New(), Name: "Carrots", Quantity: 30}
	if err := conn.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	token := mintToken(t, enums.RoleOrderManager)
	createBody := map[string]any{
		"agent_user_id": uuid.New().String(),
		"items": []map[string]any{
			{"product_id": product.ID.String(), "qty": 12},
		},
	}
	rec := doJSON(t, handler, http.MethodPost, "/api/v1/assignments", token, createBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created struct {
		Data struct {
			ID    uuid.UUID `json:"ID"`
			Items []struct {
				ID uuid.UUID `json:"ID"`
			} `json:"Items"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode assignment: %v", err)
	}
	if len(created.Data.Items) != 1 {
		t.Fatalf("expected 1 assignment item, got %d", len(created.Data.Items))
	}

	salePath := fmt.Sprintf("/api/v1/assignments/%s/sales", created.Data.ID)
	rec = doJSON(t, handler, http.MethodPost, salePath, token, map[string]any{
		"item_id": created.Data.Items[0].ID.String(),
		"qty":     5,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 recording sale, got %d: %s", rec.Code, rec.Body.String())
	}

	closePath := fmt.Sprintf("/api/v1/assignments/%s/close", created.Data.ID)
	rec = doJSON(t, handler, http.MethodPost, closePath, token, map[string]any{})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 closing assignment, got %d: %s", rec.Code, rec.Body.String())
	}

	// 12 assigned, 5 sold, 7 swept back on close
	var stored models.Product
	if err := conn.First(&stored, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if stored.Quantity != 25 {
		t.Fatalf("expected stock 25 after close, got %d", stored.Quantity)
	}
}
