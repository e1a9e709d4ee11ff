package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/farmgatehq/farmgate-backend/api/controllers"
	"github.com/farmgatehq/farmgate-backend/api/middleware"
	"github.com/farmgatehq/farmgate-backend/internal/assignments"
	"github.com/farmgatehq/farmgate-backend/internal/inventory"
	"github.com/farmgatehq/farmgate-backend/internal/orders"
	"github.com/farmgatehq/farmgate-backend/internal/returns"
	"github.com/farmgatehq/farmgate-backend/pkg/config"
	"github.com/farmgatehq/farmgate-backend/pkg/db"
	"github.com/farmgatehq/farmgate-backend/pkg/logger"
	"github.com/farmgatehq/farmgate-backend/pkg/redis"
)

type pubsubPinger interface {
	Ping(context.Context) error
}

// RouterParams collects everything the HTTP surface needs.
type RouterParams struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *redis.Client
	PubSub      pubsubPinger
	Metrics     prometheus.Gatherer
	Orders      orders.Service
	Inventory   inventory.Service
	Assignments assignments.Service
	Returns     returns.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	var redisPinger redis.Pinger
	if p.Redis != nil {
		redisPinger = p.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, redisPinger, p.PubSub))
	})

	if p.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Metrics, promhttp.HandlerOpts{}))
	}

	var idemStore redis.IdempotencyStore
	if p.Redis != nil {
		idemStore = p.Redis
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/orders", func(r chi.Router) {
			r.With(middleware.RequireBackOffice(logg)).Post("/", controllers.CreateOrder(p.Orders, logg))
			r.Get("/", controllers.ListOrders(p.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(p.Orders, logg))
			r.Post("/{orderId}/transition", controllers.RequestTransition(p.Orders, logg))
			r.Get("/{orderId}/returns", controllers.OrderReturns(p.Returns, logg))
		})

		r.With(middleware.RequireBackOffice(logg)).Post("/returns", controllers.ProcessReturn(p.Returns, logg))

		r.Route("/products", func(r chi.Router) {
			r.With(middleware.RequireBackOffice(logg)).Post("/", controllers.CreateProduct(p.Inventory, logg))
			r.Get("/", controllers.ListProducts(p.Inventory, logg))
			r.Get("/{productId}", controllers.ProductDetail(p.Inventory, logg))
			r.With(middleware.RequireBackOffice(logg)).Put("/{productId}/reorder-threshold", controllers.UpdateReorderThreshold(p.Inventory, logg))
			r.With(middleware.RequireBackOffice(logg)).Post("/{productId}/restock", controllers.RestockProduct(p.Inventory, logg))
		})

		r.Route("/assignments", func(r chi.Router) {
			r.Post("/", controllers.CreateAssignment(p.Assignments, logg))
			r.Get("/mine", controllers.MyAssignments(p.Assignments, logg))
			r.Get("/{assignmentId}", controllers.AssignmentDetail(p.Assignments, logg))
			r.Post("/{assignmentId}/sales", controllers.RecordAssignmentSale(p.Assignments, logg))
			r.Post("/{assignmentId}/returns", controllers.ReturnAssignmentStock(p.Assignments, logg))
			r.Post("/{assignmentId}/close", controllers.CloseAssignment(p.Assignments, logg))
		})
	})

	return r
}
