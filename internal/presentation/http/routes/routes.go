package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sangkips/evdekor-api/internal/config"
	domainRepo "github.com/sangkips/evdekor-api/internal/domain/repository"
	"github.com/sangkips/evdekor-api/internal/presentation/http/handler"
	"github.com/sangkips/evdekor-api/internal/presentation/http/middleware"
	"github.com/sangkips/evdekor-api/pkg/token"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Customer *handler.CustomerHandler
	Order    *handler.OrderHandler
	Settings *handler.SettingsHandler
	Report   *handler.ReportHandler
	Pricing  *handler.PricingHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	Log             *zap.Logger
	Tokens          *token.Manager // nil when auth is disabled
	RateLimiter     *middleware.ClientRateLimiter
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.PrometheusMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	if deps.Tokens != nil {
		v1.Use(middleware.AuthMiddleware(deps.Tokens))
	}
	if deps.RateLimiter != nil {
		v1.Use(deps.RateLimiter.Middleware())
	}

	registerCustomerRoutes(v1, h)
	registerOrderRoutes(v1, h, deps)
	registerSettingsRoutes(v1, h)
	registerReportRoutes(v1, h)

	v1.POST("/financials/preview", h.Pricing.Preview)
	v1.GET("/currency/convert", h.Pricing.Convert)

	return router
}

func registerCustomerRoutes(v1 *gin.RouterGroup, h *Handlers) {
	customers := v1.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
		customers.GET("/:id/orders", h.Customer.Orders)
	}
}

func registerOrderRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	orders := v1.Group("/orders")
	{
		orders.GET("", h.Order.List)
		// a retried submission with the same Idempotency-Key replays the first response
		orders.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
			Log:  deps.Log,
		}), h.Order.Create)
		orders.GET("/statuses", h.Order.Statuses)
		orders.PATCH("/status", h.Order.BulkUpdateStatus)
		orders.GET("/:id", h.Order.Get)
		orders.PUT("/:id", h.Order.Update)
		orders.DELETE("/:id", h.Order.Delete)
		orders.PATCH("/:id/status", h.Order.UpdateStatus)
		orders.GET("/:id/totals", h.Order.Totals)
	}
}

func registerSettingsRoutes(v1 *gin.RouterGroup, h *Handlers) {
	settings := v1.Group("/settings")
	{
		settings.GET("/exchange-rates", h.Settings.GetExchangeRates)
		settings.PUT("/exchange-rates", h.Settings.UpdateExchangeRates)
		settings.GET("/currency", h.Settings.GetCurrency)
		settings.PUT("/currency", h.Settings.UpdateCurrency)
		settings.GET("/company", h.Settings.GetCompany)
		settings.PUT("/company", h.Settings.UpdateCompany)
		settings.GET("/units", h.Settings.ListUnits)
		settings.POST("/units", h.Settings.AddUnit)
		settings.DELETE("/units/:unit", h.Settings.DeleteUnit)
		settings.GET("/suggestions", h.Settings.Suggestions)
	}
}

func registerReportRoutes(v1 *gin.RouterGroup, h *Handlers) {
	reports := v1.Group("/reports")
	{
		reports.GET("/dashboard", h.Report.Dashboard)
		reports.GET("/sales-by-customer", h.Report.SalesByCustomer)
		reports.GET("/sales-by-product", h.Report.SalesByProduct)
		reports.GET("/sales-by-status", h.Report.SalesByStatus)
		reports.GET("/monthly-sales", h.Report.MonthlySales)
		reports.GET("/orders/export", h.Report.ExportOrders)
	}
}
