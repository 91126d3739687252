package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/procuremind-backend/internal/http/handlers"
	httpMW "github.com/yungbote/procuremind-backend/internal/http/middleware"
	"github.com/yungbote/procuremind-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string

	HealthHandler   *httpH.HealthHandler
	CatalogHandler  *httpH.CatalogHandler
	QuoteHandler    *httpH.QuoteHandler
	RFQHandler      *httpH.RFQHandler
	DraftHandler    *httpH.DraftHandler
	SettingsHandler *httpH.SettingsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}

	api := r.Group("/api")
	{
		// Catalog
		if cfg.CatalogHandler != nil {
			api.GET("/suppliers", cfg.CatalogHandler.ListSuppliers)
			api.POST("/suppliers", cfg.CatalogHandler.CreateSupplier)
			api.GET("/products", cfg.CatalogHandler.ListProducts)
			api.POST("/products", cfg.CatalogHandler.CreateProduct)
			api.GET("/products/search", cfg.CatalogHandler.SearchProducts)
		}

		// Quotes
		if cfg.QuoteHandler != nil {
			api.GET("/quotes", cfg.QuoteHandler.History)
			api.POST("/quotes", cfg.QuoteHandler.LogQuote)
			api.PATCH("/quotes", cfg.QuoteHandler.EditQuotes)
			api.DELETE("/quotes/:id", cfg.QuoteHandler.DeleteQuote)
		}

		// RFQs and bid comparison
		if cfg.RFQHandler != nil {
			api.POST("/rfqs/parse", cfg.RFQHandler.Parse)
			api.POST("/rfqs", cfg.RFQHandler.SaveParsed)
			api.POST("/rfqs/manual", cfg.RFQHandler.SaveManual)
			api.GET("/rfqs", cfg.RFQHandler.List)
			api.GET("/rfqs/:id", cfg.RFQHandler.Get)
			api.PUT("/rfqs/:id", cfg.RFQHandler.Update)
			api.DELETE("/rfqs/:id", cfg.RFQHandler.Delete)
			api.GET("/rfqs/:id/items", cfg.RFQHandler.FilterItems)
			api.GET("/rfqs/:id/items/:index/analysis", cfg.RFQHandler.AnalyzeItem)
			api.POST("/rfqs/:id/finalize", cfg.RFQHandler.Finalize)
			api.POST("/rfqs/:id/export", cfg.RFQHandler.Export)
		}

		// Email drafts
		if cfg.DraftHandler != nil {
			api.POST("/rfqs/:id/draft", cfg.DraftHandler.Draft)
			api.POST("/rfqs/:id/draft/refine", cfg.DraftHandler.Refine)
			api.GET("/rfqs/:id/draft", cfg.DraftHandler.Current)
		}

		// Settings
		if cfg.SettingsHandler != nil {
			api.GET("/settings", cfg.SettingsHandler.Get)
			api.PUT("/settings", cfg.SettingsHandler.Put)
		}
	}

	return r
}
