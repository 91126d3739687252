package app

import (
	"github.com/yungbote/procuremind-backend/internal/http"
	httpH "github.com/yungbote/procuremind-backend/internal/http/handlers"
	"github.com/yungbote/procuremind-backend/internal/modules/settings"
	"github.com/yungbote/procuremind-backend/internal/platform/logger"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	Catalog  *httpH.CatalogHandler
	Quote    *httpH.QuoteHandler
	RFQ      *httpH.RFQHandler
	Draft    *httpH.DraftHandler
	Settings *httpH.SettingsHandler
}

func wireHandlers(log *logger.Logger, st *settings.Usecases) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(st),
		Catalog:  httpH.NewCatalogHandlerWithDeps(httpH.CatalogHandlerDeps{Log: log, Runtimes: st}),
		Quote:    httpH.NewQuoteHandlerWithDeps(httpH.QuoteHandlerDeps{Log: log, Runtimes: st}),
		RFQ:      httpH.NewRFQHandlerWithDeps(httpH.RFQHandlerDeps{Log: log, Runtimes: st}),
		Draft:    httpH.NewDraftHandlerWithDeps(httpH.DraftHandlerDeps{Log: log, Runtimes: st}),
		Settings: httpH.NewSettingsHandlerWithDeps(httpH.SettingsHandlerDeps{Log: log, Settings: st}),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers) *http.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.OtelConfig().ServiceName
	}
	return http.NewServer(http.RouterConfig{
		Log:             log,
		ServiceName:     serviceName,
		CORSOrigins:     cfg.CORSOrigins,
		HealthHandler:   handlers.Health,
		CatalogHandler:  handlers.Catalog,
		QuoteHandler:    handlers.Quote,
		RFQHandler:      handlers.RFQ,
		DraftHandler:    handlers.Draft,
		SettingsHandler: handlers.Settings,
	})
}
