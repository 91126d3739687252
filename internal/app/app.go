package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yungbote/procuremind-backend/internal/http"
	"github.com/yungbote/procuremind-backend/internal/modules/drafting"
	"github.com/yungbote/procuremind-backend/internal/modules/settings"
	"github.com/yungbote/procuremind-backend/internal/observability"
	"github.com/yungbote/procuremind-backend/internal/platform/logger"
	"github.com/yungbote/procuremind-backend/internal/platform/redis"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Server   *http.Server
	Settings *settings.Usecases

	closers      []func() error
	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.NewWithOptions(cfg.LogMode, cfg.LoggerOptions())
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log.Info("Configuration loaded", "env", cfg.Env, "store_mode", cfg.Store.Mode, "llm_provider", cfg.LLM.Provider)

	a := &App{Log: log, Cfg: cfg}
	a.otelShutdown = observability.InitOTel(ctx, log, cfg.OtelConfig())

	mode, err := resolveStoreMode(cfg.Store)
	if err != nil {
		a.Close()
		return nil, err
	}

	factory := &runtimeFactory{cfg: cfg, log: log, mode: mode}
	if factory.drafts, err = a.wireDraftStore(ctx); err != nil {
		a.Close()
		return nil, err
	}
	archive, err := resolveExportArchive(ctx, log, cfg.Export)
	if err != nil {
		a.Close()
		return nil, err
	}
	if archive != nil {
		factory.archive = archive
		a.closers = append(a.closers, archive.Close)
	}

	st, err := settings.New(ctx, settings.UsecasesDeps{
		Log:   log,
		Build: factory.Build,
		Defaults: settings.Settings{
			LLMProvider: cfg.LLM.Provider,
			OpenAIKey:   cfg.LLM.OpenAIKey,
			GeminiKey:   cfg.LLM.GeminiKey,
			DatabaseURL: cfg.Store.DatabaseURL,
		},
		RetireAfter: cfg.RuntimeRetireAfter,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("build runtime: %w", err)
	}
	a.Settings = st
	a.closers = append(a.closers, func() error {
		if rt := st.Current(); rt != nil && rt.Close != nil {
			return rt.Close()
		}
		return nil
	})

	a.Server = wireServer(log, cfg, wireHandlers(log, st))
	return a, nil
}

// wireDraftStore uses Redis when REDIS_ADDR is set and memory otherwise.
func (a *App) wireDraftStore(ctx context.Context) (drafting.DraftStore, error) {
	if a.Cfg.Redis.Addr == "" {
		a.Log.Info("Draft store: memory", "reason", "REDIS_ADDR not set")
		return drafting.NewMemoryStore(), nil
	}
	rs, err := redis.NewDraftStore(ctx, redis.Config{
		Addr:     a.Cfg.Redis.Addr,
		Password: a.Cfg.Redis.Password,
		DB:       a.Cfg.Redis.DB,
		TTL:      a.Cfg.Redis.TTL,
	}, a.Log)
	if err != nil {
		return nil, fmt.Errorf("init redis draft store: %w", err)
	}
	a.closers = append(a.closers, rs.Close)
	return rs, nil
}

func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := a.Cfg.Addr()
	a.Log.Info("HTTP server listening", "addr", addr)
	return a.Server.Run(ctx, addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil {
			errs = append(errs, err)
		}
		cancel()
	}
	if a.Log != nil {
		if err := errors.Join(errs...); err != nil {
			a.Log.Warn("Shutdown finished with errors", "error", err)
		}
		a.Log.Sync()
	}
}
