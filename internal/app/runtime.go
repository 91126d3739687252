package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	dbpkg "github.com/yungbote/procuremind-backend/internal/data/db"
	"github.com/yungbote/procuremind-backend/internal/data/repos/catalog"
	"github.com/yungbote/procuremind-backend/internal/modules/bids"
	"github.com/yungbote/procuremind-backend/internal/modules/drafting"
	"github.com/yungbote/procuremind-backend/internal/modules/quotes"
	"github.com/yungbote/procuremind-backend/internal/modules/rfqs"
	"github.com/yungbote/procuremind-backend/internal/modules/settings"
	"github.com/yungbote/procuremind-backend/internal/platform/apierr"
	"github.com/yungbote/procuremind-backend/internal/platform/gemini"
	"github.com/yungbote/procuremind-backend/internal/platform/llm"
	"github.com/yungbote/procuremind-backend/internal/platform/logger"
	"github.com/yungbote/procuremind-backend/internal/platform/openai"
)

// runtimeFactory builds a settings.Runtime per settings value. The draft
// store and export archive outlive runtimes and are shared by all of them.
type runtimeFactory struct {
	cfg     Config
	log     *logger.Logger
	mode    StoreMode
	drafts  drafting.DraftStore
	archive bids.Archiver
}

func (f *runtimeFactory) Build(ctx context.Context, s settings.Settings) (*settings.Runtime, error) {
	store, closeStore, err := f.openStore(ctx, s)
	if err != nil {
		return nil, err
	}
	provider, closeLLM, err := f.openLLM(ctx, s)
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	bidsUC := bids.New(bids.UsecasesDeps{
		Store:            store,
		Log:              f.log,
		Archive:          f.archive,
		MatchConcurrency: f.cfg.MatchConcurrency,
	})
	return &settings.Runtime{
		Store:  store,
		LLM:    provider,
		Bids:   bidsUC,
		RFQs:   rfqs.New(rfqs.UsecasesDeps{Store: store, LLM: provider, Log: f.log}),
		Quotes: quotes.New(quotes.UsecasesDeps{Store: store, LLM: provider, Log: f.log}),
		Drafting: drafting.New(drafting.UsecasesDeps{
			Store:  store,
			Bids:   bidsUC,
			LLM:    provider,
			Drafts: f.drafts,
			Log:    f.log,
		}),
		Close: func() error {
			return errors.Join(closeLLM(), closeStore())
		},
	}, nil
}

// A database URL from settings always means Postgres through gorm, even when
// the process started in rest mode.
func (f *runtimeFactory) openStore(ctx context.Context, s settings.Settings) (catalog.Store, func() error, error) {
	if f.mode == StoreModeREST && s.DatabaseURL == "" {
		store, err := catalog.NewRESTStore(catalog.RESTConfig{
			BaseURL: f.cfg.Store.RESTURL,
			APIKey:  f.cfg.Store.RESTKey,
			Timeout: f.cfg.Store.RESTTimeout,
		}, f.log)
		if err != nil {
			return nil, nil, err
		}
		if err := store.Ping(ctx); err != nil {
			f.log.Warn("Catalog REST store not reachable at startup", "error", err)
		}
		return store, func() error { return nil }, nil
	}

	svc, err := dbpkg.NewService(f.log, dbpkg.Options{
		DatabaseURL: s.DatabaseURL,
		SQLitePath:  f.cfg.Store.SQLitePath,
		Migrate:     f.cfg.Store.AutoMigrate,
	})
	if err != nil {
		return nil, nil, apierr.StoreUnavailable(err)
	}
	return catalog.NewGormStore(svc.DB(), f.log), svc.Close, nil
}

func (f *runtimeFactory) openLLM(ctx context.Context, s settings.Settings) (llm.Provider, func() error, error) {
	noop := func() error { return nil }
	name := s.LLMProvider
	if strings.TrimSpace(s.APIKey()) == "" {
		f.log.Warn("LLM provider has no API key; parsing, search and drafting are unavailable", "provider", name)
		return llm.Unconfigured(fmt.Sprintf("%s api key not configured", name)), noop, nil
	}

	dims := f.cfg.LLM.EmbeddingDims
	switch name {
	case llm.ProviderOpenAI:
		c, err := openai.NewClient(openai.Config{
			APIKey:     s.OpenAIKey,
			BaseURL:    f.cfg.LLM.OpenAIBaseURL,
			Model:      f.cfg.LLM.OpenAIModel,
			EmbedModel: f.cfg.LLM.OpenAIEmbedModel,
			Dimensions: dims,
			Timeout:    f.cfg.LLM.OpenAITimeout,
		}, f.log)
		if err != nil {
			return nil, nil, err
		}
		return llm.Guard(name, c, dims, f.log), noop, nil
	case llm.ProviderGemini:
		c, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:     s.GeminiKey,
			Model:      f.cfg.LLM.GeminiModel,
			EmbedModel: f.cfg.LLM.GeminiEmbedModel,
		}, f.log)
		if err != nil {
			return nil, nil, apierr.Provider(err)
		}
		return llm.Guard(name, c, dims, f.log), c.Close, nil
	default:
		return nil, nil, apierr.Validation("unknown llm provider %q", name)
	}
}
