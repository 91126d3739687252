package settings

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yungbote/procuremind-backend/internal/data/repos/catalog"
	"github.com/yungbote/procuremind-backend/internal/modules/bids"
	"github.com/yungbote/procuremind-backend/internal/modules/drafting"
	"github.com/yungbote/procuremind-backend/internal/modules/quotes"
	"github.com/yungbote/procuremind-backend/internal/modules/rfqs"
	"github.com/yungbote/procuremind-backend/internal/platform/apierr"
	"github.com/yungbote/procuremind-backend/internal/platform/llm"
	"github.com/yungbote/procuremind-backend/internal/platform/logger"
)

const (
	GeminiKeyPrefix = "AIza"

	SourceSession = "session"
	SourceSystem  = "system"
	SourceNone    = "not_configured"
	SourceSQLite  = "sqlite"
)

// Settings is the part of the configuration an operator may replace at runtime.
type Settings struct {
	LLMProvider string `json:"llm_provider"`
	OpenAIKey   string `json:"-"`
	GeminiKey   string `json:"-"`
	DatabaseURL string `json:"-"`
}

// APIKey is the key of the selected provider.
func (s Settings) APIKey() string {
	if s.LLMProvider == llm.ProviderOpenAI {
		return s.OpenAIKey
	}
	return s.GeminiKey
}

// Runtime is everything built from one Settings value. It is never mutated
// after it is published.
type Runtime struct {
	Settings Settings
	Revision int
	BuiltAt  time.Time

	Store    catalog.Store
	LLM      llm.Provider
	Bids     *bids.Usecases
	RFQs     *rfqs.Usecases
	Quotes   *quotes.Usecases
	Drafting *drafting.Usecases

	// Close releases connections owned by this runtime only.
	Close func() error
}

type Builder func(ctx context.Context, s Settings) (*Runtime, error)

type UsecasesDeps struct {
	Log      *logger.Logger
	Build    Builder
	Defaults Settings
	// RetireAfter delays closing a replaced runtime so in-flight requests finish.
	RetireAfter time.Duration
}

type Usecases struct {
	log         *logger.Logger
	build       Builder
	defaults    Settings
	retireAfter time.Duration

	mu      sync.Mutex
	current atomic.Pointer[Runtime]
}

func New(ctx context.Context, deps UsecasesDeps) (*Usecases, error) {
	if deps.Log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if deps.Build == nil {
		return nil, fmt.Errorf("runtime builder required")
	}
	u := &Usecases{
		log:         deps.Log.With("service", "SettingsUsecases"),
		build:       deps.Build,
		defaults:    normalize(deps.Defaults),
		retireAfter: deps.RetireAfter,
	}
	rt, err := u.build(ctx, u.defaults)
	if err != nil {
		return nil, err
	}
	rt.Settings = u.defaults
	rt.Revision = 1
	stamp(rt)
	u.current.Store(rt)
	return u, nil
}

// Current returns the runtime in effect. Callers keep using the value they
// got for the whole request.
func (u *Usecases) Current() *Runtime {
	return u.current.Load()
}

// Update carries replacements. A nil field keeps the current value; an empty
// string resets it to the startup value.
type Update struct {
	LLMProvider *string `json:"llm_provider"`
	OpenAIKey   *string `json:"openai_api_key"`
	GeminiKey   *string `json:"gemini_api_key"`
	DatabaseURL *string `json:"database_url"`
}

func (u *Usecases) Apply(ctx context.Context, upd Update) (Status, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	prev := u.current.Load()
	next, err := u.merge(prev.Settings, upd)
	if err != nil {
		return Status{}, err
	}
	if next == prev.Settings {
		return u.status(prev), nil
	}

	rt, err := u.build(ctx, next)
	if err != nil {
		u.log.Warn("Runtime rebuild failed", "error", err)
		return Status{}, err
	}
	rt.Settings = next
	rt.Revision = prev.Revision + 1
	stamp(rt)
	u.current.Store(rt)
	u.log.Info("Runtime replaced", "revision", rt.Revision, "llm_provider", next.LLMProvider)

	u.retire(prev)
	return u.status(rt), nil
}

func (u *Usecases) merge(cur Settings, upd Update) (Settings, error) {
	next := cur
	if upd.LLMProvider != nil {
		next.LLMProvider = pick(*upd.LLMProvider, u.defaults.LLMProvider)
		next.LLMProvider = strings.ToLower(next.LLMProvider)
		if next.LLMProvider != llm.ProviderOpenAI && next.LLMProvider != llm.ProviderGemini {
			return Settings{}, apierr.Validation("unknown llm provider %q", next.LLMProvider)
		}
	}
	if upd.GeminiKey != nil {
		key := strings.TrimSpace(*upd.GeminiKey)
		if key != "" && !strings.HasPrefix(key, GeminiKeyPrefix) {
			return Settings{}, apierr.Validation("invalid key format, should start with %q", GeminiKeyPrefix)
		}
		next.GeminiKey = pick(key, u.defaults.GeminiKey)
	}
	if upd.OpenAIKey != nil {
		next.OpenAIKey = pick(*upd.OpenAIKey, u.defaults.OpenAIKey)
	}
	if upd.DatabaseURL != nil {
		dsn := strings.TrimSpace(*upd.DatabaseURL)
		if dsn != "" && !strings.HasPrefix(dsn, "postgres") {
			return Settings{}, apierr.Validation("invalid url, must start with 'postgres://' or 'postgresql://'")
		}
		next.DatabaseURL = pick(dsn, u.defaults.DatabaseURL)
	}
	return next, nil
}

func (u *Usecases) retire(rt *Runtime) {
	if rt == nil || rt.Close == nil {
		return
	}
	closeFn := func() {
		if err := rt.Close(); err != nil {
			u.log.Warn("Closing replaced runtime failed", "revision", rt.Revision, "error", err)
		}
	}
	if u.retireAfter <= 0 {
		closeFn()
		return
	}
	time.AfterFunc(u.retireAfter, closeFn)
}

// Status describes the runtime without exposing secrets.
type Status struct {
	Revision    int       `json:"revision"`
	LLMProvider string    `json:"llm_provider"`
	AI          string    `json:"ai"`
	AIKeyHint   string    `json:"ai_key_hint,omitempty"`
	Database    string    `json:"database"`
	BuiltAt     time.Time `json:"built_at"`
}

func (u *Usecases) Status() Status {
	return u.status(u.current.Load())
}

func (u *Usecases) status(rt *Runtime) Status {
	s := rt.Settings
	st := Status{
		Revision:    rt.Revision,
		LLMProvider: s.LLMProvider,
		AI:          source(s.APIKey(), u.defaults.APIKeyFor(s.LLMProvider)),
		AIKeyHint:   MaskKey(s.APIKey()),
		Database:    source(s.DatabaseURL, u.defaults.DatabaseURL),
		BuiltAt:     rt.BuiltAt,
	}
	if st.Database == SourceNone {
		st.Database = SourceSQLite
	}
	return st
}

// APIKeyFor is the key s holds for the named provider.
func (s Settings) APIKeyFor(provider string) string {
	if provider == llm.ProviderOpenAI {
		return s.OpenAIKey
	}
	return s.GeminiKey
}

func source(val, def string) string {
	switch {
	case val == "":
		return SourceNone
	case val == def:
		return SourceSystem
	default:
		return SourceSession
	}
}

// MaskKey keeps the last four characters of a secret.
func MaskKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

func stamp(rt *Runtime) {
	if rt.BuiltAt.IsZero() {
		rt.BuiltAt = time.Now().UTC()
	}
}

func normalize(s Settings) Settings {
	s.LLMProvider = strings.ToLower(strings.TrimSpace(s.LLMProvider))
	if s.LLMProvider == "" {
		s.LLMProvider = llm.ProviderGemini
	}
	s.OpenAIKey = strings.TrimSpace(s.OpenAIKey)
	s.GeminiKey = strings.TrimSpace(s.GeminiKey)
	s.DatabaseURL = strings.TrimSpace(s.DatabaseURL)
	return s
}

func pick(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	return v
}
