package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/procuremind-backend/internal/observability"
	"github.com/yungbote/procuremind-backend/internal/platform/apierr"
	"github.com/yungbote/procuremind-backend/internal/platform/logger"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Provider is the language model used for parsing, embeddings and drafting.
// Implementations make exactly one upstream call per method call.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Generate(ctx context.Context, prompt string) (string, error)
}

type guarded struct {
	name  string
	inner Provider
	dims  int
	log   *logger.Logger
}

// Guard wraps p so that every failure is an apierr.ErrProvider, embeddings
// have exactly dims values, and calls are traced.
func Guard(name string, p Provider, dims int, log *logger.Logger) Provider {
	return &guarded{name: name, inner: p, dims: dims, log: log.With("service", "LLMProvider", "provider", name)}
}

func (g *guarded) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, span := observability.StartSpan(ctx, "llm.embed", attribute.String("llm.provider", g.name))
	start := time.Now()
	vec, err := g.inner.Embed(ctx, text)
	if err == nil && g.dims > 0 && len(vec) != g.dims {
		err = fmt.Errorf("embedding has %d dimensions, want %d", len(vec), g.dims)
	}
	err = g.wrap("embed", err, start)
	observability.EndSpan(span, err)
	if err != nil {
		return nil, err
	}
	return vec, nil
}

func (g *guarded) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := observability.StartSpan(ctx, "llm.generate", attribute.String("llm.provider", g.name))
	start := time.Now()
	out, err := g.inner.Generate(ctx, prompt)
	err = g.wrap("generate", err, start)
	observability.EndSpan(span, err)
	if err != nil {
		return "", err
	}
	return out, nil
}

func (g *guarded) wrap(op string, err error, start time.Time) error {
	if err == nil {
		g.log.Debug("LLM call ok", "op", op, "duration_ms", time.Since(start).Milliseconds())
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	g.log.Warn("LLM call failed", "op", op, "duration_ms", time.Since(start).Milliseconds(), "error", err.Error())
	if errors.Is(err, apierr.ErrProvider) {
		return err
	}
	return apierr.Provider(fmt.Errorf("%s %s: %w", g.name, op, err))
}

type unconfigured struct{ reason string }

// Unconfigured is the provider used before an API key has been supplied.
func Unconfigured(reason string) Provider {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "llm provider not configured"
	}
	return unconfigured{reason: reason}
}

func (u unconfigured) Embed(context.Context, string) ([]float32, error) {
	return nil, apierr.Provider(errors.New(u.reason))
}

func (u unconfigured) Generate(context.Context, string) (string, error) {
	return "", apierr.Provider(errors.New(u.reason))
}

// StripCodeFence removes a surrounding ```json or ``` fence from model output.
func StripCodeFence(s string) string {
	content := s
	if i := strings.Index(content, "```json"); i >= 0 {
		content = content[i+len("```json"):]
		if j := strings.Index(content, "```"); j >= 0 {
			content = content[:j]
		}
	} else if i := strings.Index(content, "```"); i >= 0 {
		content = content[i+3:]
		if j := strings.Index(content, "```"); j >= 0 {
			content = content[:j]
		}
	}
	return strings.TrimSpace(content)
}
