package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/yungbote/procuremind-backend/internal/platform/logger"
)

const (
	DefaultModel      = "gemini-2.5-flash"
	DefaultEmbedModel = "text-embedding-004"
)

type Config struct {
	APIKey     string
	Model      string
	EmbedModel string
	// Endpoint overrides the API host (tests, proxies).
	Endpoint string
}

// Client wraps the Gemini SDK. The SDK's own retry behavior is left off.
type Client struct {
	log    *logger.Logger
	client *genai.Client
	model  *genai.GenerativeModel
	embed  *genai.EmbeddingModel
}

func NewClient(ctx context.Context, cfg Config, log *logger.Logger) (*Client, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, fmt.Errorf("missing GOOGLE_API_KEY")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	opts := []option.ClientOption{option.WithAPIKey(key)}
	if ep := strings.TrimSpace(cfg.Endpoint); ep != "" {
		opts = append(opts, option.WithEndpoint(ep))
	}
	gc, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	modelName := strings.TrimSpace(cfg.Model)
	if modelName == "" {
		modelName = DefaultModel
	}
	embedName := strings.TrimSpace(cfg.EmbedModel)
	if embedName == "" {
		embedName = DefaultEmbedModel
	}
	em := gc.EmbeddingModel(embedName)
	em.TaskType = genai.TaskTypeRetrievalDocument

	return &Client{
		log:    log.With("service", "GeminiClient"),
		client: gc,
		model:  gc.GenerativeModel(modelName),
		embed:  em,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	res, err := c.embed.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}
	if res == nil || res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("gemini embedding response empty")
	}
	return res.Embedding.Values, nil
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in candidate")
	}
	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String(), nil
}
