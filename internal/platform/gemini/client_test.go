package gemini

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"

	"github.com/yungbote/procuremind-backend/internal/platform/logger"
)

func TestResponseTextJoinsTextParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("Dear "), genai.Text("buyer")}},
		}},
	}
	got, err := responseText(resp)
	if err != nil || got != "Dear buyer" {
		t.Fatalf("got=%q err=%v", got, err)
	}
}

func TestResponseTextEmpty(t *testing.T) {
	if _, err := responseText(&genai.GenerateContentResponse{}); err == nil {
		t.Fatalf("expected error for no candidates")
	}
	if _, err := responseText(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}); err == nil {
		t.Fatalf("expected error for empty candidate")
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(context.Background(), Config{}, logger.Nop()); err == nil {
		t.Fatalf("expected error for missing key")
	}
}
