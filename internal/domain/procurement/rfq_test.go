package procurement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRFQDisplayTitle(t *testing.T) {
	created := time.Date(2024, 1, 20, 9, 30, 0, 0, time.UTC)

	r := RFQ{ID: 3, CreatedAt: created}
	require.NoError(t, r.SetDocument(RFQDocument{Title: "Tower B"}))
	assert.Equal(t, "Tower B (#3 - 2024-01-20)", r.DisplayTitle())

	r2 := RFQ{ID: 4, CreatedAt: created}
	assert.Equal(t, "RFQ #4 - 2024-01-20 09:30", r2.DisplayTitle())
}

func TestProductEmbeddingText(t *testing.T) {
	desc := "Portland type I"
	p := Product{Name: " Cement ", Description: &desc}
	assert.Equal(t, "Cement Portland type I", p.EmbeddingText())
}

func TestQuoteUpdateApply(t *testing.T) {
	cur := "IDR"
	q := Quote{Currency: "USD"}
	u := QuoteUpdate{Currency: &cur}
	assert.False(t, u.Empty())
	u.Apply(&q)
	assert.Equal(t, "IDR", q.Currency)
	assert.True(t, QuoteUpdate{}.Empty())
}
