package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/procuremind-backend/internal/http/response"
	"github.com/yungbote/procuremind-backend/internal/modules/quotes"
	"github.com/yungbote/procuremind-backend/internal/platform/logger"
)

type QuoteHandlerDeps struct {
	Log      *logger.Logger
	Runtimes Runtimes
}

type QuoteHandler struct {
	log      *logger.Logger
	runtimes Runtimes
}

func NewQuoteHandlerWithDeps(deps QuoteHandlerDeps) *QuoteHandler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &QuoteHandler{log: log.With("handler", "QuoteHandler"), runtimes: deps.Runtimes}
}

// GET /api/quotes
func (h *QuoteHandler) History(c *gin.Context) {
	out, err := h.runtimes.Current().Quotes.History(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"quotes": out})
}

// POST /api/quotes
func (h *QuoteHandler) LogQuote(c *gin.Context) {
	var req quotes.LogQuoteInput
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.runtimes.Current().Quotes.LogQuote(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"quote": out})
}

// PATCH /api/quotes
// body: { "edits": [ { "id": 1, "price": "12.5", "currency": "EUR" } ] }
func (h *QuoteHandler) EditQuotes(c *gin.Context) {
	var req struct {
		Edits []quotes.QuoteEdit `json:"edits"`
	}
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.runtimes.Current().Quotes.EditQuotes(c.Request.Context(), req.Edits)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"quotes": out})
}

// DELETE /api/quotes/:id
func (h *QuoteHandler) DeleteQuote(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.runtimes.Current().Quotes.DeleteQuote(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
