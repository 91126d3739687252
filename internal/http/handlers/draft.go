package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/procuremind-backend/internal/http/response"
	"github.com/yungbote/procuremind-backend/internal/modules/bids"
	"github.com/yungbote/procuremind-backend/internal/modules/drafting"
	"github.com/yungbote/procuremind-backend/internal/platform/logger"
)

type DraftHandlerDeps struct {
	Log      *logger.Logger
	Runtimes Runtimes
}

type DraftHandler struct {
	log      *logger.Logger
	runtimes Runtimes
}

func NewDraftHandlerWithDeps(deps DraftHandlerDeps) *DraftHandler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &DraftHandler{log: log.With("handler", "DraftHandler"), runtimes: deps.Runtimes}
}

// POST /api/rfqs/:id/draft
// body: { "instructions": "...", "selections": { "0": 12 }, "auto_pick": true }
func (h *DraftHandler) Draft(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Instructions string          `json:"instructions"`
		Selections   bids.Selections `json:"selections"`
		AutoPick     bool            `json:"auto_pick"`
	}
	if !bindOptionalJSON(c, &req) {
		return
	}
	out, err := h.runtimes.Current().Drafting.Draft(c.Request.Context(), drafting.DraftInput{
		RFQID:        id,
		Instructions: req.Instructions,
		Selections:   req.Selections,
		AutoPick:     req.AutoPick,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"draft": out})
}

// POST /api/rfqs/:id/draft/refine
// body: { "feedback": "..." }
func (h *DraftHandler) Refine(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Feedback string `json:"feedback"`
	}
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.runtimes.Current().Drafting.Refine(c.Request.Context(), id, req.Feedback)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"draft": out})
}

// GET /api/rfqs/:id/draft
func (h *DraftHandler) Current(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	out, err := h.runtimes.Current().Drafting.Current(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"draft": out})
}
