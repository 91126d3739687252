package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/procuremind-backend/internal/http/response"
	"github.com/yungbote/procuremind-backend/internal/modules/settings"
	"github.com/yungbote/procuremind-backend/internal/platform/logger"
)

// SettingsService is implemented by *settings.Usecases.
type SettingsService interface {
	Status() settings.Status
	Apply(ctx context.Context, upd settings.Update) (settings.Status, error)
}

type SettingsHandlerDeps struct {
	Log      *logger.Logger
	Settings SettingsService
}

type SettingsHandler struct {
	log      *logger.Logger
	settings SettingsService
}

func NewSettingsHandlerWithDeps(deps SettingsHandlerDeps) *SettingsHandler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &SettingsHandler{log: log.With("handler", "SettingsHandler"), settings: deps.Settings}
}

// GET /api/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	response.RespondOK(c, gin.H{"settings": h.settings.Status()})
}

// PUT /api/settings
// body: { "llm_provider": "gemini", "gemini_api_key": "AIza...", "database_url": "postgresql://..." }
// An empty string resets a field to its startup value.
func (h *SettingsHandler) Put(c *gin.Context) {
	var req settings.Update
	if !bindJSON(c, &req) {
		return
	}
	st, err := h.settings.Apply(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"settings": st})
}
