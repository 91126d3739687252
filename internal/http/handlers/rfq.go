package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/procuremind-backend/internal/domain"
	"github.com/yungbote/procuremind-backend/internal/http/middleware"
	"github.com/yungbote/procuremind-backend/internal/http/response"
	"github.com/yungbote/procuremind-backend/internal/modules/bids"
	"github.com/yungbote/procuremind-backend/internal/modules/rfqs"
	"github.com/yungbote/procuremind-backend/internal/platform/logger"
)

type RFQHandlerDeps struct {
	Log      *logger.Logger
	Runtimes Runtimes
}

type RFQHandler struct {
	log      *logger.Logger
	runtimes Runtimes
}

func NewRFQHandlerWithDeps(deps RFQHandlerDeps) *RFQHandler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &RFQHandler{log: log.With("handler", "RFQHandler"), runtimes: deps.Runtimes}
}

type rfqView struct {
	ID        uint              `json:"id"`
	Title     string            `json:"title"`
	RawText   string            `json:"raw_text"`
	Document  types.RFQDocument `json:"document"`
	CreatedAt time.Time         `json:"created_at"`
}

func toRFQView(r *types.RFQ) rfqView {
	v := rfqView{ID: r.ID, Title: r.DisplayTitle(), RawText: r.RawText, CreatedAt: r.CreatedAt}
	if doc, err := r.Document(); err == nil {
		v.Document = doc
	}
	return v
}

// POST /api/rfqs/parse
// body: { "text": "..." }
func (h *RFQHandler) Parse(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if !bindJSON(c, &req) {
		return
	}
	doc, err := h.runtimes.Current().RFQs.ParseText(c.Request.Context(), req.Text)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"document": doc})
}

// POST /api/rfqs
// body: { "raw_text": "...", "document": {...}, "title": "..." }
func (h *RFQHandler) SaveParsed(c *gin.Context) {
	var req struct {
		RawText  string            `json:"raw_text"`
		Document types.RFQDocument `json:"document"`
		Title    string            `json:"title"`
	}
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.runtimes.Current().RFQs.SaveParsed(c.Request.Context(), req.RawText, req.Document, req.Title)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"rfq": toRFQView(out)})
}

// POST /api/rfqs/manual
// body: { "title": "...", "items": [ {...} ] }
func (h *RFQHandler) SaveManual(c *gin.Context) {
	var req struct {
		Title string          `json:"title"`
		Items []types.RFQItem `json:"items"`
	}
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.runtimes.Current().RFQs.SaveManual(c.Request.Context(), req.Title, req.Items)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"rfq": toRFQView(out)})
}

// GET /api/rfqs?limit=20
func (h *RFQHandler) List(c *gin.Context) {
	out, err := h.runtimes.Current().RFQs.List(c.Request.Context(), intQuery(c, "limit", rfqs.DefaultListLimit))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	views := make([]rfqView, 0, len(out))
	for _, r := range out {
		views = append(views, toRFQView(r))
	}
	response.RespondOK(c, gin.H{"rfqs": views})
}

// GET /api/rfqs/:id
func (h *RFQHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	out, err := h.runtimes.Current().RFQs.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"rfq": toRFQView(out)})
}

// PUT /api/rfqs/:id
// body: { "title": "...", "items": [ {...} ] }
func (h *RFQHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Title *string         `json:"title"`
		Items []types.RFQItem `json:"items"`
	}
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.runtimes.Current().RFQs.Update(c.Request.Context(), rfqs.UpdateInput{ID: id, Title: req.Title, Items: req.Items})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"rfq": toRFQView(out)})
}

// DELETE /api/rfqs/:id
func (h *RFQHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.runtimes.Current().RFQs.Delete(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// GET /api/rfqs/:id/items?column=brand&value=Grundfos
func (h *RFQHandler) FilterItems(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	out, err := h.runtimes.Current().Bids.FilterItems(c.Request.Context(), bids.FilterInput{
		RFQID:  id,
		Column: c.Query("column"),
		Value:  c.Query("value"),
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/rfqs/:id/items/:index/analysis
func (h *RFQHandler) AnalyzeItem(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	out, err := h.runtimes.Current().Bids.AnalyzeItem(c.Request.Context(), bids.AnalyzeInput{RFQID: id, ItemIndex: index})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"analysis": out})
}

type finalizeRequest struct {
	Selections bids.Selections `json:"selections"`
	AutoPick   bool            `json:"auto_pick"`
}

// POST /api/rfqs/:id/finalize
// body: { "selections": { "0": 12 }, "auto_pick": false }
func (h *RFQHandler) Finalize(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req finalizeRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	out, err := h.runtimes.Current().Bids.Finalize(c.Request.Context(), bids.FinalizeInput{
		RFQID:      id,
		Selections: req.Selections,
		AutoPick:   req.AutoPick,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/rfqs/:id/export?format=csv|xlsx
func (h *RFQHandler) Export(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req finalizeRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	out, err := h.runtimes.Current().Bids.Export(c.Request.Context(), bids.ExportInput{
		FinalizeInput: bids.FinalizeInput{RFQID: id, Selections: req.Selections, AutoPick: req.AutoPick},
		Format:        c.Query("format"),
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(out.FileName))
	if out.ArchivedAt != "" {
		c.Header(middleware.HeaderArchiveLocation, out.ArchivedAt)
	}
	c.Data(http.StatusOK, out.ContentType, out.Body)
}
