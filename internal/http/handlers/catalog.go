package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/procuremind-backend/internal/http/response"
	"github.com/yungbote/procuremind-backend/internal/modules/quotes"
	"github.com/yungbote/procuremind-backend/internal/platform/logger"
)

type CatalogHandlerDeps struct {
	Log      *logger.Logger
	Runtimes Runtimes
}

type CatalogHandler struct {
	log      *logger.Logger
	runtimes Runtimes
}

func NewCatalogHandlerWithDeps(deps CatalogHandlerDeps) *CatalogHandler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &CatalogHandler{log: log.With("handler", "CatalogHandler"), runtimes: deps.Runtimes}
}

// GET /api/suppliers
func (h *CatalogHandler) ListSuppliers(c *gin.Context) {
	out, err := h.runtimes.Current().Quotes.ListSuppliers(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"suppliers": out})
}

// POST /api/suppliers
// body: { "name": "...", "contact_info": "..." }
func (h *CatalogHandler) CreateSupplier(c *gin.Context) {
	var req quotes.SupplierDraft
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.runtimes.Current().Quotes.CreateSupplier(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"supplier": out})
}

// GET /api/products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	out, err := h.runtimes.Current().Quotes.ListProducts(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"products": out})
}

// POST /api/products
// body: { "name": "...", "description": "...", "specs": "..." }
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req quotes.ProductDraft
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.runtimes.Current().Quotes.CreateProduct(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"product": out})
}

// GET /api/products/search?q=...&top_k=5
func (h *CatalogHandler) SearchProducts(c *gin.Context) {
	topK := intQuery(c, "top_k", quotes.DefaultSearchTopK)
	out, err := h.runtimes.Current().Quotes.SearchProducts(c.Request.Context(), c.Query("q"), topK)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"results": out})
}
