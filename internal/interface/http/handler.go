package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/silkmart/support-assistant/internal/domain/assistant"
	"github.com/silkmart/support-assistant/internal/domain/ingest"
	"github.com/silkmart/support-assistant/internal/domain/storefront"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	assistantSvc  assistant.Service
	ingestSvc     *ingest.Service
	storefrontSvc *storefront.Service
	logger        *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(assistantSvc assistant.Service, ingestSvc *ingest.Service, storefrontSvc *storefront.Service, logger *slog.Logger) *Handler {
	return &Handler{
		assistantSvc:  assistantSvc,
		ingestSvc:     ingestSvc,
		storefrontSvc: storefrontSvc,
		logger:        logger.With("component", "http.handler"),
	}
}

// Ask answers a customer question using retrieval plus generation. The
// response always carries an answer string, degraded paths included.
func (h *Handler) Ask(c *gin.Context) {
	var req assistant.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp := h.assistantSvc.Answer(c.Request.Context(), req)
	c.JSON(http.StatusOK, resp)
}

// Trending returns the most frequently asked questions.
func (h *Handler) Trending(c *gin.Context) {
	items, err := h.assistantSvc.Trending(c.Request.Context())
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "trending_failed", errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": items})
}

type ingestFAQRequest struct {
	Path string `json:"path"`
}

// IngestFAQ loads the tab-separated FAQ file into the knowledge store.
func (h *Handler) IngestFAQ(c *gin.Context) {
	var req ingestFAQRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
			return
		}
	}

	result, err := h.ingestSvc.LoadFAQFile(c.Request.Context(), req.Path)
	if err != nil {
		abortWithError(c, httpErrorForKind(err, "ingest_failed"))
		return
	}
	c.JSON(http.StatusOK, result)
}

// RefreshContent rescrapes the configured page into the knowledge store.
func (h *Handler) RefreshContent(c *gin.Context) {
	result, err := h.ingestSvc.RefreshContent(c.Request.Context())
	if err != nil {
		abortWithError(c, httpErrorForKind(err, "refresh_failed"))
		return
	}
	c.JSON(http.StatusOK, result)
}

// Orders looks up orders by id and/or billing email.
func (h *Handler) Orders(c *gin.Context) {
	var query storefront.OrderQuery
	if raw := strings.TrimSpace(c.Query("id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "order id must be numeric", err))
			return
		}
		query.OrderID = id
	}
	query.Email = strings.TrimSpace(c.Query("email"))

	orders, err := h.storefrontSvc.Orders(c.Request.Context(), query)
	if err != nil {
		abortWithError(c, httpErrorForKind(err, "order_lookup_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// Products searches the catalog by title substring.
func (h *Handler) Products(c *gin.Context) {
	products, err := h.storefrontSvc.Products(c.Request.Context(), c.Query("q"))
	if err != nil {
		abortWithError(c, httpErrorForKind(err, "product_search_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
