package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/vendas-ops/backend-go/internal/rupture"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/service"
)

type RuptureHandler struct {
	service *service.RuptureService
}

func NewRuptureHandler(service *service.RuptureService) *RuptureHandler {
	return &RuptureHandler{service: service}
}

func intQuery(c *gin.Context, name string, fallback int) int {
	if v, err := strconv.Atoi(c.DefaultQuery(name, "")); err == nil && v > 0 {
		return v
	}
	return fallback
}

func (h *RuptureHandler) respondError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNoSalesHistory) {
		c.JSON(http.StatusOK, gin.H{"ok": false, "message": err.Error(), "results": []any{}})
		return
	}
	if errors.Is(err, rupture.ErrNoDateColumn) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": err.Error()})
}

// UploadSales records a historical sales frame for analysis.
func (h *RuptureHandler) UploadSales(c *gin.Context) {
	fr, ok := readUpload(c)
	if !ok {
		return
	}
	h.service.SetSalesFrame(fr)
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "histórico de vendas carregado", "rows": fr.Len()})
}

// GetCoverage returns per-SKU days-of-cover sorted by criticality.
func (h *RuptureHandler) GetCoverage(c *gin.Context) {
	coverage, err := h.service.Coverage(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": coverage})
}

// GetProjection lists expected ruptures inside the horizon.
func (h *RuptureHandler) GetProjection(c *gin.Context) {
	horizon := intQuery(c, "horizon", 30)
	projections, err := h.service.Projection(c.Request.Context(), horizon)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"horizon_days": horizon, "results": projections})
}

// GetTrend compares the recent and prior sales windows.
func (h *RuptureHandler) GetTrend(c *gin.Context) {
	recent := intQuery(c, "recent", 7)
	prior := intQuery(c, "prior", 7)
	trends, err := h.service.Trend(c.Request.Context(), recent, prior)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recent_days": recent, "prior_days": prior, "results": trends})
}

// GetSummary returns the executive rollup.
func (h *RuptureHandler) GetSummary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
