package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/vendas-ops/backend-go/internal/demand"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/frame"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/service"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/sheets"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ProductionHandler struct {
	service *service.ProductionService
}

func NewProductionHandler(service *service.ProductionService) *ProductionHandler {
	return &ProductionHandler{service: service}
}

// readUpload parses the multipart "file" field into a frame, dispatching on
// the uploaded file name.
func readUpload(c *gin.Context) (*frame.Frame, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "arquivo de planilha obrigatório"})
		return nil, false
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "não foi possível abrir o arquivo"})
		return nil, false
	}
	defer f.Close()

	fr, err := frame.Read(f, fileHeader.Filename)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": false, "message": err.Error()})
		return nil, false
	}
	return fr, true
}

// UploadFeed ingests one sales feed under a channel.
func (h *ProductionHandler) UploadFeed(c *gin.Context) {
	channel := c.PostForm("channel")
	if channel == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "campo channel obrigatório"})
		return
	}

	fr, ok := readUpload(c)
	if !ok {
		return
	}

	message, err := h.service.IngestFeed(c.Request.Context(), fr, channel)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, demand.ErrSchemaMissing) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"ok": false, "message": message, "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "message": message})
}

// ResetDay starts a new business day.
func (h *ProductionHandler) ResetDay(c *gin.Context) {
	var body struct {
		DayKey string `json:"day_key"`
	}
	_ = c.ShouldBindJSON(&body)

	message := h.service.ResetDay(body.DayKey)
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": message})
}

// GetNeeds returns the current ledger snapshot with fresh shortfalls.
func (h *ProductionHandler) GetNeeds(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"day_key": h.service.Ledger().DayKey(),
		"needs":   h.service.Needs(),
	})
}

// GetChannelReport streams the per-channel production workbook.
func (h *ProductionHandler) GetChannelReport(c *gin.Context) {
	channel := c.Param("channel")
	data, name, err := h.service.ChannelReport(c.Request.Context(), channel)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+name)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// GetConsolidatedReport streams the day-consolidated workbook.
func (h *ProductionHandler) GetConsolidatedReport(c *gin.Context) {
	data, name, err := h.service.ConsolidatedReport(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+name)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// RefreshCatalog re-fetches the remote reference tables.
func (h *ProductionHandler) RefreshCatalog(c *gin.Context) {
	if err := h.service.RefreshCatalog(c.Request.Context()); err != nil {
		if errors.Is(err, sheets.ErrCatalogUnavailable) {
			c.JSON(http.StatusOK, gin.H{
				"ok":      false,
				"message": "catálogo indisponível; operando com catálogo vazio",
				"details": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "catálogo atualizado"})
}

// GetInventoryStats returns summary statistics of the loaded snapshot.
func (h *ProductionHandler) GetInventoryStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Stats())
}

// UploadMissing builds the missing-from-inventory workbook for an uploaded
// reference frame.
func (h *ProductionHandler) UploadMissing(c *gin.Context) {
	fr, ok := readUpload(c)
	if !ok {
		return
	}

	data, name, err := h.service.MissingReport(fr)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+name)
	c.Data(http.StatusOK, xlsxContentType, data)
}
