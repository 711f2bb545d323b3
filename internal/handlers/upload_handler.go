package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"momo-insights/internal/services"
	"momo-insights/pkg"
	middleware "momo-insights/pkg/middlewares"
	"momo-insights/pkg/utils"
)

type UploadHandler struct {
	logger         *zap.Logger
	service        services.IngestService
	maxUploadBytes int64
}

func NewUploadHandler(logger *zap.Logger, svc services.IngestService, maxUploadBytes int64) *UploadHandler {
	return &UploadHandler{logger: logger, service: svc, maxUploadBytes: maxUploadBytes}
}

// RegisterRoutes registers upload routes on the protected group.
func (h *UploadHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/upload", h.PostUpload)
	r.POST("/transactions/reset", h.PostReset)
}

func (h *UploadHandler) PostUpload(c *gin.Context) {
	traceID, _ := utils.GetTraceID(c)
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	file, err := c.FormFile("xml_file")
	if err != nil {
		setFlash(c, "error", "No file selected.")
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	if !strings.EqualFold(filepath.Ext(file.Filename), ".xml") {
		setFlash(c, "error", "Invalid file type. Please upload an XML file.")
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	if file.Size > h.maxUploadBytes {
		setFlash(c, "error", "File is too large.")
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}

	f, err := file.Open()
	if err != nil {
		setFlash(c, "error", "Could not read the uploaded file.")
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxUploadBytes))
	if err != nil {
		setFlash(c, "error", "Could not read the uploaded file.")
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}

	summary, err := h.service.Ingest(c.Request.Context(), traceID, userID, data)
	if err != nil {
		resp := pkg.ToErrorResponse(h.logger, traceID, err)
		setFlash(c, "error", resp.Message)
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}

	setFlash(c, "success", fmt.Sprintf(
		"Processed %d messages: %d transactions imported, %d skipped.",
		summary.Messages, summary.Inserted, summary.Skipped,
	))
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *UploadHandler) PostReset(c *gin.Context) {
	traceID, _ := utils.GetTraceID(c)
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	deleted, err := h.service.Reset(c.Request.Context(), traceID, userID)
	if err != nil {
		resp := pkg.ToErrorResponse(h.logger, traceID, err)
		setFlash(c, "error", resp.Message)
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}

	setFlash(c, "info", fmt.Sprintf("Removed %d transactions.", deleted))
	c.Redirect(http.StatusSeeOther, "/dashboard")
}
