package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"momo-insights/internal/services"
	"momo-insights/pkg"
	middleware "momo-insights/pkg/middlewares"
	"momo-insights/pkg/utils"
	"momo-insights/pkg/views"
)

type DashboardHandler struct {
	logger  *zap.Logger
	service services.DashboardService
}

func NewDashboardHandler(logger *zap.Logger, svc services.DashboardService) *DashboardHandler {
	return &DashboardHandler{logger: logger, service: svc}
}

// RegisterRoutes registers dashboard routes on the protected group.
func (h *DashboardHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard", h.GetDashboard)
	r.GET("/api/transactions/:id", h.GetTransactionDetail)
}

func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	traceID, _ := utils.GetTraceID(c)
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	filter := parseListFilter(c)
	data, err := h.service.Overview(c.Request.Context(), traceID, userID, filter)
	if err != nil {
		resp := pkg.ToErrorResponse(h.logger, traceID, err)
		c.HTML(resp.Status, "error.html", gin.H{"message": resp.Message})
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"username":        c.GetString(pkg.Username),
		"flashes":         takeFlashes(c),
		"summary":         data.Summary,
		"volumeByType":    data.VolumeByType,
		"monthlyVolume":   data.MonthlyVolume,
		"directionTotals": data.DirectionTotals,
		"transactions":    data.Transactions,
		"filters": gin.H{
			"txType":    c.Query("transaction_type"),
			"startDate": c.Query("start_date"),
			"endDate":   c.Query("end_date"),
			"minAmount": c.Query("min_amount"),
			"maxAmount": c.Query("max_amount"),
		},
	})
}

func (h *DashboardHandler) GetTransactionDetail(c *gin.Context) {
	traceID, _ := utils.GetTraceID(c)
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, pkg.ErrorResponse{
			Code:    pkg.ErrSessionRequiredCode.Code,
			Message: pkg.ErrSessionRequiredCode.Message,
		})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, pkg.ErrorResponse{
			Code:    pkg.ErrInvalidInputCode.Code,
			Message: "invalid transaction id",
		})
		return
	}

	detail, err := h.service.Detail(c.Request.Context(), traceID, userID, id)
	if err != nil {
		resp := pkg.ToErrorResponse(h.logger, traceID, err)
		c.JSON(resp.Status, resp)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// parseListFilter reads the dashboard filter form from the query string.
// Bad values fall back to "no constraint"; dates are inclusive days.
func parseListFilter(c *gin.Context) views.ListFilter {
	var filter views.ListFilter

	filter.TxType = c.Query("transaction_type")
	if v, err := time.Parse("2006-01-02", c.Query("start_date")); err == nil {
		filter.StartDate = v
	}
	if v, err := time.Parse("2006-01-02", c.Query("end_date")); err == nil {
		filter.EndDate = v.Add(24*time.Hour - time.Nanosecond)
	}
	if v, err := strconv.ParseFloat(c.Query("min_amount"), 64); err == nil {
		filter.MinAmount = &v
	}
	if v, err := strconv.ParseFloat(c.Query("max_amount"), 64); err == nil {
		filter.MaxAmount = &v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		filter.Limit = v
	}
	return filter
}
