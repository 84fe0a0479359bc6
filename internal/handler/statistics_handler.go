package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
	"github.com/eczbabil/ajans-yonetim-sistemi/pkg/response"
)

type statisticsService interface {
	Period(period string) (models.DateRange, error)
	Dashboard(ctx context.Context) (*models.DashboardMetrics, error)
	WorkTypeDistribution(ctx context.Context, rng models.DateRange) (models.Distribution, error)
	DailyWorkItemCounts(ctx context.Context, days int) (models.Distribution, error)
	TopOwners(ctx context.Context, limit int) ([]models.OwnerCount, error)
	DeliverableStatusDistribution(ctx context.Context) (models.Distribution, error)
	ClientSummaries(ctx context.Context, rng models.DateRange) ([]models.ClientSummary, error)
	MonthlySummary(ctx context.Context, year, month int) (*models.MonthlySummary, error)
}

// StatisticsHandler serves the aggregate endpoints. Every call reads the store directly.
type StatisticsHandler struct {
	stats statisticsService
}

// NewStatisticsHandler constructs the handler.
func NewStatisticsHandler(stats statisticsService) *StatisticsHandler {
	return &StatisticsHandler{stats: stats}
}

// Dashboard godoc
// @Summary Global dashboard figures
// @Tags Statistics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /statistics/dashboard [get]
func (h *StatisticsHandler) Dashboard(c *gin.Context) {
	out, err := h.stats.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, out, nil)
}

// WorkTypes godoc
// @Summary Work items per activity type
// @Tags Statistics
// @Produce json
// @Param period query string false "month, year, 6months or all"
// @Success 200 {object} response.Envelope
// @Router /statistics/work-types [get]
func (h *StatisticsHandler) WorkTypes(c *gin.Context) {
	period := c.DefaultQuery("period", "all")
	rng, err := h.stats.Period(period)
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.stats.WorkTypeDistribution(c.Request.Context(), rng)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, out, nil, map[string]interface{}{"period": period})
}

// Daily godoc
// @Summary Work items per day
// @Tags Statistics
// @Produce json
// @Param days query int false "Window in days"
// @Success 200 {object} response.Envelope
// @Router /statistics/daily [get]
func (h *StatisticsHandler) Daily(c *gin.Context) {
	out, err := h.stats.DailyWorkItemCounts(c.Request.Context(), parseQueryInt(c, "days", 0))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, out, nil)
}

// Owners godoc
// @Summary Owners with the most work items
// @Tags Statistics
// @Produce json
// @Param limit query int false "Number of owners"
// @Success 200 {object} response.Envelope
// @Router /statistics/owners [get]
func (h *StatisticsHandler) Owners(c *gin.Context) {
	out, err := h.stats.TopOwners(c.Request.Context(), parseQueryInt(c, "limit", 0))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, out, nil)
}

// DeliverableStatuses godoc
// @Summary Deliverables per status
// @Tags Statistics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /statistics/deliverable-statuses [get]
func (h *StatisticsHandler) DeliverableStatuses(c *gin.Context) {
	out, err := h.stats.DeliverableStatusDistribution(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, out, nil)
}

// Clients godoc
// @Summary Per-client summary rows
// @Tags Statistics
// @Produce json
// @Param period query string false "month, year, 6months or all"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /statistics/clients [get]
func (h *StatisticsHandler) Clients(c *gin.Context) {
	var (
		rng models.DateRange
		err error
	)
	if period := c.Query("period"); period != "" {
		rng, err = h.stats.Period(period)
	} else {
		rng, err = parseDateRange(c)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.stats.ClientSummaries(c.Request.Context(), rng)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, out, nil)
}

// Monthly godoc
// @Summary Figures for one calendar month
// @Tags Statistics
// @Produce json
// @Param year query int false "Year, defaults to the current one"
// @Param month query int false "Month 1-12, defaults to the current one"
// @Success 200 {object} response.Envelope
// @Router /statistics/monthly [get]
func (h *StatisticsHandler) Monthly(c *gin.Context) {
	out, err := h.stats.MonthlySummary(c.Request.Context(), parseQueryInt(c, "year", 0), parseQueryInt(c, "month", 0))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, out, nil)
}
