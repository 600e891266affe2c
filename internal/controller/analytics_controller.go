package controller

import (
	"strconv"

	"nutri_edu_backend/internal/service"
	"nutri_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AnalyticsController serves the back-office engagement views and the
// lead export.
type AnalyticsController struct {
	AnalyticsService  *service.AnalyticsService
	LeadExportService *service.LeadExportService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService, leadExportService *service.LeadExportService) *AnalyticsController {
	return &AnalyticsController{
		AnalyticsService:  analyticsService,
		LeadExportService: leadExportService,
	}
}

// GetEngagementOverview lists every surface's funnel for the current
// session window.
func (c *AnalyticsController) GetEngagementOverview(ctx *gin.Context) {
	overview, err := c.AnalyticsService.EngagementOverview(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}

// GetSurfaceHistory returns the archived daily rollups for one surface.
func (c *AnalyticsController) GetSurfaceHistory(ctx *gin.Context) {
	surfaceID := ctx.Param("surfaceId")
	days, _ := strconv.Atoi(ctx.DefaultQuery("days", "30"))

	history, err := c.AnalyticsService.SurfaceHistory(surfaceID, days)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, history)
}

// ExportLeads dumps every lead to CSV on the storage provider and
// returns the file URL.
func (c *AnalyticsController) ExportLeads(ctx *gin.Context) {
	url, err := c.LeadExportService.Export(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"url": url})
}
