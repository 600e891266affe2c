package controller

import (
	"nutri_edu_backend/internal/model"
	"nutri_edu_backend/internal/service"
	"nutri_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TelemetryController struct {
	TelemetryService *service.TelemetryService
}

func NewTelemetryController(telemetryService *service.TelemetryService) *TelemetryController {
	return &TelemetryController{TelemetryService: telemetryService}
}

// StartTracking begins observation of a surface for the caller's session.
func (c *TelemetryController) StartTracking(ctx *gin.Context) {
	sessionID := util.SessionID(ctx)
	surfaceID := ctx.Param("surfaceId")

	c.TelemetryService.Start(sessionID, surfaceID)
	util.Success(ctx, gin.H{"sessionId": sessionID, "surfaceId": surfaceID})
}

// StopTracking freezes the surface's metrics. The final snapshot stays
// readable until its TTL expires.
func (c *TelemetryController) StopTracking(ctx *gin.Context) {
	sessionID := util.SessionID(ctx)
	surfaceID := ctx.Param("surfaceId")

	if err := c.TelemetryService.Stop(sessionID, surfaceID); err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, nil)
}

// HandleEvents ingests a batch of raw client signals for a tracked surface.
func (c *TelemetryController) HandleEvents(ctx *gin.Context) {
	sessionID := util.SessionID(ctx)
	surfaceID := ctx.Param("surfaceId")

	var events []model.TelemetryEvent
	if err := ctx.ShouldBindJSON(&events); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	for _, ev := range events {
		if err := c.TelemetryService.HandleEvent(sessionID, surfaceID, ev); err != nil {
			util.NotFound(ctx)
			return
		}
	}
	util.Success(ctx, gin.H{"accepted": len(events)})
}

// GetMetrics returns the current behavioral snapshot for a surface.
func (c *TelemetryController) GetMetrics(ctx *gin.Context) {
	sessionID := util.SessionID(ctx)
	surfaceID := ctx.Param("surfaceId")

	m, err := c.TelemetryService.Snapshot(ctx.Request.Context(), sessionID, surfaceID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if m == nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, m)
}
