package controller

import (
	"strconv"

	"nutri_edu_backend/internal/model"
	"nutri_edu_backend/internal/presentation"
	"nutri_edu_backend/internal/service"
	"nutri_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// SurfaceController exposes the conversion prompt state machine for a
// content surface. All routes are session-scoped via X-Session-ID.
type SurfaceController struct {
	PresentationService *service.PresentationService
}

func NewSurfaceController(presentationService *service.PresentationService) *SurfaceController {
	return &SurfaceController{PresentationService: presentationService}
}

// surfaceParams builds SurfaceParams from query parameters. Unknown kind
// values fall back to article, the richer machine.
func surfaceParams(ctx *gin.Context) service.SurfaceParams {
	kind := presentation.SurfaceKind(ctx.DefaultQuery("kind", string(presentation.KindArticle)))
	if kind != presentation.KindBanner {
		kind = presentation.KindArticle
	}

	wordCount, _ := strconv.Atoi(ctx.Query("wordCount"))
	readingMinutes, _ := strconv.ParseFloat(ctx.Query("readingMinutes"), 64)

	return service.SurfaceParams{
		Kind: kind,
		Content: model.ContentParams{
			WordCount:             wordCount,
			AverageReadingMinutes: readingMinutes,
		},
	}
}

// GetPresentation evaluates the prompt against the latest metrics.
func (c *SurfaceController) GetPresentation(ctx *gin.Context) {
	sessionID := util.SessionID(ctx)
	surfaceID := ctx.Param("surfaceId")

	decision, err := c.PresentationService.Decide(ctx.Request.Context(), sessionID, surfaceID, surfaceParams(ctx))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, decision)
}

// Expand handles a user tap on a visible prompt.
func (c *SurfaceController) Expand(ctx *gin.Context) {
	sessionID := util.SessionID(ctx)
	surfaceID := ctx.Param("surfaceId")

	util.Success(ctx, c.PresentationService.Expand(sessionID, surfaceID, surfaceParams(ctx)))
}

// Click records a CTA click.
func (c *SurfaceController) Click(ctx *gin.Context) {
	sessionID := util.SessionID(ctx)
	surfaceID := ctx.Param("surfaceId")

	util.Success(ctx, c.PresentationService.Click(sessionID, surfaceID, surfaceParams(ctx)))
}

// Dismiss closes the prompt. ?scope=session remembers the dismissal for
// the rest of the session.
func (c *SurfaceController) Dismiss(ctx *gin.Context) {
	sessionID := util.SessionID(ctx)
	surfaceID := ctx.Param("surfaceId")
	forSession := ctx.Query("scope") == "session"

	decision := c.PresentationService.Dismiss(ctx.Request.Context(), sessionID, surfaceID, surfaceParams(ctx), forSession)
	util.Success(ctx, decision)
}

// GetTally returns the surface's running impression/click tally together
// with its derived conversion rate.
func (c *SurfaceController) GetTally(ctx *gin.Context) {
	surfaceID := ctx.Param("surfaceId")

	tally, err := c.PresentationService.Tally(ctx.Request.Context(), surfaceID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"surfaceId":      surfaceID,
		"impressions":    tally.Impressions,
		"clicks":         tally.Clicks,
		"conversionRate": tally.ConversionRate(),
	})
}
