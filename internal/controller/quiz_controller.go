package controller

import (
	"context"
	"strconv"

	"nutri_edu_backend/internal/model"
	"nutri_edu_backend/internal/service"
	"nutri_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// SubmitQuiz scores a completed questionnaire. The response resolves
// after the configured analysis delay; a dropped connection cancels the
// work before anything is stored.
func (c *QuizController) SubmitQuiz(ctx *gin.Context) {
	sessionID := util.SessionID(ctx)

	var sub service.QuizSubmission
	if err := ctx.ShouldBindJSON(&sub); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	set, quiz, err := c.QuizService.SubmitQuiz(ctx.Request.Context(), sessionID, &sub)
	if err != nil {
		if err == context.Canceled || err == context.DeadlineExceeded {
			// Client went away during analysis; nothing to answer.
			ctx.Abort()
			return
		}
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, gin.H{
		"quizId":          quiz.ID,
		"sessionId":       sessionID,
		"recommendations": set.Recommendations,
		"explanation":     set.Explanation,
		"fallback":        set.Fallback,
	})
}

// ResortResult re-orders a stored result by the requested strategy.
func (c *QuizController) ResortResult(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	strategy := model.SortStrategy(ctx.Query("strategy"))
	set, err := c.QuizService.ResortResult(uint(id), strategy)
	if err != nil {
		switch err {
		case util.ErrUnknownSortOrder:
			util.BadRequest(ctx, err.Error())
		case util.ErrResultNotFound:
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, set)
}

// ListLeads pages the stored responses for the back office.
func (c *QuizController) ListLeads(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 20
	}

	leads, total, err := c.QuizService.ListLeads(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  leads,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}
