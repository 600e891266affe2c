package controller

import (
	"strconv"

	"nutri_edu_backend/internal/model"
	"nutri_edu_backend/internal/service"
	"nutri_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// CatalogController exposes admin CRUD over the supplement catalog.
type CatalogController struct {
	CatalogService *service.CatalogService
}

func NewCatalogController(catalogService *service.CatalogService) *CatalogController {
	return &CatalogController{CatalogService: catalogService}
}

type supplementRequest struct {
	Title              string   `json:"title" binding:"required"`
	Description        string   `json:"description"`
	Benefits           []string `json:"benefits"`
	ObjectiveTriggers  []string `json:"objectiveTriggers"`
	SymptomTriggers    []string `json:"symptomTriggers"`
	DietTriggers       []string `json:"dietTriggers"`
	TimeToEffect       string   `json:"timeToEffect"`
	Popularity         int      `json:"popularity"`
	LowSleepTrigger    bool     `json:"lowSleepTrigger"`
	HighStressTrigger  bool     `json:"highStressTrigger"`
	LowExerciseTrigger bool     `json:"lowExerciseTrigger"`
	LowMeatTrigger     bool     `json:"lowMeatTrigger"`
	LowPortionTrigger  bool     `json:"lowPortionTrigger"`
	Enabled            *bool    `json:"enabled"`
}

func (r *supplementRequest) toModel() *model.Supplement {
	enabled := true
	if r.Enabled != nil {
		enabled = *r.Enabled
	}
	return &model.Supplement{
		Title:              r.Title,
		Description:        r.Description,
		Benefits:           model.StringList(r.Benefits),
		ObjectiveTriggers:  model.StringList(r.ObjectiveTriggers),
		SymptomTriggers:    model.StringList(r.SymptomTriggers),
		DietTriggers:       model.StringList(r.DietTriggers),
		TimeToEffect:       r.TimeToEffect,
		Popularity:         r.Popularity,
		LowSleepTrigger:    r.LowSleepTrigger,
		HighStressTrigger:  r.HighStressTrigger,
		LowExerciseTrigger: r.LowExerciseTrigger,
		LowMeatTrigger:     r.LowMeatTrigger,
		LowPortionTrigger:  r.LowPortionTrigger,
		Enabled:            enabled,
	}
}

func (c *CatalogController) CreateSupplement(ctx *gin.Context) {
	var req supplementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sup := req.toModel()
	if err := c.CatalogService.Create(sup); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, sup)
}

func (c *CatalogController) UpdateSupplement(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	var req supplementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sup, err := c.CatalogService.Update(uint(id), req.toModel())
	if err != nil {
		if err == util.ErrSupplementNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, sup)
}

func (c *CatalogController) GetSupplement(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	sup, err := c.CatalogService.Get(uint(id))
	if err != nil {
		if err == util.ErrSupplementNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, sup)
}

func (c *CatalogController) ListSupplements(ctx *gin.Context) {
	sups, err := c.CatalogService.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, sups)
}

func (c *CatalogController) DeleteSupplement(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	if err := c.CatalogService.Delete(uint(id)); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
