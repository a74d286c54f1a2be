package controller

import (
	"errors"
	"net/http"

	"lingo_plan_backend/internal/service"
	"lingo_plan_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PlanController struct {
	PlanService *service.PlanService
}

func NewPlanController(planService *service.PlanService) *PlanController {
	return &PlanController{PlanService: planService}
}

// @Summary 生成周学习计划
// @Description 依据聚焦指标生成材料并排出一周的练习计划
// @Tags 周计划
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} util.Response
// @Router /api/plans [post]
func (c *PlanController) CreatePlan(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreatePlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.PlanService.CreatePlan(ctx.Request.Context(), user.UserID, &req)
	if err != nil {
		respondSchedulerError(ctx, err)
		return
	}

	util.Created(ctx, result)
}

// @Summary 查询最近的周计划
// @Tags 周计划
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/plans/latest [get]
func (c *PlanController) LatestPlan(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	plan, err := c.PlanService.LatestPlan(user.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.Error(ctx, http.StatusServiceUnavailable, util.ErrDataAccess.Error())
		return
	}

	util.Success(ctx, plan)
}

// @Summary 按 ID 查询周计划
// @Tags 周计划
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/plans/{id} [get]
func (c *PlanController) GetPlan(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	planID := util.MustParseUint(ctx.Param("id"))
	if planID == 0 {
		util.BadRequest(ctx, "invalid plan id")
		return
	}

	plan, err := c.PlanService.GetPlan(planID, user.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.Error(ctx, http.StatusServiceUnavailable, util.ErrDataAccess.Error())
		return
	}

	util.Success(ctx, plan)
}
