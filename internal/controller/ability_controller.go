package controller

import (
	"lingo_plan_backend/internal/service"
	"lingo_plan_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// 聚焦指标选择使用的放宽回看窗口（天）：
// 新周期开始时近期记录往往稀疏，用长窗口保证有数据可排
const focusLookbackDays = 100

type AbilityController struct {
	MasteryService *service.MasteryService
}

func NewAbilityController(masteryService *service.MasteryService) *AbilityController {
	return &AbilityController{MasteryService: masteryService}
}

type upgradeCheckRequest struct {
	Level     int `json:"level" binding:"required,min=1,max=9"`
	ValidDays int `json:"valid_days"`
}

// @Summary 升级资格检查
// @Description 计算学习者当前级别的掌握度总分、核心指标覆盖率与升级差距
// @Tags 能力评估
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/ability/upgrade-check [post]
func (c *AbilityController) UpgradeCheck(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req upgradeCheckRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.MasteryService.CheckForUpgrade(ctx.Request.Context(), user.UserID, req.Level, req.ValidDays)
	if err != nil {
		respondSchedulerError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 选择聚焦指标
// @Description 按优先级选出下个学习周期最需要提升的核心指标
// @Tags 能力评估
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/ability/focus-indicators [post]
func (c *AbilityController) FocusIndicators(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req upgradeCheckRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.MasteryService.CheckForUpgrade(ctx.Request.Context(), user.UserID, req.Level, focusLookbackDays)
	if err != nil {
		respondSchedulerError(ctx, err)
		return
	}

	focus := service.PickFocusIndicators(result.CoreIndicatorDetails, service.FocusTargetCount(req.Level))
	util.Success(ctx, gin.H{
		"focusIndicators": focus,
		"score":           result.Score,
		"coverage":        result.CoreIndicatorCoverage,
	})
}
