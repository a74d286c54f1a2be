package controller

import (
	"lingo_plan_backend/internal/service"
	"lingo_plan_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

type quizInstancesRequest struct {
	QuizIDs []uint `json:"quiz_ids" binding:"required,min=1"`
}

// @Summary 获取活动实例
// @Description 批量获取活动实例，缺题面的先经工作流补全再返回
// @Tags 活动实例
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/quizzes/instances [post]
func (c *QuizController) GetInstances(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req quizInstancesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quizzes, err := c.QuizService.GetActivityInstances(ctx.Request.Context(), req.QuizIDs)
	if err != nil {
		respondSchedulerError(ctx, err)
		return
	}

	util.Success(ctx, quizzes)
}
