package controller

import (
	"lingo_plan_backend/internal/service"
	"lingo_plan_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	ExamService *service.ExamService
}

func NewExamController(examService *service.ExamService) *ExamController {
	return &ExamController{ExamService: examService}
}

type generateExamRequest struct {
	Level int    `json:"level" binding:"required,min=1,max=9"`
	Lang  string `json:"lang"`
}

// @Summary 生成升级测评
// @Description 按核心指标权重分配题量并生成一套升级测评题目
// @Tags 升级测评
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/exams/generate [post]
func (c *ExamController) GenerateExam(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req generateExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	questions, err := c.ExamService.GenerateExam(ctx.Request.Context(), user.UserID, req.Level, req.Lang)
	if err != nil {
		respondSchedulerError(ctx, err)
		return
	}

	util.Success(ctx, questions)
}
