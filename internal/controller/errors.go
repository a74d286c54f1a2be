package controller

import (
	"errors"
	"net/http"

	"lingo_plan_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// respondSchedulerError 统一的调度错误到 HTTP 状态码映射。
// 数据访问失败返回 503 提示整体重试；生成失败返回 502（上游工作流问题）。
func respondSchedulerError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrNoIndicators):
		util.Error(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, util.ErrQuizNotFound):
		util.Error(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, util.ErrEmptyParams):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrDataAccess):
		util.Error(ctx, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, util.ErrGeneration):
		util.Error(ctx, http.StatusBadGateway, err.Error())
	case errors.Is(err, util.ErrNoCandidateActivities), errors.Is(err, util.ErrNoMaterialForActivity):
		util.Error(ctx, http.StatusUnprocessableEntity, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
