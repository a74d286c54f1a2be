package app

import (
	"lingo_plan_backend/internal/config"
	"lingo_plan_backend/internal/middleware"
	"lingo_plan_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		ability := authGroup.Group("/ability")
		{
			ability.POST("/upgrade-check", c.ability.UpgradeCheck)
			ability.POST("/focus-indicators", c.ability.FocusIndicators)
		}

		plans := authGroup.Group("/plans")
		{
			plans.POST("", c.plan.CreatePlan)
			plans.GET("/latest", c.plan.LatestPlan)
			plans.GET("/:id", c.plan.GetPlan)
		}

		quizzes := authGroup.Group("/quizzes")
		{
			quizzes.POST("/instances", c.quiz.GetInstances)
		}

		exams := authGroup.Group("/exams")
		{
			exams.POST("/generate", c.exam.GenerateExam)
		}
	}
}
