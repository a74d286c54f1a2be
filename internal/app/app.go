package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lingo_plan_backend/internal/config"
	"lingo_plan_backend/internal/controller"
	"lingo_plan_backend/internal/repository"
	"lingo_plan_backend/internal/service"
	"lingo_plan_backend/internal/util"
	"lingo_plan_backend/pkg/configwatcher"
	"lingo_plan_backend/pkg/database"
	"lingo_plan_backend/pkg/logger"
	"lingo_plan_backend/pkg/monitoring"
	"lingo_plan_backend/pkg/security"
	"lingo_plan_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user        *repository.UserRepository
	indicator   *repository.IndicatorRepository
	activity    *repository.ActivityRepository
	history     *repository.AbilityHistoryRepository
	scoreRecord *repository.ScoreRecordRepository
	material    *repository.MaterialRepository
	quiz        *repository.QuizRepository
	practice    *repository.PracticeRepository
	plan        *repository.PlanRepository
	evaluation  *repository.EvaluationRepository
}

type services struct {
	storage    *service.StorageService
	generation *service.GenerationService
	mastery    *service.MasteryService
	plan       *service.PlanService
	quiz       *service.QuizService
	exam       *service.ExamService
}

type controllers struct {
	ability *controller.AbilityController
	plan    *controller.PlanController
	quiz    *controller.QuizController
	exam    *controller.ExamController
	health  *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		indicator:   repository.NewIndicatorRepository(db),
		activity:    repository.NewActivityRepository(db),
		history:     repository.NewAbilityHistoryRepository(db),
		scoreRecord: repository.NewScoreRecordRepository(db),
		material:    repository.NewMaterialRepository(db),
		quiz:        repository.NewQuizRepository(db),
		practice:    repository.NewPracticeRepository(db),
		plan:        repository.NewPlanRepository(db),
		evaluation:  repository.NewEvaluationRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.generation = service.NewGenerationService(cfg.Coze)
	s.mastery = service.NewMasteryService(repos.indicator, repos.history, rdb, cfg.Scheduler)
	s.plan = service.NewPlanService(
		db,
		repos.indicator,
		repos.activity,
		repos.material,
		repos.quiz,
		repos.practice,
		repos.plan,
		repos.scoreRecord,
		s.generation,
		s.storage,
	)
	s.quiz = service.NewQuizService(repos.quiz, repos.activity, repos.indicator, s.generation)
	s.exam = service.NewExamService(repos.indicator, repos.activity, repos.evaluation, s.generation, cfg.Scheduler)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		ability: controller.NewAbilityController(s.mastery),
		plan:    controller.NewPlanController(s.plan),
		quiz:    controller.NewQuizController(s.quiz),
		exam:    controller.NewExamController(s.exam),
		health:  controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// watchConfig 配置文件热更新：调度阈值等可以在不重启服务的情况下调整
func (a *App) watchConfig() {
	go configwatcher.WatchConfig("configs/config.yaml", a.Config, func(newCfg interface{}) {
		cfg, ok := newCfg.(*config.Config)
		if !ok {
			return
		}
		a.Config.Scheduler = cfg.Scheduler
		a.Config.RateLimit = cfg.RateLimit
		for _, callback := range a.configCallbacks {
			callback(cfg)
		}
		logger.Log.Info("config reloaded")
	})
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("lingo-plan-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.watchConfig()

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
