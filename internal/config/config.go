package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Storage   StorageConfig
	Tracing   TracingConfig   `mapstructure:"tracing"`
	Coze      CozeConfig      `mapstructure:"coze"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool `mapstructure:"-"` // 强制执行数据库迁移
	MigrateOnly  bool `mapstructure:"-"` // 仅迁移模式（迁移后退出）
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

// CozeConfig 材料生成工作流配置。三个工作流分别负责：
// 周计划学习材料、活动实例补题、升级测评题目。
type CozeConfig struct {
	BaseURL            string        `mapstructure:"base_url"`
	Token              string        `mapstructure:"token"`
	MaterialWorkflowID string        `mapstructure:"material_workflow_id"`
	QuizWorkflowID     string        `mapstructure:"quiz_workflow_id"`
	ExamWorkflowID     string        `mapstructure:"exam_workflow_id"`
	Timeout            time.Duration `mapstructure:"timeout_seconds"`
}

// SchedulerConfig 调度核心阈值。原先散落在各处的可变全局量统一收敛到这里，
// 随请求显式传入各组件。
type SchedulerConfig struct {
	ValidDays           int     `mapstructure:"valid_days"`            // 历史记录回看窗口（天）
	CoreWeightThreshold float64 `mapstructure:"core_weight_threshold"` // 核心权重阈值，只计算大于此的指标
	QualifiedThreshold  float64 `mapstructure:"qualified_threshold"`   // 指标合格阈值，大于此算作合格
	UpgradeThreshold    float64 `mapstructure:"upgrade_threshold"`     // 升级合格阈值，大于此可升级
	CacheTTL            time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("LINGO_PLAN")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Coze
	viper.BindEnv("coze.base_url", "COZE_BASE_URL")
	viper.BindEnv("coze.token", "COZE_TOKEN_RUN")
	viper.BindEnv("coze.material_workflow_id", "COZE_WORKFLOW_ID")
	viper.BindEnv("coze.quiz_workflow_id", "COZE_WORKFLOW_GETQUIZ")
	viper.BindEnv("coze.exam_workflow_id", "COZE_WORKFLOW_GENEXAM")

	// Storage
	viper.BindEnv("storage.type", "STORAGE_TYPE")
	viper.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	// 调度核心阈值默认值
	viper.SetDefault("scheduler.valid_days", 30)
	viper.SetDefault("scheduler.core_weight_threshold", 0.3)
	viper.SetDefault("scheduler.qualified_threshold", 0.75)
	viper.SetDefault("scheduler.upgrade_threshold", 0.75)
	viper.SetDefault("coze.base_url", "https://api.coze.cn")
	viper.SetDefault("coze.timeout_seconds", 120)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Coze.Timeout = cfg.Coze.Timeout * time.Second
	cfg.Scheduler.CacheTTL = 10 * time.Minute

	// 生产环境校验 JWT Secret 强度
	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}
