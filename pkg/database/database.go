package database

import (
	"fmt"
	"log"

	"lingo_plan_backend/internal/config"
	"lingo_plan_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.DBName,
		dbCfg.Charset,
		dbCfg.ParseTime,
	)

	logMode := logger.Warn
	if cfg.Server.Mode != "release" {
		logMode = logger.Info
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	// release 模式默认跳过迁移，除非显式要求
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := migrate(db); err != nil {
			return nil, err
		}
		log.Println("Database migration completed")
		seedDefaults(db)
	}

	return db, nil
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Indicator{},
		&model.Activity{},
		&model.UserAbilityHistory{},
		&model.UserScoreRecord{},
		&model.UserMaterial{},
		&model.Quiz{},
		&model.UserPractice{},
		&model.UserWeeklyPlan{},
		&model.Evaluation{},
	)
}

// seedDefaults 指标与活动库为空时写入一级普通话的基础参考数据，
// 便于空库直接跑通整条建计划链路。
func seedDefaults(db *gorm.DB) {
	var indCount int64
	db.Model(&model.Indicator{}).Count(&indCount)
	if indCount == 0 {
		defaultIndicators := []model.Indicator{
			{
				Level: 1, Indicator: "声母韵母认读", Category: "pronunciation", SkillGroup: "phonics",
				Weight: 0.9, Minimum: 8,
				MaterialTypes: model.StringList{model.MaterialSyllable, model.MaterialCharacter},
			},
			{
				Level: 1, Indicator: "常用字识读", Category: "recognition", SkillGroup: "literacy",
				Weight: 0.8, Minimum: 10,
				MaterialTypes: model.StringList{model.MaterialCharacter, model.MaterialWord},
			},
			{
				Level: 1, Indicator: "基础词汇理解", Category: "vocabulary", SkillGroup: "literacy",
				Weight: 0.6, Minimum: 6,
				MaterialTypes: model.StringList{model.MaterialWord, model.MaterialSentence},
			},
			{
				Level: 1, Indicator: "简单句朗读", Category: "reading", SkillGroup: "fluency",
				Weight: 0.4, Minimum: 5,
				MaterialTypes: model.StringList{model.MaterialSentence},
			},
		}
		for i := range defaultIndicators {
			db.Create(&defaultIndicators[i])
		}
	}

	var actCount int64
	db.Model(&model.Activity{}).Count(&actCount)
	if actCount == 0 {
		defaultActivities := []model.Activity{
			{
				ActivityTitle: "拼音跟读",
				IndicatorCats: model.StringList{"pronunciation"},
				MaterialType:  model.StringList{model.MaterialSyllable, model.MaterialCharacter},
				QuizType:      "follow_read", TimeCost: 90, Available: true,
			},
			{
				ActivityTitle: "认字卡片",
				IndicatorCats: model.StringList{"recognition"},
				MaterialType:  model.StringList{model.MaterialCharacter},
				QuizType:      "flashcard", TimeCost: 60, Available: true,
			},
			{
				ActivityTitle: "词义配对",
				IndicatorCats: model.StringList{"vocabulary", "recognition"},
				MaterialType:  model.StringList{model.MaterialWord},
				QuizType:      "matching", TimeCost: 120, Available: true,
			},
			{
				ActivityTitle: "句子朗读",
				IndicatorCats: model.StringList{"reading"},
				MaterialType:  model.StringList{model.MaterialSentence},
				QuizType:      "read_aloud", TimeCost: 150, Available: true,
			},
		}
		for i := range defaultActivities {
			db.Create(&defaultActivities[i])
		}
	}
}
