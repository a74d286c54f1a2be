package repository

import (
	"lingo_plan_backend/internal/model"

	"gorm.io/gorm"
)

type ScoreRecordRepository struct {
	DB *gorm.DB
}

func NewScoreRecordRepository(db *gorm.DB) *ScoreRecordRepository {
	return &ScoreRecordRepository{DB: db}
}

// FindByUserAndCategories 学习者在指定材料类别下的累计得分记录，按更新时间升序
func (r *ScoreRecordRepository) FindByUserAndCategories(userID uint, categories []string) ([]model.UserScoreRecord, error) {
	var records []model.UserScoreRecord
	err := r.DB.Where("user_id = ? AND category IN ?", userID, categories).
		Order("update_at").
		Find(&records).Error
	return records, err
}
