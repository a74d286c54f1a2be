package repository

import (
	"time"

	"lingo_plan_backend/internal/model"

	"gorm.io/gorm"
)

type AbilityHistoryRepository struct {
	DB *gorm.DB
}

func NewAbilityHistoryRepository(db *gorm.DB) *AbilityHistoryRepository {
	return &AbilityHistoryRepository{DB: db}
}

// FindByUserAndIndicator 窗口内单个指标的练习记录，时间倒序
func (r *AbilityHistoryRepository) FindByUserAndIndicator(userID, indicatorID uint, since time.Time) ([]model.UserAbilityHistory, error) {
	var records []model.UserAbilityHistory
	err := r.DB.Where("user_id = ? AND indicator_id = ? AND created_at >= ?", userID, indicatorID, since).
		Order("created_at desc").
		Find(&records).Error
	return records, err
}

// FindByUserAndIndicators 窗口内整组指标的练习记录，时间倒序
func (r *AbilityHistoryRepository) FindByUserAndIndicators(userID uint, indicatorIDs []uint, since time.Time) ([]model.UserAbilityHistory, error) {
	var records []model.UserAbilityHistory
	err := r.DB.Where("user_id = ? AND indicator_id IN ? AND created_at >= ?", userID, indicatorIDs, since).
		Order("created_at desc").
		Find(&records).Error
	return records, err
}

func (r *AbilityHistoryRepository) CountSince(userID uint, indicatorIDs []uint, since time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.UserAbilityHistory{}).
		Where("user_id = ? AND indicator_id IN ? AND created_at >= ?", userID, indicatorIDs, since).
		Count(&count).Error
	return count, err
}
