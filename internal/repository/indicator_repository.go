package repository

import (
	"lingo_plan_backend/internal/model"

	"gorm.io/gorm"
)

type IndicatorRepository struct {
	DB *gorm.DB
}

func NewIndicatorRepository(db *gorm.DB) *IndicatorRepository {
	return &IndicatorRepository{DB: db}
}

// FindCoreByLevel 查询级别内权重不低于阈值的核心指标，按权重降序
func (r *IndicatorRepository) FindCoreByLevel(level int, weightThreshold float64) ([]model.Indicator, error) {
	var inds []model.Indicator
	err := r.DB.Where("level = ? AND weight >= ?", level, weightThreshold).
		Order("weight desc").
		Find(&inds).Error
	return inds, err
}

func (r *IndicatorRepository) FindByIDs(ids []uint) ([]model.Indicator, error) {
	var inds []model.Indicator
	err := r.DB.Where("id IN ?", ids).Order("level").Find(&inds).Error
	return inds, err
}
