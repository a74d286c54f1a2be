package repository

import (
	"lingo_plan_backend/internal/model"

	"gorm.io/gorm"
)

type ActivityRepository struct {
	DB *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

func (r *ActivityRepository) FindAvailable() ([]model.Activity, error) {
	var acts []model.Activity
	err := r.DB.Where("available = ?", true).Find(&acts).Error
	return acts, err
}

func (r *ActivityRepository) FindByIDs(ids []uint) ([]model.Activity, error) {
	var acts []model.Activity
	err := r.DB.Where("id IN ?", ids).Find(&acts).Error
	return acts, err
}
