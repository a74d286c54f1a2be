package repository

import (
	"lingo_plan_backend/internal/model"

	"gorm.io/gorm"
)

type PlanRepository struct {
	DB *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{DB: db}
}

func (r *PlanRepository) Create(tx *gorm.DB, plan *model.UserWeeklyPlan) error {
	if tx == nil {
		tx = r.DB
	}
	return tx.Create(plan).Error
}

func (r *PlanRepository) FindByIDAndUser(id, userID uint) (*model.UserWeeklyPlan, error) {
	var plan model.UserWeeklyPlan
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&plan).Error
	return &plan, err
}

func (r *PlanRepository) FindLatestByUser(userID uint) (*model.UserWeeklyPlan, error) {
	var plan model.UserWeeklyPlan
	err := r.DB.Where("user_id = ?", userID).Order("created_at desc").First(&plan).Error
	return &plan, err
}
