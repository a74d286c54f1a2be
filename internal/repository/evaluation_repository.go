package repository

import (
	"lingo_plan_backend/internal/model"

	"gorm.io/gorm"
)

type EvaluationRepository struct {
	DB *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{DB: db}
}

func (r *EvaluationRepository) CreateBatch(evaluations []*model.Evaluation) error {
	return r.DB.Create(evaluations).Error
}
