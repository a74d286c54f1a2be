package repository

import (
	"lingo_plan_backend/internal/model"

	"gorm.io/gorm"
)

type PracticeRepository struct {
	DB *gorm.DB
}

func NewPracticeRepository(db *gorm.DB) *PracticeRepository {
	return &PracticeRepository{DB: db}
}

func (r *PracticeRepository) CreateBatch(tx *gorm.DB, practices []*model.UserPractice) error {
	if tx == nil {
		tx = r.DB
	}
	return tx.Create(practices).Error
}
