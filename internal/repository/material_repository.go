package repository

import (
	"lingo_plan_backend/internal/model"

	"gorm.io/gorm"
)

type MaterialRepository struct {
	DB *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{DB: db}
}

func (r *MaterialRepository) Create(tx *gorm.DB, m *model.UserMaterial) error {
	if tx == nil {
		tx = r.DB
	}
	return tx.Create(m).Error
}

// FindByUserAndLevel 该用户在此级别下已生成过的全部材料包（用于去重）
func (r *MaterialRepository) FindByUserAndLevel(userID uint, level int) ([]model.UserMaterial, error) {
	var ms []model.UserMaterial
	err := r.DB.Select("chars", "words", "topic_tag", "culture_tag").
		Where("user_id = ? AND level = ?", userID, level).
		Find(&ms).Error
	return ms, err
}
