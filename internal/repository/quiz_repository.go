package repository

import (
	"lingo_plan_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) CreateBatch(tx *gorm.DB, quizzes []*model.Quiz) error {
	if tx == nil {
		tx = r.DB
	}
	return tx.Create(quizzes).Error
}

func (r *QuizRepository) FindByIDs(ids []uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Where("id IN ?", ids).Find(&quizzes).Error
	return quizzes, err
}

// UpdateGenerated 回填补题工作流生成的题面
func (r *QuizRepository) UpdateGenerated(quiz *model.Quiz) error {
	return r.DB.Model(&model.Quiz{}).Where("id = ?", quiz.ID).
		Updates(map[string]interface{}{
			"stem":     quiz.Stem,
			"question": quiz.Question,
			"options":  quiz.Options,
			"explain":  quiz.Explain,
		}).Error
}
