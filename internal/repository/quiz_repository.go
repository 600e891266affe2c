package repository

import (
	"nutri_edu_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(q *model.QuizResponse) error {
	return r.DB.Create(q).Error
}

func (r *QuizRepository) List(page, limit int) ([]model.QuizResponse, int64, error) {
	var out []model.QuizResponse
	var total int64

	if err := r.DB.Model(&model.QuizResponse{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.DB.Order("created_at desc").Offset(offset).Limit(limit).Find(&out).Error
	return out, total, err
}

func (r *QuizRepository) ListAll() ([]model.QuizResponse, error) {
	var out []model.QuizResponse
	err := r.DB.Order("created_at asc").Find(&out).Error
	return out, err
}

// Result persistence: one stored payload per scoring run, addressable for
// later re-sort requests.

func (r *QuizRepository) CreateResult(res *model.ScoredResult) error {
	return r.DB.Create(res).Error
}

func (r *QuizRepository) FindResultByQuizID(quizID uint) (*model.ScoredResult, error) {
	var res model.ScoredResult
	err := r.DB.Where("quiz_response_id = ?", quizID).
		Order("created_at desc").First(&res).Error
	return &res, err
}
