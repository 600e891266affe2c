package repository

import (
	"nutri_edu_backend/internal/model"

	"gorm.io/gorm"
)

type SupplementRepository struct {
	DB *gorm.DB
}

func NewSupplementRepository(db *gorm.DB) *SupplementRepository {
	return &SupplementRepository{DB: db}
}

func (r *SupplementRepository) Create(s *model.Supplement) error {
	return r.DB.Create(s).Error
}

func (r *SupplementRepository) Update(s *model.Supplement) error {
	return r.DB.Save(s).Error
}

func (r *SupplementRepository) FindByID(id uint) (*model.Supplement, error) {
	var s model.Supplement
	err := r.DB.First(&s, id).Error
	return &s, err
}

// ListEnabled returns the scoreable catalog in stored order; this order
// is the scorer's default candidate order.
func (r *SupplementRepository) ListEnabled() ([]model.Supplement, error) {
	var out []model.Supplement
	err := r.DB.Where("enabled = ?", true).Order("id asc").Find(&out).Error
	return out, err
}

func (r *SupplementRepository) ListAll() ([]model.Supplement, error) {
	var out []model.Supplement
	err := r.DB.Order("id asc").Find(&out).Error
	return out, err
}

func (r *SupplementRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Supplement{}, id).Error
}
