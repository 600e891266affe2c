package service

import (
	"nutri_edu_backend/internal/model"
	"nutri_edu_backend/internal/repository"
	"nutri_edu_backend/internal/util"

	"gorm.io/gorm"
)

// CatalogService manages the supplement catalog the scorer draws from.
type CatalogService struct {
	SupplementRepo *repository.SupplementRepository
}

func NewCatalogService(supplementRepo *repository.SupplementRepository) *CatalogService {
	return &CatalogService{SupplementRepo: supplementRepo}
}

func (s *CatalogService) Create(sup *model.Supplement) error {
	return s.SupplementRepo.Create(sup)
}

func (s *CatalogService) Update(id uint, updates *model.Supplement) (*model.Supplement, error) {
	existing, err := s.SupplementRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrSupplementNotFound
		}
		return nil, err
	}

	existing.Title = updates.Title
	existing.Description = updates.Description
	existing.Benefits = updates.Benefits
	existing.ObjectiveTriggers = updates.ObjectiveTriggers
	existing.SymptomTriggers = updates.SymptomTriggers
	existing.DietTriggers = updates.DietTriggers
	existing.TimeToEffect = updates.TimeToEffect
	existing.Popularity = updates.Popularity
	existing.LowSleepTrigger = updates.LowSleepTrigger
	existing.HighStressTrigger = updates.HighStressTrigger
	existing.LowExerciseTrigger = updates.LowExerciseTrigger
	existing.LowMeatTrigger = updates.LowMeatTrigger
	existing.LowPortionTrigger = updates.LowPortionTrigger
	existing.Enabled = updates.Enabled

	if err := s.SupplementRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *CatalogService) Get(id uint) (*model.Supplement, error) {
	sup, err := s.SupplementRepo.FindByID(id)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrSupplementNotFound
	}
	return sup, err
}

func (s *CatalogService) List() ([]model.Supplement, error) {
	return s.SupplementRepo.ListAll()
}

func (s *CatalogService) Delete(id uint) error {
	return s.SupplementRepo.Delete(id)
}
