package repository

import (
	"nutri_edu_backend/internal/model"

	"gorm.io/gorm"
)

type TallyArchiveRepository struct {
	DB *gorm.DB
}

func NewTallyArchiveRepository(db *gorm.DB) *TallyArchiveRepository {
	return &TallyArchiveRepository{DB: db}
}

// Upsert replaces the day's rollup for a surface with the latest counts.
// The ephemeral tally is authoritative within the day; the archive is a
// snapshot of it.
func (r *TallyArchiveRepository) Upsert(a *model.TallyArchive) error {
	var existing model.TallyArchive
	err := r.DB.Where("surface_id = ? AND day = ?", a.SurfaceID, a.Day).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.DB.Create(a).Error
	} else if err != nil {
		return err
	}
	existing.Impressions = a.Impressions
	existing.Clicks = a.Clicks
	return r.DB.Save(&existing).Error
}

func (r *TallyArchiveRepository) ListBySurface(surfaceID string, days int) ([]model.TallyArchive, error) {
	var out []model.TallyArchive
	err := r.DB.Where("surface_id = ?", surfaceID).
		Order("day desc").Limit(days).Find(&out).Error
	return out, err
}
