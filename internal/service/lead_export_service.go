package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"nutri_edu_backend/internal/repository"
)

// LeadExportService writes the collected quiz responses as a CSV file to
// the configured storage provider for the association's outreach team.
type LeadExportService struct {
	QuizRepo *repository.QuizRepository
	Storage  *StorageService
}

func NewLeadExportService(quizRepo *repository.QuizRepository, storage *StorageService) *LeadExportService {
	return &LeadExportService{QuizRepo: quizRepo, Storage: storage}
}

// Export dumps all leads and returns the URL of the uploaded file.
func (s *LeadExportService) Export(ctx context.Context) (string, error) {
	leads, err := s.QuizRepo.ListAll()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"id", "createdAt", "name", "email", "objectives", "symptoms",
		"dietaryHabit", "meatFishFrequency", "fruitVegPortions",
		"exerciseFrequency", "sleepQuality", "stressLevel",
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, l := range leads {
		record := []string{
			strconv.FormatUint(uint64(l.ID), 10),
			l.CreatedAt.Format(time.RFC3339),
			l.Name,
			l.Email,
			strings.Join(l.Objectives, ";"),
			strings.Join(l.Symptoms, ";"),
			string(l.DietaryHabit),
			string(l.MeatFishFrequency),
			string(l.FruitVegPortions),
			string(l.ExerciseFrequency),
			strconv.Itoa(l.SleepQuality),
			strconv.Itoa(l.StressLevel),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("leads/leads-%s.csv", time.Now().Format("20060102-150405"))
	return s.Storage.Provider.Upload(ctx, filename, &buf, int64(buf.Len()), "text/csv")
}
