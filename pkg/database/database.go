package database

import (
	"fmt"
	"log"

	"nutri_edu_backend/internal/config"
	"nutri_edu_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Supplement{},
		&model.QuizResponse{},
		&model.ScoredResult{},
		&model.TallyArchive{},
	)
	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	if err := seedSupplements(db); err != nil {
		return nil, err
	}

	return db, nil
}

// seedSupplements fills an empty catalog with the association's default
// product line so a fresh deployment can score quizzes immediately.
func seedSupplements(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Supplement{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []model.Supplement{
		{
			Title:             "Magnésium marin",
			Description:       "Contribue à réduire la fatigue et soutient l'équilibre nerveux.",
			Benefits:          model.StringList{"Réduction de la fatigue", "Détente musculaire", "Équilibre nerveux"},
			ObjectiveTriggers: model.StringList{"stress", "sommeil", "energie"},
			SymptomTriggers:   model.StringList{"fatigue", "irritabilite", "crampes"},
			TimeToEffect:      "1-2 semaines",
			Popularity:        88,
			HighStressTrigger: true,
			LowSleepTrigger:   true,
			Enabled:           true,
		},
		{
			Title:             "Oméga-3 EPA/DHA",
			Description:       "Soutient les fonctions cognitives et cardiovasculaires.",
			Benefits:          model.StringList{"Concentration", "Santé cardiovasculaire", "Humeur stable"},
			ObjectiveTriggers: model.StringList{"concentration", "stress"},
			SymptomTriggers:   model.StringList{"manque_concentration"},
			DietTriggers:      model.StringList{"vegetarien", "vegan"},
			TimeToEffect:      "3-4 mois",
			Popularity:        75,
			LowMeatTrigger:    true,
			Enabled:           true,
		},
		{
			Title:             "Vitamine D3",
			Description:       "Soutient l'immunité et la santé osseuse.",
			Benefits:          model.StringList{"Immunité renforcée", "Santé osseuse", "Vitalité"},
			ObjectiveTriggers: model.StringList{"immunite", "energie"},
			SymptomTriggers:   model.StringList{"infections_frequentes", "fatigue"},
			TimeToEffect:      "2-3 semaines",
			Popularity:        92,
			Enabled:           true,
		},
		{
			Title:             "Probiotiques multi-souches",
			Description:       "Soutient l'équilibre du microbiote intestinal.",
			Benefits:          model.StringList{"Confort digestif", "Équilibre intestinal", "Immunité"},
			ObjectiveTriggers: model.StringList{"digestion", "immunite"},
			SymptomTriggers:   model.StringList{"inconfort_digestif"},
			TimeToEffect:      "2-3 jours",
			Popularity:        70,
			LowPortionTrigger: true,
			Enabled:           true,
		},
		{
			Title:              "Complexe Vitamine B",
			Description:        "Soutient le métabolisme énergétique et le système nerveux.",
			Benefits:           model.StringList{"Énergie cellulaire", "Système nerveux", "Métabolisme"},
			ObjectiveTriggers:  model.StringList{"energie", "concentration"},
			SymptomTriggers:    model.StringList{"fatigue", "manque_concentration"},
			DietTriggers:       model.StringList{"vegan"},
			TimeToEffect:       "1-2 semaines",
			Popularity:         64,
			LowExerciseTrigger: true,
			LowMeatTrigger:     true,
			Enabled:            true,
		},
		{
			Title:             "Mélatonine végétale",
			Description:       "Aide à réduire le temps d'endormissement.",
			Benefits:          model.StringList{"Endormissement facilité", "Rythme de sommeil régulier"},
			ObjectiveTriggers: model.StringList{"sommeil"},
			SymptomTriggers:   model.StringList{"troubles_sommeil"},
			TimeToEffect:      "2-3 jours",
			Popularity:        81,
			LowSleepTrigger:   true,
			Enabled:           true,
		},
	}

	for i := range defaults {
		if err := db.Create(&defaults[i]).Error; err != nil {
			return err
		}
	}

	log.Printf("Seeded supplement catalog with %d entries", len(defaults))
	return nil
}
