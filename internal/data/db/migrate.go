package db

import (
	types "github.com/yungbote/noteeline-backend/internal/domain/notes"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.Note{},
		&types.OnboardingSection{},
	)
}
