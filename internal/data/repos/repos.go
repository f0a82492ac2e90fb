package repos

import (
	"github.com/yungbote/noteeline-backend/internal/data/repos/notes"
	"github.com/yungbote/noteeline-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type NoteRepo = notes.NoteRepo
type OnboardingRepo = notes.OnboardingRepo

type Repos struct {
	Notes       NoteRepo
	Onboardings OnboardingRepo
}

func New(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		Notes:       notes.NewNoteRepo(db, log),
		Onboardings: notes.NewOnboardingRepo(db, log),
	}
}

const (
	CounterTheme  = notes.CounterTheme
	CounterExpand = notes.CounterExpand
	CounterTime   = notes.CounterTime
)
