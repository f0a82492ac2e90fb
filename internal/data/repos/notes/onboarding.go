package notes

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/noteeline-backend/internal/domain/notes"
	apperrors "github.com/yungbote/noteeline-backend/internal/pkg/errors"
	"github.com/yungbote/noteeline-backend/internal/platform/logger"
)

var ErrCorpusFull = fmt.Errorf("onboarding corpus already holds %d sections: %w", types.MaxOnboardingSections, apperrors.ErrConflict)

type OnboardingRepo interface {
	// Upsert replaces the section with the same id, or appends it while the corpus has room.
	Upsert(ctx context.Context, tx *gorm.DB, section *types.OnboardingSection) (*types.OnboardingSection, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.OnboardingSection, error)
}

type onboardingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOnboardingRepo(db *gorm.DB, baseLog *logger.Logger) OnboardingRepo {
	repoLog := baseLog.With("repo", "OnboardingRepo")
	return &onboardingRepo{db: db, log: repoLog}
}

func (r *onboardingRepo) Upsert(ctx context.Context, tx *gorm.DB, section *types.OnboardingSection) (*types.OnboardingSection, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if section.ID == "" {
		return nil, fmt.Errorf("onboarding section id is required: %w", apperrors.ErrInvalidArgument)
	}
	if len(section.Keypoints) == 0 {
		if err := section.SetKeypoints(nil); err != nil {
			return nil, err
		}
	}

	err := transaction.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
		var existing types.OnboardingSection
		err := inner.Where("id = ?", section.ID).First(&existing).Error
		switch {
		case err == nil:
			return inner.Model(&existing).Updates(map[string]any{
				"note":       section.Note,
				"keypoints":  section.Keypoints,
				"transcript": section.Transcript,
			}).Error
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		var count int64
		if err := inner.Model(&types.OnboardingSection{}).Count(&count).Error; err != nil {
			return err
		}
		if count >= types.MaxOnboardingSections {
			return ErrCorpusFull
		}
		return inner.Create(section).Error
	})
	if err != nil {
		return nil, err
	}
	return section, nil
}

func (r *onboardingRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.OnboardingSection, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.OnboardingSection
	if err := transaction.WithContext(ctx).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
