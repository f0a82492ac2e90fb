package notes

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/noteeline-backend/internal/domain/notes"
	apperrors "github.com/yungbote/noteeline-backend/internal/pkg/errors"
	"github.com/yungbote/noteeline-backend/internal/platform/logger"
)

var (
	ErrNoteNotFound  = fmt.Errorf("note: %w", apperrors.ErrNotFound)
	ErrDuplicateName = fmt.Errorf("note name already exists: %w", apperrors.ErrConflict)
)

// Counter names accepted by IncrementCounter.
const (
	CounterTheme  = "theme_count"
	CounterExpand = "expand_count"
	CounterTime   = "time_count"
)

type NoteRepo interface {
	Create(ctx context.Context, tx *gorm.DB, note *types.Note) (*types.Note, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Note, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Note, error)
	NameExists(ctx context.Context, tx *gorm.DB, name string) (bool, error)
	Rename(ctx context.Context, tx *gorm.DB, id uuid.UUID, newName string) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error

	UpdateContent(ctx context.Context, tx *gorm.DB, id uuid.UUID, points []types.NotePoint) error
	UpdateExpansions(ctx context.Context, tx *gorm.DB, id uuid.UUID, xs []types.Expansion) error
	UpdateVideo(ctx context.Context, tx *gorm.DB, id uuid.UUID, videoID string) error
	UpdateTranscript(ctx context.Context, tx *gorm.DB, id uuid.UUID, segs []types.TranscriptSegment) error
	UpdateSummary(ctx context.Context, tx *gorm.DB, id uuid.UUID, summary string) error
	UpdatePointSummary(ctx context.Context, tx *gorm.DB, id uuid.UUID, summary string) error
	UpdateRecordingStart(ctx context.Context, tx *gorm.DB, id uuid.UUID, startMs int64) error
	IncrementCounter(ctx context.Context, tx *gorm.DB, id uuid.UUID, counter string) error
}

type noteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNoteRepo(db *gorm.DB, baseLog *logger.Logger) NoteRepo {
	repoLog := baseLog.With("repo", "NoteRepo")
	return &noteRepo{db: db, log: repoLog}
}

func (r *noteRepo) tx(tx *gorm.DB) *gorm.DB {
	if tx == nil {
		return r.db
	}
	return tx
}

func (r *noteRepo) Create(ctx context.Context, tx *gorm.DB, note *types.Note) (*types.Note, error) {
	transaction := r.tx(tx)
	exists, err := r.NameExists(ctx, transaction, note.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateName
	}
	if len(note.Content) == 0 {
		if err := note.SetPoints(nil); err != nil {
			return nil, err
		}
	}
	if err := transaction.WithContext(ctx).Create(note).Error; err != nil {
		return nil, err
	}
	return note, nil
}

func (r *noteRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Note, error) {
	var out types.Note
	err := r.tx(tx).WithContext(ctx).Where("name = ?", name).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *noteRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Note, error) {
	var results []*types.Note
	if err := r.tx(tx).WithContext(ctx).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *noteRepo) NameExists(ctx context.Context, tx *gorm.DB, name string) (bool, error) {
	var count int64
	if err := r.tx(tx).WithContext(ctx).
		Model(&types.Note{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *noteRepo) Rename(ctx context.Context, tx *gorm.DB, id uuid.UUID, newName string) error {
	transaction := r.tx(tx)
	exists, err := r.NameExists(ctx, transaction, newName)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateName
	}
	return r.update(ctx, transaction, id, map[string]any{"name": newName})
}

func (r *noteRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	res := r.tx(tx).WithContext(ctx).Where("id = ?", id).Delete(&types.Note{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func (r *noteRepo) UpdateContent(ctx context.Context, tx *gorm.DB, id uuid.UUID, points []types.NotePoint) error {
	var n types.Note
	if err := n.SetPoints(points); err != nil {
		return err
	}
	return r.update(ctx, r.tx(tx), id, map[string]any{"content": n.Content})
}

func (r *noteRepo) UpdateExpansions(ctx context.Context, tx *gorm.DB, id uuid.UUID, xs []types.Expansion) error {
	var n types.Note
	if err := n.SetExpansions(xs); err != nil {
		return err
	}
	return r.update(ctx, r.tx(tx), id, map[string]any{"expansions": n.Expansions})
}

func (r *noteRepo) UpdateVideo(ctx context.Context, tx *gorm.DB, id uuid.UUID, videoID string) error {
	return r.update(ctx, r.tx(tx), id, map[string]any{"video_id": videoID})
}

func (r *noteRepo) UpdateTranscript(ctx context.Context, tx *gorm.DB, id uuid.UUID, segs []types.TranscriptSegment) error {
	var n types.Note
	if err := n.SetTranscript(segs); err != nil {
		return err
	}
	return r.update(ctx, r.tx(tx), id, map[string]any{"transcript": n.Transcript})
}

func (r *noteRepo) UpdateSummary(ctx context.Context, tx *gorm.DB, id uuid.UUID, summary string) error {
	return r.update(ctx, r.tx(tx), id, map[string]any{"generated_summary": summary})
}

func (r *noteRepo) UpdatePointSummary(ctx context.Context, tx *gorm.DB, id uuid.UUID, summary string) error {
	return r.update(ctx, r.tx(tx), id, map[string]any{"generated_summary_p": summary})
}

func (r *noteRepo) UpdateRecordingStart(ctx context.Context, tx *gorm.DB, id uuid.UUID, startMs int64) error {
	return r.update(ctx, r.tx(tx), id, map[string]any{"recording_start": startMs})
}

func (r *noteRepo) IncrementCounter(ctx context.Context, tx *gorm.DB, id uuid.UUID, counter string) error {
	switch counter {
	case CounterTheme, CounterExpand, CounterTime:
	default:
		return fmt.Errorf("unknown counter %q: %w", counter, apperrors.ErrInvalidArgument)
	}
	return r.update(ctx, r.tx(tx), id, map[string]any{counter: gorm.Expr(counter + " + 1")})
}

func (r *noteRepo) update(ctx context.Context, transaction *gorm.DB, id uuid.UUID, fields map[string]any) error {
	res := transaction.WithContext(ctx).
		Model(&types.Note{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoteNotFound
	}
	return nil
}
