package repos

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brudallism/macromuse-backend/internal/domain"
	"github.com/brudallism/macromuse-backend/internal/pkg/dbctx"
	"github.com/brudallism/macromuse-backend/internal/pkg/logger"
)

// IntakeRepo reads raw intake entries. The analytics core never writes them;
// the ledger service owns that table.
type IntakeRepo interface {
	FindByUserAndDateRange(dbc dbctx.Context, userID uuid.UUID, startInclusive, endExclusive time.Time) ([]*domain.IntakeEntry, error)
}

type intakeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIntakeRepo(db *gorm.DB, baseLog *logger.Logger) IntakeRepo {
	return &intakeRepo{
		db:  db,
		log: baseLog.With("repo", "IntakeRepo"),
	}
}

func (r *intakeRepo) FindByUserAndDateRange(dbc dbctx.Context, userID uuid.UUID, startInclusive, endExclusive time.Time) ([]*domain.IntakeEntry, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*domain.IntakeEntry
	if userID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND consumed_at >= ? AND consumed_at < ?", userID, startInclusive, endExclusive).
		Order("consumed_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
