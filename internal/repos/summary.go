package repos

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/brudallism/macromuse-backend/internal/domain"
	"github.com/brudallism/macromuse-backend/internal/pkg/dbctx"
	"github.com/brudallism/macromuse-backend/internal/pkg/logger"
)

// SummaryRepo stores rollup rows. Every upsert is keyed by the period's natural
// key, which is what makes rollup recomputation idempotent.
type SummaryRepo interface {
	UpsertDaily(dbc dbctx.Context, summary *domain.DailySummary) error
	UpsertWeekly(dbc dbctx.Context, summary *domain.WeeklySummary) error
	UpsertMonthly(dbc dbctx.Context, summary *domain.MonthlySummary) error
	GetDaily(dbc dbctx.Context, userID uuid.UUID, date time.Time) (*domain.DailySummary, error)
	GetDailyRange(dbc dbctx.Context, userID uuid.UUID, startInclusive, endInclusive time.Time) ([]*domain.DailySummary, error)
	GetWeekly(dbc dbctx.Context, userID uuid.UUID, isoYear, isoWeek int) (*domain.WeeklySummary, error)
	GetMonthly(dbc dbctx.Context, userID uuid.UUID, year, month int) (*domain.MonthlySummary, error)
	GetMonthlyRange(dbc dbctx.Context, userID uuid.UUID, startYear, startMonth, endYear, endMonth int) ([]*domain.MonthlySummary, error)
}

type summaryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSummaryRepo(db *gorm.DB, baseLog *logger.Logger) SummaryRepo {
	return &summaryRepo{
		db:  db,
		log: baseLog.With("repo", "SummaryRepo"),
	}
}

func (r *summaryRepo) UpsertDaily(dbc dbctx.Context, summary *domain.DailySummary) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	summary.Date = domain.DateOnly(summary.Date)
	return transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"nutrients", "entry_count", "computed_at"}),
		}).
		Create(summary).Error
}

func (r *summaryRepo) UpsertWeekly(dbc dbctx.Context, summary *domain.WeeklySummary) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "iso_year"}, {Name: "iso_week"}},
			DoUpdates: clause.AssignmentColumns([]string{"avg_nutrients", "days_with_data", "entry_count", "computed_at"}),
		}).
		Create(summary).Error
}

func (r *summaryRepo) UpsertMonthly(dbc dbctx.Context, summary *domain.MonthlySummary) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "year"}, {Name: "month"}},
			DoUpdates: clause.AssignmentColumns([]string{"avg_nutrients", "days_with_data", "entry_count", "computed_at"}),
		}).
		Create(summary).Error
}

func (r *summaryRepo) GetDaily(dbc dbctx.Context, userID uuid.UUID, date time.Time) (*domain.DailySummary, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var row domain.DailySummary
	err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND date = ?", userID, domain.DateOnly(date)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *summaryRepo) GetDailyRange(dbc dbctx.Context, userID uuid.UUID, startInclusive, endInclusive time.Time) ([]*domain.DailySummary, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*domain.DailySummary
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, domain.DateOnly(startInclusive), domain.DateOnly(endInclusive)).
		Order("date ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *summaryRepo) GetWeekly(dbc dbctx.Context, userID uuid.UUID, isoYear, isoWeek int) (*domain.WeeklySummary, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var row domain.WeeklySummary
	err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND iso_year = ? AND iso_week = ?", userID, isoYear, isoWeek).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *summaryRepo) GetMonthly(dbc dbctx.Context, userID uuid.UUID, year, month int) (*domain.MonthlySummary, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var row domain.MonthlySummary
	err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND year = ? AND month = ?", userID, year, month).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *summaryRepo) GetMonthlyRange(dbc dbctx.Context, userID uuid.UUID, startYear, startMonth, endYear, endMonth int) ([]*domain.MonthlySummary, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	startKey := startYear*100 + startMonth
	endKey := endYear*100 + endMonth
	var out []*domain.MonthlySummary
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND (year * 100 + month) BETWEEN ? AND ?", userID, startKey, endKey).
		Order("year ASC, month ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
