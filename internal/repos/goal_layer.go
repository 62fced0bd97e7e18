package repos

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brudallism/macromuse-backend/internal/domain"
	"github.com/brudallism/macromuse-backend/internal/pkg/dbctx"
	pkgerrors "github.com/brudallism/macromuse-backend/internal/pkg/errors"
	"github.com/brudallism/macromuse-backend/internal/pkg/logger"
)

// ActiveLayers groups the candidate goal layers for one (user, date), one slot
// per precedence class. Precedence itself is applied by the target resolver,
// never by query ordering.
type ActiveLayers struct {
	Base        *domain.GoalLayer
	WeeklyCycle *domain.GoalLayer
	PhaseBased  *domain.GoalLayer
}

type GoalLayerRepo interface {
	GetActiveLayers(dbc dbctx.Context, userID uuid.UUID, date time.Time) (ActiveLayers, error)
	GetByUser(dbc dbctx.Context, userID uuid.UUID) ([]*domain.GoalLayer, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.GoalLayer, error)
	Create(dbc dbctx.Context, layer *domain.GoalLayer) error
	Update(dbc dbctx.Context, layer *domain.GoalLayer) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type goalLayerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGoalLayerRepo(db *gorm.DB, baseLog *logger.Logger) GoalLayerRepo {
	return &goalLayerRepo{
		db:  db,
		log: baseLog.With("repo", "GoalLayerRepo"),
	}
}

// GetActiveLayers fetches every layer whose date window could cover date and
// lets GoalLayer.ActiveOn apply the class-specific matching. When competing
// layers of the same class remain (overlapping definitions), the most recently
// started one wins; ties fall to the most recently updated.
func (r *goalLayerRepo) GetActiveLayers(dbc dbctx.Context, userID uuid.UUID, date time.Time) (ActiveLayers, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	date = domain.DateOnly(date)
	var rows []*domain.GoalLayer
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND start_date <= ? AND (end_date IS NULL OR end_date >= ?)", userID, date, date).
		Find(&rows).Error; err != nil {
		return ActiveLayers{}, err
	}

	var out ActiveLayers
	pick := func(slot **domain.GoalLayer, candidate *domain.GoalLayer) {
		if *slot == nil {
			*slot = candidate
			return
		}
		cur := *slot
		if candidate.StartDate.After(cur.StartDate) ||
			(candidate.StartDate.Equal(cur.StartDate) && candidate.UpdatedAt.After(cur.UpdatedAt)) {
			*slot = candidate
		}
	}
	for _, layer := range rows {
		if !layer.ActiveOn(date) {
			continue
		}
		switch layer.Class {
		case domain.GoalClassBase:
			pick(&out.Base, layer)
		case domain.GoalClassWeeklyCycle:
			pick(&out.WeeklyCycle, layer)
		case domain.GoalClassPhaseBased:
			pick(&out.PhaseBased, layer)
		}
	}
	return out, nil
}

func (r *goalLayerRepo) GetByUser(dbc dbctx.Context, userID uuid.UUID) ([]*domain.GoalLayer, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*domain.GoalLayer
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("start_date ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *goalLayerRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.GoalLayer, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var row domain.GoalLayer
	err := transaction.WithContext(dbc.Ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *goalLayerRepo) Create(dbc dbctx.Context, layer *domain.GoalLayer) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	layer.StartDate = domain.DateOnly(layer.StartDate)
	if layer.EndDate != nil {
		d := domain.DateOnly(*layer.EndDate)
		layer.EndDate = &d
	}
	return transaction.WithContext(dbc.Ctx).Create(layer).Error
}

func (r *goalLayerRepo) Update(dbc dbctx.Context, layer *domain.GoalLayer) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	layer.UpdatedAt = time.Now().UTC()
	return transaction.WithContext(dbc.Ctx).Save(layer).Error
}

func (r *goalLayerRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Delete(&domain.GoalLayer{}, "id = ?", id).Error
}
