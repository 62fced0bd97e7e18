package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/brudallism/macromuse-backend/internal/domain"
	"github.com/brudallism/macromuse-backend/internal/pkg/ctxutil"
	"github.com/brudallism/macromuse-backend/internal/pkg/dbctx"
	pkgerrors "github.com/brudallism/macromuse-backend/internal/pkg/errors"
	"github.com/brudallism/macromuse-backend/internal/pkg/logger"
	"github.com/brudallism/macromuse-backend/internal/repos"
)

// TargetService resolves the effective daily target vector for a user/date by
// merging the layered goal definitions under fixed precedence:
// phase_based > weekly_cycle > base. Precedence lives here, in three explicit
// slot lookups, never in storage ordering.
type TargetService interface {
	Resolve(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.TargetVector, error)
	ResolveRange(ctx context.Context, userID uuid.UUID, start, end time.Time) (map[string]*domain.TargetVector, error)
	// InvalidateUser drops every cached resolution for the user. Goal layer
	// mutations call this.
	InvalidateUser(ctx context.Context, userID uuid.UUID)
}

type targetService struct {
	goals    repos.GoalLayerRepo
	profiles repos.UserProfileRepo
	cache    TargetCache
	log      *logger.Logger
}

func NewTargetService(goals repos.GoalLayerRepo, profiles repos.UserProfileRepo, cache TargetCache, baseLog *logger.Logger) TargetService {
	return &targetService{
		goals:    goals,
		profiles: profiles,
		cache:    cache,
		log:      baseLog.With("service", "TargetService"),
	}
}

func (s *targetService) Resolve(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.TargetVector, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user id required", pkgerrors.ErrInvalidArgument)
	}
	ctx = ctxutil.Default(ctx)
	date = domain.DateOnly(date)

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, userID, date); ok {
			return cached, nil
		}
	}

	layers, err := s.goals.GetActiveLayers(dbctx.Context{Ctx: ctx}, userID, date)
	if err != nil {
		return nil, fmt.Errorf("fetch active goal layers: %w", err)
	}

	winner := layers.PhaseBased
	if winner == nil {
		winner = layers.WeeklyCycle
	}
	if winner == nil {
		winner = layers.Base
	}
	if winner == nil {
		return nil, pkgerrors.ErrNoTargetDefined
	}

	targets, err := s.targetsFromLayer(ctx, userID, winner)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, userID, date, targets)
	}
	return targets, nil
}

func (s *targetService) ResolveRange(ctx context.Context, userID uuid.UUID, start, end time.Time) (map[string]*domain.TargetVector, error) {
	start = domain.DateOnly(start)
	end = domain.DateOnly(end)
	if start.After(end) {
		return nil, fmt.Errorf("%w: start after end", pkgerrors.ErrInvalidArgument)
	}
	// One date at a time, straight through the single-date cache: a range
	// query warms the same entries later point lookups hit.
	out := make(map[string]*domain.TargetVector)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		targets, err := s.Resolve(ctx, userID, d)
		if err != nil {
			if err == pkgerrors.ErrNoTargetDefined {
				continue
			}
			return nil, err
		}
		out[domain.FormatDate(d)] = targets
	}
	return out, nil
}

func (s *targetService) InvalidateUser(ctx context.Context, userID uuid.UUID) {
	if s.cache != nil {
		s.cache.InvalidateUser(ctxutil.Default(ctx), userID)
	}
}

// targetsFromLayer uses the layer's explicit numbers verbatim when present.
// Goal-type-only layers route through the macro calculator on the user's
// profile.
func (s *targetService) targetsFromLayer(ctx context.Context, userID uuid.UUID, layer *domain.GoalLayer) (*domain.TargetVector, error) {
	explicit, err := layer.ExplicitTargets()
	if err != nil {
		return nil, err
	}
	if explicit != nil {
		if err := explicit.Validate(); err != nil {
			return nil, fmt.Errorf("goal layer %s: %w", layer.ID, err)
		}
		return explicit, nil
	}

	profile, err := s.profiles.GetByUserID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch profile for goal-type targets: %w", err)
	}
	return CalculateMacroTargets(profile, layer.GoalType)
}
