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

// GoalService is the mutation surface for goal layers. Every write funnels
// through here so the target resolver's cache is invalidated on each change.
type GoalService interface {
	List(ctx context.Context, userID uuid.UUID) ([]*domain.GoalLayer, error)
	Create(ctx context.Context, layer *domain.GoalLayer) (*domain.GoalLayer, error)
	Update(ctx context.Context, layer *domain.GoalLayer) (*domain.GoalLayer, error)
	Delete(ctx context.Context, userID, layerID uuid.UUID) error
}

type goalService struct {
	goals   repos.GoalLayerRepo
	targets TargetService
	log     *logger.Logger
}

func NewGoalService(goals repos.GoalLayerRepo, targets TargetService, baseLog *logger.Logger) GoalService {
	return &goalService{
		goals:   goals,
		targets: targets,
		log:     baseLog.With("service", "GoalService"),
	}
}

func (s *goalService) List(ctx context.Context, userID uuid.UUID) ([]*domain.GoalLayer, error) {
	return s.goals.GetByUser(dbctx.Context{Ctx: ctxutil.Default(ctx)}, userID)
}

func (s *goalService) Create(ctx context.Context, layer *domain.GoalLayer) (*domain.GoalLayer, error) {
	ctx = ctxutil.Default(ctx)
	if err := validateLayer(layer); err != nil {
		return nil, err
	}
	if layer.ID == uuid.Nil {
		layer.ID = uuid.New()
	}
	now := time.Now().UTC()
	layer.CreatedAt = now
	layer.UpdatedAt = now
	if err := s.goals.Create(dbctx.Context{Ctx: ctx}, layer); err != nil {
		return nil, fmt.Errorf("create goal layer: %w", err)
	}
	s.targets.InvalidateUser(ctx, layer.UserID)
	s.log.Info("Goal layer created", "user_id", layer.UserID, "class", layer.Class)
	return layer, nil
}

func (s *goalService) Update(ctx context.Context, layer *domain.GoalLayer) (*domain.GoalLayer, error) {
	ctx = ctxutil.Default(ctx)
	if err := validateLayer(layer); err != nil {
		return nil, err
	}
	existing, err := s.goals.GetByID(dbctx.Context{Ctx: ctx}, layer.ID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != layer.UserID {
		return nil, fmt.Errorf("%w: goal layer %s does not belong to user", pkgerrors.ErrInvalidArgument, layer.ID)
	}
	layer.CreatedAt = existing.CreatedAt
	if err := s.goals.Update(dbctx.Context{Ctx: ctx}, layer); err != nil {
		return nil, fmt.Errorf("update goal layer: %w", err)
	}
	s.targets.InvalidateUser(ctx, layer.UserID)
	return layer, nil
}

func (s *goalService) Delete(ctx context.Context, userID, layerID uuid.UUID) error {
	ctx = ctxutil.Default(ctx)
	existing, err := s.goals.GetByID(dbctx.Context{Ctx: ctx}, layerID)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return fmt.Errorf("%w: goal layer %s does not belong to user", pkgerrors.ErrInvalidArgument, layerID)
	}
	if err := s.goals.Delete(dbctx.Context{Ctx: ctx}, layerID); err != nil {
		return fmt.Errorf("delete goal layer: %w", err)
	}
	s.targets.InvalidateUser(ctx, userID)
	s.log.Info("Goal layer deleted", "user_id", userID, "class", existing.Class)
	return nil
}

func validateLayer(layer *domain.GoalLayer) error {
	if layer == nil || layer.UserID == uuid.Nil {
		return fmt.Errorf("%w: goal layer and user id required", pkgerrors.ErrInvalidArgument)
	}
	switch layer.Class {
	case domain.GoalClassBase:
	case domain.GoalClassWeeklyCycle:
		if layer.DayOfWeek == nil || *layer.DayOfWeek < 0 || *layer.DayOfWeek > 6 {
			return fmt.Errorf("%w: weekly_cycle layer needs day_of_week in [0,6]", pkgerrors.ErrInvalidArgument)
		}
	case domain.GoalClassPhaseBased:
		if layer.CycleLengthDays == nil || *layer.CycleLengthDays <= 0 {
			return fmt.Errorf("%w: phase_based layer needs a positive cycle_length_days", pkgerrors.ErrInvalidArgument)
		}
		if layer.PhaseStartDay == nil || layer.PhaseEndDay == nil ||
			*layer.PhaseStartDay < 0 || *layer.PhaseEndDay < *layer.PhaseStartDay ||
			*layer.PhaseEndDay >= *layer.CycleLengthDays {
			return fmt.Errorf("%w: phase_based layer needs 0 <= phase_start_day <= phase_end_day < cycle_length_days", pkgerrors.ErrInvalidArgument)
		}
	default:
		return fmt.Errorf("%w: unknown goal layer class %q", pkgerrors.ErrInvalidArgument, layer.Class)
	}
	if layer.EndDate != nil && domain.DateOnly(*layer.EndDate).Before(domain.DateOnly(layer.StartDate)) {
		return fmt.Errorf("%w: end_date before start_date", pkgerrors.ErrInvalidArgument)
	}
	explicit, err := layer.ExplicitTargets()
	if err != nil {
		return fmt.Errorf("%w: %v", pkgerrors.ErrInvalidArgument, err)
	}
	if explicit != nil {
		return explicit.Validate()
	}
	if layer.GoalType == "" {
		return fmt.Errorf("%w: layer needs explicit targets or a goal_type", pkgerrors.ErrInvalidArgument)
	}
	return nil
}
