package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/brudallism/macromuse-backend/internal/domain"
	pkgerrors "github.com/brudallism/macromuse-backend/internal/pkg/errors"
	"github.com/brudallism/macromuse-backend/internal/pkg/pointers"
	"github.com/brudallism/macromuse-backend/internal/repos"
)

// recordingTargets stubs TargetService to observe cache invalidations.
type recordingTargets struct {
	invalidated []uuid.UUID
}

func (r *recordingTargets) Resolve(context.Context, uuid.UUID, time.Time) (*domain.TargetVector, error) {
	return nil, pkgerrors.ErrNoTargetDefined
}

func (r *recordingTargets) ResolveRange(context.Context, uuid.UUID, time.Time, time.Time) (map[string]*domain.TargetVector, error) {
	return nil, nil
}

func (r *recordingTargets) InvalidateUser(_ context.Context, userID uuid.UUID) {
	r.invalidated = append(r.invalidated, userID)
}

func newGoalService(t *testing.T) (GoalService, *recordingTargets, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	goals := repos.NewGoalLayerRepo(env.tx, env.log)
	rec := &recordingTargets{}
	return NewGoalService(goals, rec, env.log), rec, env
}

func baseLayer(t *testing.T, userID uuid.UUID) *domain.GoalLayer {
	t.Helper()
	layer := &domain.GoalLayer{
		UserID:    userID,
		Class:     domain.GoalClassBase,
		GoalType:  domain.GoalTypeMaintenance,
		StartDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	}
	return layer
}

func TestGoalCreateInvalidatesTargets(t *testing.T) {
	svc, rec, env := newGoalService(t)
	userID := uuid.New()

	created, err := svc.Create(env.ctx, baseLayer(t, userID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("create must assign an id")
	}
	if len(rec.invalidated) != 1 || rec.invalidated[0] != userID {
		t.Errorf("invalidations = %v, want one for %s", rec.invalidated, userID)
	}
}

func TestGoalUpdateAndDeleteInvalidate(t *testing.T) {
	svc, rec, env := newGoalService(t)
	userID := uuid.New()

	created, err := svc.Create(env.ctx, baseLayer(t, userID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	created.GoalType = domain.GoalTypeMuscleGain
	if _, err := svc.Update(env.ctx, created); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := svc.Delete(env.ctx, userID, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(rec.invalidated) != 3 {
		t.Errorf("invalidations = %d, want 3 (create, update, delete)", len(rec.invalidated))
	}

	remaining, err := svc.List(env.ctx, userID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("layers remaining after delete: %d", len(remaining))
	}
}

func TestGoalOwnershipEnforced(t *testing.T) {
	svc, _, env := newGoalService(t)
	owner := uuid.New()
	intruder := uuid.New()

	created, err := svc.Create(env.ctx, baseLayer(t, owner))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(env.ctx, intruder, created.ID); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Errorf("cross-user delete: %v, want ErrInvalidArgument", err)
	}
	if err := svc.Delete(env.ctx, owner, uuid.New()); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("delete of unknown layer: %v, want ErrNotFound", err)
	}
}

func TestValidateLayer(t *testing.T) {
	userID := uuid.New()
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	withTargets := func(layer *domain.GoalLayer, tv *domain.TargetVector) *domain.GoalLayer {
		if err := layer.SetTargets(tv); err != nil {
			t.Fatalf("set targets: %v", err)
		}
		return layer
	}

	tests := []struct {
		name    string
		layer   *domain.GoalLayer
		wantErr bool
	}{
		{
			name:  "base with goal type",
			layer: &domain.GoalLayer{UserID: userID, Class: domain.GoalClassBase, GoalType: domain.GoalTypeMaintenance, StartDate: start},
		},
		{
			name: "weekly cycle with day",
			layer: &domain.GoalLayer{
				UserID: userID, Class: domain.GoalClassWeeklyCycle, GoalType: domain.GoalTypeMaintenance,
				StartDate: start, DayOfWeek: pointers.Int(6),
			},
		},
		{
			name:    "weekly cycle missing day",
			layer:   &domain.GoalLayer{UserID: userID, Class: domain.GoalClassWeeklyCycle, GoalType: domain.GoalTypeMaintenance, StartDate: start},
			wantErr: true,
		},
		{
			name: "weekly cycle day out of range",
			layer: &domain.GoalLayer{
				UserID: userID, Class: domain.GoalClassWeeklyCycle, GoalType: domain.GoalTypeMaintenance,
				StartDate: start, DayOfWeek: pointers.Int(7),
			},
			wantErr: true,
		},
		{
			name: "phase based valid",
			layer: &domain.GoalLayer{
				UserID: userID, Class: domain.GoalClassPhaseBased, GoalType: domain.GoalTypeMaintenance,
				StartDate: start, CycleLengthDays: pointers.Int(14), PhaseStartDay: pointers.Int(0), PhaseEndDay: pointers.Int(3),
			},
		},
		{
			name: "phase end past cycle",
			layer: &domain.GoalLayer{
				UserID: userID, Class: domain.GoalClassPhaseBased, GoalType: domain.GoalTypeMaintenance,
				StartDate: start, CycleLengthDays: pointers.Int(7), PhaseStartDay: pointers.Int(0), PhaseEndDay: pointers.Int(7),
			},
			wantErr: true,
		},
		{
			name:    "unknown class",
			layer:   &domain.GoalLayer{UserID: userID, Class: "lunar_cycle", GoalType: domain.GoalTypeMaintenance, StartDate: start},
			wantErr: true,
		},
		{
			name: "end before start",
			layer: &domain.GoalLayer{
				UserID: userID, Class: domain.GoalClassBase, GoalType: domain.GoalTypeMaintenance,
				StartDate: start, EndDate: pointers.Ptr(start.AddDate(0, 0, -1)),
			},
			wantErr: true,
		},
		{
			name: "explicit targets must be positive",
			layer: withTargets(
				&domain.GoalLayer{UserID: userID, Class: domain.GoalClassBase, StartDate: start},
				&domain.TargetVector{Calories: 2000, Protein: 0, Carbs: 230, Fat: 65},
			),
			wantErr: true,
		},
		{
			name:    "neither targets nor goal type",
			layer:   &domain.GoalLayer{UserID: userID, Class: domain.GoalClassBase, StartDate: start},
			wantErr: true,
		},
		{
			name:    "missing user",
			layer:   &domain.GoalLayer{Class: domain.GoalClassBase, GoalType: domain.GoalTypeMaintenance, StartDate: start},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateLayer(tt.layer)
			if tt.wantErr && !errors.Is(err, pkgerrors.ErrInvalidArgument) {
				t.Errorf("err = %v, want ErrInvalidArgument", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
