package repos

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/brudallism/macromuse-backend/internal/domain"
	"github.com/brudallism/macromuse-backend/internal/pkg/dbctx"
	pkgerrors "github.com/brudallism/macromuse-backend/internal/pkg/errors"
	"github.com/brudallism/macromuse-backend/internal/pkg/pointers"
	"github.com/brudallism/macromuse-backend/internal/repos/testutil"
)

func goalRepoForTest(t *testing.T) (GoalLayerRepo, dbctx.Context) {
	t.Helper()
	tx := testutil.Tx(t, testutil.DB(t))
	return NewGoalLayerRepo(tx, testutil.Logger(t)), dbctx.Context{Ctx: context.Background(), Tx: tx}
}

func TestGetActiveLayersSlotsByClass(t *testing.T) {
	repo, dbc := goalRepoForTest(t)
	userID := uuid.New()
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	testutil.SeedGoalLayer(t, dbc.Ctx, dbc.Tx, &domain.GoalLayer{
		UserID: userID, Class: domain.GoalClassBase,
		GoalType: domain.GoalTypeMaintenance, StartDate: monday,
	})
	testutil.SeedGoalLayer(t, dbc.Ctx, dbc.Tx, &domain.GoalLayer{
		UserID: userID, Class: domain.GoalClassWeeklyCycle,
		GoalType: domain.GoalTypeMaintenance, StartDate: monday,
		DayOfWeek: pointers.Int(3), // Wednesday
	})
	// Expired layer must never appear.
	testutil.SeedGoalLayer(t, dbc.Ctx, dbc.Tx, &domain.GoalLayer{
		UserID: userID, Class: domain.GoalClassBase,
		GoalType: domain.GoalTypeWeightLoss,
		StartDate: monday.AddDate(0, -2, 0), EndDate: pointers.Ptr(monday.AddDate(0, 0, -1)),
	})

	wednesday := monday.AddDate(0, 0, 2)
	layers, err := repo.GetActiveLayers(dbc, userID, wednesday)
	if err != nil {
		t.Fatalf("GetActiveLayers: %v", err)
	}
	if layers.Base == nil || layers.Base.GoalType != domain.GoalTypeMaintenance {
		t.Errorf("base slot = %+v", layers.Base)
	}
	if layers.WeeklyCycle == nil {
		t.Error("weekly cycle slot empty on its matching weekday")
	}
	if layers.PhaseBased != nil {
		t.Errorf("phase slot should be empty, got %+v", layers.PhaseBased)
	}

	// Thursday: the weekly layer no longer matches.
	layers, err = repo.GetActiveLayers(dbc, userID, monday.AddDate(0, 0, 3))
	if err != nil {
		t.Fatalf("GetActiveLayers: %v", err)
	}
	if layers.WeeklyCycle != nil {
		t.Errorf("weekly cycle matched on the wrong weekday: %+v", layers.WeeklyCycle)
	}
}

func TestGetActiveLayersLaterStartWins(t *testing.T) {
	repo, dbc := goalRepoForTest(t)
	userID := uuid.New()
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	testutil.SeedGoalLayer(t, dbc.Ctx, dbc.Tx, &domain.GoalLayer{
		UserID: userID, Class: domain.GoalClassBase,
		GoalType: domain.GoalTypeMaintenance, StartDate: monday.AddDate(0, -1, 0),
	})
	newer := testutil.SeedGoalLayer(t, dbc.Ctx, dbc.Tx, &domain.GoalLayer{
		UserID: userID, Class: domain.GoalClassBase,
		GoalType: domain.GoalTypeMuscleGain, StartDate: monday,
	})

	layers, err := repo.GetActiveLayers(dbc, userID, monday.AddDate(0, 0, 4))
	if err != nil {
		t.Fatalf("GetActiveLayers: %v", err)
	}
	if layers.Base == nil || layers.Base.ID != newer.ID {
		t.Errorf("overlapping base layers: got %+v, want the later-starting one", layers.Base)
	}
}

func TestGoalLayerCRUD(t *testing.T) {
	repo, dbc := goalRepoForTest(t)
	userID := uuid.New()
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	layer := &domain.GoalLayer{
		ID:     uuid.New(),
		UserID: userID, Class: domain.GoalClassBase,
		GoalType: domain.GoalTypeMaintenance, StartDate: monday,
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}
	if err := repo.Create(dbc, layer); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(dbc, layer.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.GoalType != domain.GoalTypeMaintenance {
		t.Errorf("round trip: %+v", got)
	}

	got.GoalType = domain.GoalTypePerformance
	if err := repo.Update(dbc, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	all, err := repo.GetByUser(dbc, userID)
	if err != nil {
		t.Fatalf("GetByUser: %v", err)
	}
	if len(all) != 1 || all[0].GoalType != domain.GoalTypePerformance {
		t.Errorf("after update: %+v", all)
	}

	if err := repo.Delete(dbc, layer.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(dbc, layer.ID); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("after delete: %v, want ErrNotFound", err)
	}
}
