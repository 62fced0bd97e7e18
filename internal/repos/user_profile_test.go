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
	"github.com/brudallism/macromuse-backend/internal/repos/testutil"
)

func TestUserProfileUpsert(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewUserProfileRepo(tx, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	userID := uuid.New()

	if _, err := repo.GetByUserID(dbc, userID); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("missing profile: %v, want ErrNotFound", err)
	}

	now := time.Now().UTC()
	profile := &domain.UserProfile{
		ID: uuid.New(), UserID: userID,
		Sex: "male", Age: 28, HeightCm: 178, WeightKg: 75,
		ActivityLevel: domain.ActivityLight,
		CreatedAt:     now, UpdatedAt: now,
	}
	if err := repo.Upsert(dbc, profile); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// Second upsert with changed measurements keeps the same row.
	updated := &domain.UserProfile{
		ID: uuid.New(), UserID: userID,
		Sex: "male", Age: 29, HeightCm: 178, WeightKg: 78,
		ActivityLevel: domain.ActivityModerate,
		CreatedAt:     now, UpdatedAt: time.Now().UTC(),
	}
	if err := repo.Upsert(dbc, updated); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.GetByUserID(dbc, userID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if got.ID != profile.ID {
		t.Errorf("upsert created a new row: %s != %s", got.ID, profile.ID)
	}
	if got.WeightKg != 78 || got.ActivityLevel != domain.ActivityModerate {
		t.Errorf("fields not updated: %+v", got)
	}

	var count int64
	if err := tx.Model(&domain.UserProfile{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("rows = %d, want 1", count)
	}
}
