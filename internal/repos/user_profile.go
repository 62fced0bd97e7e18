package repos

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brudallism/macromuse-backend/internal/domain"
	"github.com/brudallism/macromuse-backend/internal/pkg/dbctx"
	pkgerrors "github.com/brudallism/macromuse-backend/internal/pkg/errors"
	"github.com/brudallism/macromuse-backend/internal/pkg/logger"
)

type UserProfileRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*domain.UserProfile, error)
	Upsert(dbc dbctx.Context, profile *domain.UserProfile) error
}

type userProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProfileRepo(db *gorm.DB, baseLog *logger.Logger) UserProfileRepo {
	return &userProfileRepo{
		db:  db,
		log: baseLog.With("repo", "UserProfileRepo"),
	}
}

func (r *userProfileRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var row domain.UserProfile
	err := transaction.WithContext(dbc.Ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *userProfileRepo) Upsert(dbc dbctx.Context, profile *domain.UserProfile) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	existing, err := r.GetByUserID(dbc, profile.UserID)
	if err != nil && !errors.Is(err, pkgerrors.ErrNotFound) {
		return err
	}
	if existing != nil {
		profile.ID = existing.ID
		return transaction.WithContext(dbc.Ctx).Save(profile).Error
	}
	return transaction.WithContext(dbc.Ctx).Create(profile).Error
}
