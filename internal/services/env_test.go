package services

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/brudallism/macromuse-backend/internal/pkg/dbctx"
	"github.com/brudallism/macromuse-backend/internal/pkg/logger"
	"github.com/brudallism/macromuse-backend/internal/repos/testutil"
)

// testEnv bundles the transaction-scoped fixtures the DB-backed service tests
// share. Repos are constructed on the transaction itself, so everything a test
// writes rolls back in cleanup.
type testEnv struct {
	ctx context.Context
	tx  *gorm.DB
	log *logger.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.DB(t)
	return &testEnv{
		ctx: context.Background(),
		tx:  testutil.Tx(t, db),
		log: testutil.Logger(t),
	}
}

func dbcFor(env *testEnv) dbctx.Context {
	return dbctx.Context{Ctx: env.ctx}
}
