package schedule

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/mtran-dev/fitcoach/internal/sqlite"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// baseRepository carries the shared dependencies of the SQLite repositories.
type baseRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newBaseRepository(db *sqlite.Database, logger *slog.Logger) baseRepository {
	return baseRepository{db: db, logger: logger}
}

// rollback is deferred by every transactional write. Rolling back a
// committed transaction is a no-op.
func (r baseRepository) rollback(ctx context.Context, tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		r.logger.LogAttrs(ctx, slog.LevelError, "rollback transaction", slog.Any("error", err))
	}
}

// translateError maps driver-level sentinel errors to package ones.
func translateError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// repository bundles the per-aggregate repositories.
type repository struct {
	availability *sqliteAvailabilityRepository
	blocked      *sqliteBlockedDateRepository
	exercises    *sqliteExerciseRepository
	plans        *sqlitePlanRepository
}

// repositoryFactory wires repositories to a shared database handle.
type repositoryFactory struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newRepositoryFactory(db *sqlite.Database, logger *slog.Logger) *repositoryFactory {
	return &repositoryFactory{db: db, logger: logger}
}

func (f *repositoryFactory) newRepository() *repository {
	return &repository{
		availability: newSQLiteAvailabilityRepository(f.db, f.logger),
		blocked:      newSQLiteBlockedDateRepository(f.db, f.logger),
		exercises:    newSQLiteExerciseRepository(f.db, f.logger),
		plans:        newSQLitePlanRepository(f.db, f.logger),
	}
}
