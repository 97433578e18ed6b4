package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mtran-dev/fitcoach/internal/contexthelpers"
	"github.com/mtran-dev/fitcoach/internal/sqlite"
)

// sqliteBlockedDateRepository stores blocked-date specifications.
type sqliteBlockedDateRepository struct {
	baseRepository
}

func newSQLiteBlockedDateRepository(db *sqlite.Database, logger *slog.Logger) *sqliteBlockedDateRepository {
	return &sqliteBlockedDateRepository{baseRepository: newBaseRepository(db, logger)}
}

// List retrieves the blocked-date specifications for the current user.
func (r *sqliteBlockedDateRepository) List(ctx context.Context) (_ []BlockedDateSpec, err error) {
	userID := contexthelpers.CurrentUserID(ctx)

	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT kind, value
		FROM blocked_date_specs
		WHERE user_id = ?
		ORDER BY kind, value`, userID)
	if err != nil {
		return nil, fmt.Errorf("query blocked dates: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var specs []BlockedDateSpec
	for rows.Next() {
		var spec BlockedDateSpec
		if err = rows.Scan(&spec.Kind, &spec.Value); err != nil {
			return nil, fmt.Errorf("scan blocked date: %w", err)
		}
		specs = append(specs, spec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blocked dates: %w", err)
	}

	return specs, nil
}

// Set replaces the blocked-date specifications in one transaction.
func (r *sqliteBlockedDateRepository) Set(ctx context.Context, specs []BlockedDateSpec) (err error) {
	userID := contexthelpers.CurrentUserID(ctx)

	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer r.rollback(ctx, tx)

	if _, err = tx.ExecContext(ctx, `DELETE FROM blocked_date_specs WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear blocked dates: %w", err)
	}

	for _, spec := range specs {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO blocked_date_specs (user_id, kind, value)
			VALUES (?, ?, ?)
			ON CONFLICT (user_id, kind, value) DO NOTHING`,
			userID, spec.Kind, spec.Value)
		if err != nil {
			return fmt.Errorf("insert blocked date: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
