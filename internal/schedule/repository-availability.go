package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mtran-dev/fitcoach/internal/contexthelpers"
	"github.com/mtran-dev/fitcoach/internal/sqlite"
)

// sqliteAvailabilityRepository stores the weekly availability template.
type sqliteAvailabilityRepository struct {
	baseRepository
}

func newSQLiteAvailabilityRepository(db *sqlite.Database, logger *slog.Logger) *sqliteAvailabilityRepository {
	return &sqliteAvailabilityRepository{baseRepository: newBaseRepository(db, logger)}
}

// Get retrieves the availability template ordered by weekday and start time.
func (r *sqliteAvailabilityRepository) Get(ctx context.Context) (_ []SessionSlot, err error) {
	userID := contexthelpers.CurrentUserID(ctx)

	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT weekday, start_time, end_time, label
		FROM availability_slots
		WHERE user_id = ?
		ORDER BY weekday, start_time`, userID)
	if err != nil {
		return nil, fmt.Errorf("query availability slots: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var slots []SessionSlot
	for rows.Next() {
		var slot SessionSlot
		if err = rows.Scan(&slot.Weekday, &slot.StartTime, &slot.EndTime, &slot.Label); err != nil {
			return nil, fmt.Errorf("scan availability slot: %w", err)
		}
		slots = append(slots, slot)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate availability slots: %w", err)
	}

	return slots, nil
}

// Set replaces the whole availability template in one transaction.
func (r *sqliteAvailabilityRepository) Set(ctx context.Context, slots []SessionSlot) (err error) {
	userID := contexthelpers.CurrentUserID(ctx)

	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer r.rollback(ctx, tx)

	if _, err = tx.ExecContext(ctx, `DELETE FROM availability_slots WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear availability slots: %w", err)
	}

	for _, slot := range slots {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO availability_slots (user_id, weekday, start_time, end_time, label)
			VALUES (?, ?, ?, ?, ?)`,
			userID, slot.Weekday, slot.StartTime, slot.EndTime, slot.Label)
		if err != nil {
			return fmt.Errorf("insert availability slot: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
