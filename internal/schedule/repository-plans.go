package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mtran-dev/fitcoach/internal/contexthelpers"
	"github.com/mtran-dev/fitcoach/internal/sqlite"
)

// sqlitePlanRepository stores confirmed plans as flattened calendar rows.
type sqlitePlanRepository struct {
	baseRepository
}

func newSQLitePlanRepository(db *sqlite.Database, logger *slog.Logger) *sqlitePlanRepository {
	return &sqlitePlanRepository{baseRepository: newBaseRepository(db, logger)}
}

// Replace swaps the user's confirmed plan for a new one in one transaction.
func (r *sqlitePlanRepository) Replace(ctx context.Context, entries []PlanEntry) (err error) {
	userID := contexthelpers.CurrentUserID(ctx)

	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer r.rollback(ctx, tx)

	if _, err = tx.ExecContext(ctx, `DELETE FROM plan_entries WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear plan entries: %w", err)
	}

	for _, entry := range entries {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO plan_entries (
				user_id, entry_date, week_number, session_label, start_time, end_time,
				exercise_name, duration_minutes, estimated_calories, difficulty
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (user_id, entry_date, start_time, exercise_name) DO UPDATE SET
				week_number = excluded.week_number,
				session_label = excluded.session_label,
				end_time = excluded.end_time,
				duration_minutes = excluded.duration_minutes,
				estimated_calories = excluded.estimated_calories,
				difficulty = excluded.difficulty`,
			userID, dateKey(entry.Date), entry.WeekNumber, entry.SessionLabel,
			entry.StartTime, entry.EndTime, entry.ExerciseName,
			entry.DurationMinutes, entry.EstimatedCalories, entry.Difficulty)
		if err != nil {
			return fmt.Errorf("insert plan entry: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// List retrieves the user's confirmed plan ordered by date and start time.
func (r *sqlitePlanRepository) List(ctx context.Context) (_ []PlanEntry, err error) {
	userID := contexthelpers.CurrentUserID(ctx)

	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT entry_date, week_number, session_label, start_time, end_time,
		       exercise_name, duration_minutes, estimated_calories, difficulty
		FROM plan_entries
		WHERE user_id = ?
		ORDER BY entry_date, start_time, exercise_name`, userID)
	if err != nil {
		return nil, fmt.Errorf("query plan entries: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var entries []PlanEntry
	for rows.Next() {
		var (
			entry   PlanEntry
			dateStr string
		)
		err = rows.Scan(
			&dateStr, &entry.WeekNumber, &entry.SessionLabel, &entry.StartTime, &entry.EndTime,
			&entry.ExerciseName, &entry.DurationMinutes, &entry.EstimatedCalories, &entry.Difficulty)
		if err != nil {
			return nil, fmt.Errorf("scan plan entry: %w", err)
		}
		if entry.Date, err = time.ParseInLocation(dateFormat, dateStr, time.Local); err != nil {
			return nil, fmt.Errorf("parse plan entry date: %w", err)
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plan entries: %w", err)
	}

	return entries, nil
}
