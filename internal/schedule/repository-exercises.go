package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mtran-dev/fitcoach/internal/sqlite"
)

// sqliteExerciseRepository stores the exercise template catalog. The catalog
// is shared between users, so no user scoping here.
type sqliteExerciseRepository struct {
	baseRepository
}

func newSQLiteExerciseRepository(db *sqlite.Database, logger *slog.Logger) *sqliteExerciseRepository {
	return &sqliteExerciseRepository{baseRepository: newBaseRepository(db, logger)}
}

// List retrieves all exercise templates ordered by name.
func (r *sqliteExerciseRepository) List(ctx context.Context) (_ []ExerciseTemplate, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, name, duration_minutes, estimated_calories, difficulty, description_markdown
		FROM exercise_templates
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query exercise templates: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var exercises []ExerciseTemplate
	for rows.Next() {
		var ex ExerciseTemplate
		err = rows.Scan(
			&ex.ID, &ex.Name, &ex.DurationMinutes, &ex.EstimatedCalories,
			&ex.Difficulty, &ex.DescriptionMarkdown)
		if err != nil {
			return nil, fmt.Errorf("scan exercise template: %w", err)
		}
		exercises = append(exercises, ex)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exercise templates: %w", err)
	}

	return exercises, nil
}

// Get retrieves one exercise template by ID.
func (r *sqliteExerciseRepository) Get(ctx context.Context, id int) (ExerciseTemplate, error) {
	var ex ExerciseTemplate
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, name, duration_minutes, estimated_calories, difficulty, description_markdown
		FROM exercise_templates
		WHERE id = ?`, id).Scan(
		&ex.ID, &ex.Name, &ex.DurationMinutes, &ex.EstimatedCalories,
		&ex.Difficulty, &ex.DescriptionMarkdown)
	if err != nil {
		return ExerciseTemplate{}, fmt.Errorf("query exercise template %d: %w", id, translateError(err))
	}
	return ex, nil
}

// GetByNames retrieves exercise templates matching the given names. Names
// with no matching template are skipped.
func (r *sqliteExerciseRepository) GetByNames(ctx context.Context, names []string) ([]ExerciseTemplate, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]ExerciseTemplate, len(all))
	for _, ex := range all {
		byName[ex.Name] = ex
	}

	var matched []ExerciseTemplate
	for _, name := range names {
		if ex, ok := byName[name]; ok {
			matched = append(matched, ex)
		}
	}
	return matched, nil
}

// SetDescription caches generated markdown content for an exercise.
func (r *sqliteExerciseRepository) SetDescription(ctx context.Context, id int, markdown string) error {
	result, err := r.db.ReadWrite.ExecContext(ctx, `
		UPDATE exercise_templates
		SET description_markdown = ?
		WHERE id = ?`, markdown, id)
	if err != nil {
		return fmt.Errorf("update exercise description: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
