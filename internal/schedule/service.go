package schedule

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mtran-dev/fitcoach/internal/sqlite"
	"github.com/yuin/goldmark"
)

// Service handles the business logic for schedule management.
type Service struct {
	repo         *repository
	logger       *slog.Logger
	openaiAPIKey string
}

// NewService creates a new schedule service.
func NewService(db *sqlite.Database, logger *slog.Logger, openaiAPIKey string) *Service {
	factory := newRepositoryFactory(db, logger)
	return &Service{
		repo:         factory.newRepository(),
		logger:       logger,
		openaiAPIKey: openaiAPIKey,
	}
}

// GetAvailability retrieves the weekly availability template.
func (s *Service) GetAvailability(ctx context.Context) ([]SessionSlot, error) {
	slots, err := s.repo.availability.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get availability: %w", err)
	}
	return slots, nil
}

// SaveAvailability replaces the weekly availability template.
func (s *Service) SaveAvailability(ctx context.Context, slots []SessionSlot) error {
	for _, slot := range slots {
		if slot.Weekday < 1 || slot.Weekday > 7 {
			return fmt.Errorf("invalid weekday %d", slot.Weekday)
		}
		if parseClock(slot.EndTime) <= parseClock(slot.StartTime) {
			return fmt.Errorf("slot on weekday %d ends before it starts", slot.Weekday)
		}
	}
	if err := s.repo.availability.Set(ctx, slots); err != nil {
		return fmt.Errorf("save availability: %w", err)
	}
	return nil
}

// ListBlockedDates retrieves the blocked-date specifications.
func (s *Service) ListBlockedDates(ctx context.Context) ([]BlockedDateSpec, error) {
	specs, err := s.repo.blocked.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list blocked dates: %w", err)
	}
	return specs, nil
}

// SaveBlockedDates replaces the blocked-date specifications.
func (s *Service) SaveBlockedDates(ctx context.Context, specs []BlockedDateSpec) error {
	for _, spec := range specs {
		if spec.Kind != BlockedKindCustom && spec.Kind != BlockedKindHoliday {
			return fmt.Errorf("invalid blocked date kind %q", spec.Kind)
		}
	}
	if err := s.repo.blocked.Set(ctx, specs); err != nil {
		return fmt.Errorf("save blocked dates: %w", err)
	}
	return nil
}

// ListExercises returns the exercise template catalog.
func (s *Service) ListExercises(ctx context.Context) ([]ExerciseTemplate, error) {
	exercises, err := s.repo.exercises.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	return exercises, nil
}

// GetExercise returns one exercise template.
func (s *Service) GetExercise(ctx context.Context, id int) (ExerciseTemplate, error) {
	ex, err := s.repo.exercises.Get(ctx, id)
	if err != nil {
		return ExerciseTemplate{}, fmt.Errorf("get exercise %d: %w", id, err)
	}
	return ex, nil
}

// ExerciseInfoHTML returns the exercise description rendered to HTML. Missing
// descriptions are generated on first request and cached; when generation is
// unavailable a minimal fallback is rendered instead.
func (s *Service) ExerciseInfoHTML(ctx context.Context, id int) (string, error) {
	ex, err := s.repo.exercises.Get(ctx, id)
	if err != nil {
		return "", fmt.Errorf("get exercise %d: %w", id, err)
	}

	markdown := ex.DescriptionMarkdown
	if markdown == "" {
		markdown = s.describeExercise(ctx, ex)
	}

	var buf bytes.Buffer
	if err = goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render exercise description: %w", err)
	}
	return buf.String(), nil
}

func (s *Service) describeExercise(ctx context.Context, ex ExerciseTemplate) string {
	if s.openaiAPIKey == "" {
		return fallbackDescription(ex)
	}

	markdown, err := newContentGenerator(s.openaiAPIKey).Generate(ctx, ex)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "generate exercise description",
			slog.String("exercise", ex.Name), slog.Any("error", err))
		return fallbackDescription(ex)
	}

	if err = s.repo.exercises.SetDescription(ctx, ex.ID, markdown); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "cache exercise description",
			slog.String("exercise", ex.Name), slog.Any("error", err))
	}
	return markdown
}

// GeneratePreview builds a plan preview for the named exercises using the
// stored availability template and blocked dates. Names without a matching
// template are dropped with a warning.
func (s *Service) GeneratePreview(
	ctx context.Context,
	exerciseNames []string,
	opts GenerateOptions,
) (Plan, error) {
	template, err := s.repo.availability.Get(ctx)
	if err != nil {
		return Plan{}, fmt.Errorf("get availability: %w", err)
	}

	exercises, err := s.repo.exercises.GetByNames(ctx, exerciseNames)
	if err != nil {
		return Plan{}, fmt.Errorf("get exercises: %w", err)
	}
	if len(exercises) < len(exerciseNames) {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "dropped unknown exercises",
			slog.Int("requested", len(exerciseNames)),
			slog.Int("matched", len(exercises)))
	}

	specs, err := s.repo.blocked.List(ctx)
	if err != nil {
		return Plan{}, fmt.Errorf("list blocked dates: %w", err)
	}

	today := opts.Today
	if today.IsZero() {
		today = time.Now()
	}
	blocked := ResolveBlockedDates(specs, today)

	plan, err := GeneratePlan(template, exercises, blocked, opts)
	if err != nil {
		return Plan{}, fmt.Errorf("generate plan: %w", err)
	}
	return plan, nil
}

// MovePreviewExercise relocates one assignment inside a plan preview using
// the stored availability template to resolve the target session.
func (s *Service) MovePreviewExercise(ctx context.Context, plan *Plan, req MoveRequest) error {
	template, err := s.repo.availability.Get(ctx)
	if err != nil {
		return fmt.Errorf("get availability: %w", err)
	}
	if err = plan.MoveExercise(template, req, time.Now()); err != nil {
		return fmt.Errorf("move exercise: %w", err)
	}
	return nil
}

// ConfirmPlan persists a plan preview, replacing any previously confirmed
// plan.
func (s *Service) ConfirmPlan(ctx context.Context, plan *Plan) error {
	if err := s.repo.plans.Replace(ctx, plan.Flatten()); err != nil {
		return fmt.Errorf("confirm plan: %w", err)
	}
	return nil
}

// ConfirmedEntries returns the confirmed plan as flattened calendar rows.
func (s *Service) ConfirmedEntries(ctx context.Context) ([]PlanEntry, error) {
	entries, err := s.repo.plans.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list plan entries: %w", err)
	}
	return entries, nil
}
