package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mtran-dev/fitcoach/internal/schedule"
)

// draftPlanSessionKey holds the JSON-encoded plan preview the user is
// editing. The draft lives in the session until confirmed or discarded.
const draftPlanSessionKey = "draftPlan"

type previewRequest struct {
	ExerciseNames   []string `json:"exercise_names"`
	Start           string   `json:"start"`
	Policy          string   `json:"policy"`
	ReplacementDate string   `json:"replacement_date"`
}

type planResponse struct {
	Plan schedule.Plan `json:"plan"`
}

type scheduleResponse struct {
	Entries []schedule.PlanEntry `json:"entries"`
}

// schedulePreviewPOST generates a fresh plan preview and stores it as the
// session's draft.
func (app *application) schedulePreviewPOST(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := decodeJSON(r, &req); err != nil {
		app.clientError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := schedule.GenerateOptions{
		Start:  schedule.StartOption(req.Start),
		Policy: schedule.DeferralPolicy(req.Policy),
	}
	if opts.Start == "" {
		opts.Start = schedule.StartThisWeek
	}
	if req.ReplacementDate != "" {
		replacement, err := time.ParseInLocation(time.DateOnly, req.ReplacementDate, time.Local)
		if err != nil {
			app.clientError(w, http.StatusBadRequest, "invalid replacement_date")
			return
		}
		opts.ReplacementDate = replacement
	}

	plan, err := app.scheduleService.GeneratePreview(r.Context(), req.ExerciseNames, opts)
	if err != nil {
		if errors.Is(err, schedule.ErrNoAvailability) || errors.Is(err, schedule.ErrNoExercises) {
			app.clientError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		app.serverError(w, r, fmt.Errorf("generate preview: %w", err))
		return
	}

	if err = app.storeDraftPlan(r.Context(), plan); err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, planResponse{Plan: plan})
}

// schedulePreviewGET returns the session's draft plan.
func (app *application) schedulePreviewGET(w http.ResponseWriter, r *http.Request) {
	plan, ok, err := app.draftPlan(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if !ok {
		app.clientError(w, http.StatusNotFound, "no draft plan")
		return
	}
	app.writeJSON(w, planResponse{Plan: plan})
}

// scheduleMovePOST applies one manual reassignment to the draft plan.
func (app *application) scheduleMovePOST(w http.ResponseWriter, r *http.Request) {
	var req schedule.MoveRequest
	if err := decodeJSON(r, &req); err != nil {
		app.clientError(w, http.StatusBadRequest, err.Error())
		return
	}

	plan, ok, err := app.draftPlan(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if !ok {
		app.clientError(w, http.StatusNotFound, "no draft plan")
		return
	}

	if err = app.scheduleService.MovePreviewExercise(r.Context(), &plan, req); err != nil {
		switch {
		case errors.Is(err, schedule.ErrMoveSourceNotFound), errors.Is(err, schedule.ErrMoveTargetNotFound):
			app.clientError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, schedule.ErrDuplicateExercise):
			app.clientError(w, http.StatusConflict, err.Error())
		case errors.Is(err, schedule.ErrPastDate):
			app.clientError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			app.clientError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	if err = app.storeDraftPlan(r.Context(), plan); err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, planResponse{Plan: plan})
}

// scheduleConfirmPOST persists the draft plan and clears it from the session.
func (app *application) scheduleConfirmPOST(w http.ResponseWriter, r *http.Request) {
	plan, ok, err := app.draftPlan(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if !ok {
		app.clientError(w, http.StatusNotFound, "no draft plan")
		return
	}

	if err = app.scheduleService.ConfirmPlan(r.Context(), &plan); err != nil {
		app.serverError(w, r, fmt.Errorf("confirm plan: %w", err))
		return
	}
	app.sessionManager.Remove(r.Context(), draftPlanSessionKey)

	app.writeJSON(w, planResponse{Plan: plan})
}

// scheduleDiscardPOST drops the draft plan without persisting it.
func (app *application) scheduleDiscardPOST(w http.ResponseWriter, r *http.Request) {
	app.sessionManager.Remove(r.Context(), draftPlanSessionKey)
	w.WriteHeader(http.StatusNoContent)
}

// scheduleGET returns the confirmed plan as flattened calendar entries.
func (app *application) scheduleGET(w http.ResponseWriter, r *http.Request) {
	entries, err := app.scheduleService.ConfirmedEntries(r.Context())
	if err != nil {
		app.serverError(w, r, fmt.Errorf("list confirmed entries: %w", err))
		return
	}
	app.writeJSON(w, scheduleResponse{Entries: entries})
}

func (app *application) draftPlan(ctx context.Context) (schedule.Plan, bool, error) {
	data := app.sessionManager.GetBytes(ctx, draftPlanSessionKey)
	if data == nil {
		return schedule.Plan{}, false, nil
	}
	var plan schedule.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return schedule.Plan{}, false, fmt.Errorf("unmarshal draft plan: %w", err)
	}
	return plan, true, nil
}

func (app *application) storeDraftPlan(ctx context.Context, plan schedule.Plan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("marshal draft plan: %w", err)
	}
	app.sessionManager.Put(ctx, draftPlanSessionKey, data)
	return nil
}
