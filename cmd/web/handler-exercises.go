package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mtran-dev/fitcoach/internal/schedule"
)

type exercisesResponse struct {
	Exercises []schedule.ExerciseTemplate `json:"exercises"`
}

// exercisesGET returns the exercise template catalog.
func (app *application) exercisesGET(w http.ResponseWriter, r *http.Request) {
	exercises, err := app.scheduleService.ListExercises(r.Context())
	if err != nil {
		app.serverError(w, r, fmt.Errorf("list exercises: %w", err))
		return
	}

	app.writeJSON(w, exercisesResponse{Exercises: exercises})
}

// exerciseInfoGET renders the exercise description as an HTML fragment.
func (app *application) exerciseInfoGET(w http.ResponseWriter, r *http.Request) {
	exerciseID, ok := app.parseExerciseIDParam(w, r)
	if !ok {
		return
	}

	html, err := app.scheduleService.ExerciseInfoHTML(r.Context(), exerciseID)
	if errors.Is(err, schedule.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, fmt.Errorf("exercise info: %w", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}
