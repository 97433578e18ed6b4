package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mtran-dev/fitcoach/internal/contexthelpers"
)

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error",
		slog.String("path", contexthelpers.CurrentPath(r.Context())), slog.Any("error", err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (app *application) clientError(w http.ResponseWriter, status int, message string) {
	app.writeJSONStatus(w, status, map[string]string{"error": message})
}

func (app *application) writeJSON(w http.ResponseWriter, data any) {
	app.writeJSONStatus(w, http.StatusOK, data)
}

func (app *application) writeJSONStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		app.logger.LogAttrs(context.Background(), slog.LevelError, "encode response", slog.Any("error", err))
	}
}

// decodeJSON decodes the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// parseExerciseIDParam parses the "exerciseID" path parameter.
// On failure, sends HTTP 404 automatically.
func (app *application) parseExerciseIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	exerciseID, err := strconv.Atoi(r.PathValue("exerciseID"))
	if err != nil {
		http.NotFound(w, r)
		return 0, false
	}
	return exerciseID, true
}
