package main

import (
	"fmt"
	"net/http"

	"github.com/mtran-dev/fitcoach/internal/schedule"
)

type preferencesResponse struct {
	Slots []schedule.SessionSlot `json:"slots"`
}

// preferencesGET returns the weekly availability template.
func (app *application) preferencesGET(w http.ResponseWriter, r *http.Request) {
	slots, err := app.scheduleService.GetAvailability(r.Context())
	if err != nil {
		app.serverError(w, r, fmt.Errorf("get availability: %w", err))
		return
	}

	app.writeJSON(w, preferencesResponse{Slots: slots})
}

// preferencesPOST replaces the weekly availability template.
func (app *application) preferencesPOST(w http.ResponseWriter, r *http.Request) {
	var req preferencesResponse
	if err := decodeJSON(r, &req); err != nil {
		app.clientError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := app.scheduleService.SaveAvailability(r.Context(), req.Slots); err != nil {
		app.clientError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	app.writeJSON(w, preferencesResponse{Slots: req.Slots})
}
