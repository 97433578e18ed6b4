package main

import (
	"fmt"
	"net/http"

	"github.com/mtran-dev/fitcoach/internal/schedule"
)

type blockedDatesResponse struct {
	BlockedDates []schedule.BlockedDateSpec `json:"blocked_dates"`
}

// blockedDatesGET returns the blocked-date specifications.
func (app *application) blockedDatesGET(w http.ResponseWriter, r *http.Request) {
	specs, err := app.scheduleService.ListBlockedDates(r.Context())
	if err != nil {
		app.serverError(w, r, fmt.Errorf("list blocked dates: %w", err))
		return
	}

	app.writeJSON(w, blockedDatesResponse{BlockedDates: specs})
}

// blockedDatesPOST replaces the blocked-date specifications.
func (app *application) blockedDatesPOST(w http.ResponseWriter, r *http.Request) {
	var req blockedDatesResponse
	if err := decodeJSON(r, &req); err != nil {
		app.clientError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := app.scheduleService.SaveBlockedDates(r.Context(), req.BlockedDates); err != nil {
		app.clientError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	app.writeJSON(w, blockedDatesResponse{BlockedDates: req.BlockedDates})
}
