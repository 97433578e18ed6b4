package main

import (
	"net/http"
)

func (app *application) routes() *http.ServeMux {
	mux := http.NewServeMux()

	var (
		shared = func(next http.Handler) http.Handler {
			return app.logRequest(secureHeaders(app.crossOriginProtection(commonContext(next))))
		}
		session = func(next http.Handler) http.Handler {
			return app.recoverPanic(noCache(app.sessionManager.LoadAndSave(
				app.resolveUser(shared(next)))))
		}
	)

	mux.Handle("GET /api/healthy", session(http.HandlerFunc(app.healthy)))

	mux.Handle("GET /preferences", session(http.HandlerFunc(app.preferencesGET)))
	mux.Handle("POST /preferences", session(http.HandlerFunc(app.preferencesPOST)))

	mux.Handle("GET /blocked-dates", session(http.HandlerFunc(app.blockedDatesGET)))
	mux.Handle("POST /blocked-dates", session(http.HandlerFunc(app.blockedDatesPOST)))

	mux.Handle("GET /exercises", session(http.HandlerFunc(app.exercisesGET)))
	mux.Handle("GET /exercises/{exerciseID}/info", session(http.HandlerFunc(app.exerciseInfoGET)))

	mux.Handle("POST /schedule/preview", session(http.HandlerFunc(app.schedulePreviewPOST)))
	mux.Handle("GET /schedule/preview", session(http.HandlerFunc(app.schedulePreviewGET)))
	mux.Handle("POST /schedule/preview/move", session(http.HandlerFunc(app.scheduleMovePOST)))
	mux.Handle("POST /schedule/confirm", session(http.HandlerFunc(app.scheduleConfirmPOST)))
	mux.Handle("POST /schedule/discard", session(http.HandlerFunc(app.scheduleDiscardPOST)))
	mux.Handle("GET /schedule", session(http.HandlerFunc(app.scheduleGET)))

	return mux
}
