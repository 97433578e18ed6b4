package contexthelpers

import (
	"context"
	"net/http"
)

func SetCurrentUserID(r *http.Request, userID int) *http.Request {
	ctx := context.WithValue(r.Context(), CurrentUserIDContextKey, userID)
	return r.WithContext(ctx)
}

func SetCurrentPath(r *http.Request, currentPath string) *http.Request {
	ctx := context.WithValue(r.Context(), CurrentPathContextKey, currentPath)
	return r.WithContext(ctx)
}
