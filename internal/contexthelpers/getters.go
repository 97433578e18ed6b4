package contexthelpers

import (
	"context"
)

// CurrentUserID returns the user that owns the data touched by this request.
// Returns 0 when no user has been resolved.
func CurrentUserID(ctx context.Context) int {
	userID, ok := ctx.Value(CurrentUserIDContextKey).(int)
	if !ok {
		return 0
	}

	return userID
}

func CurrentPath(ctx context.Context) string {
	currentPath, ok := ctx.Value(CurrentPathContextKey).(string)
	if !ok {
		return ""
	}

	return currentPath
}
