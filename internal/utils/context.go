package utils

import (
	"context"
)

type contextKey string

const ContextUserIDKey contextKey = "userID"
const ContextSessionTokenKey contextKey = "sessionToken"

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID := ctx.Value(ContextUserIDKey)
	userIDStr, ok := userID.(string)
	return userIDStr, ok
}

func GetSessionTokenFromContext(ctx context.Context) (string, bool) {
	token := ctx.Value(ContextSessionTokenKey)
	tokenStr, ok := token.(string)
	return tokenStr, ok
}
