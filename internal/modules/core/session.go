package core

import (
	"context"
)

type ContextKey string

const SessionContextKey ContextKey = "session"

// ContextSession identifies the user acting on a request.
type ContextSession struct {
	UserID int64
}

func WithSession(ctx context.Context, session ContextSession) context.Context {
	return context.WithValue(ctx, SessionContextKey, session)
}

func Session(ctx context.Context) ContextSession {
	rawVal := ctx.Value(SessionContextKey)

	if rawVal == nil {
		return ContextSession{}
	}

	session, ok := rawVal.(ContextSession)
	if !ok {
		return ContextSession{}
	}

	return session
}
