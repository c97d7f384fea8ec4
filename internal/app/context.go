package app

import (
	"context"
	"errors"
)

type ctxKey struct{}

// ErrNoApp is returned by FromContext when no App was attached
var ErrNoApp = errors.New("application not initialized")

// WithApp returns a copy of ctx carrying a
func WithApp(ctx context.Context, a *App) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// FromContext returns the App attached by WithApp
func FromContext(ctx context.Context) (*App, error) {
	if a, ok := ctx.Value(ctxKey{}).(*App); ok && a != nil {
		return a, nil
	}
	return nil, ErrNoApp
}
