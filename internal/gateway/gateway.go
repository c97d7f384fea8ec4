// Package gateway wraps remote data calls with a fallback to local data.
//
// Every data service of the platform answers with a models.Envelope and the
// gateway branches solely on its Success flag. Remote failures are logged and
// absorbed here; callers always receive usable data. The AI assistant does not
// go through this package.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/khrees2412/hirepipe/pkg/models"
)

var (
	ErrUnsuccessful = errors.New("remote call reported failure")
	ErrEmptyPayload = errors.New("remote call returned no data")
)

// Source tells where an Outcome value came from
type Source int

const (
	SourceRemote Source = iota
	SourceFallback
)

func (s Source) String() string {
	if s == SourceRemote {
		return "remote"
	}
	return "fallback"
}

// Outcome is a value together with its origin
type Outcome[T any] struct {
	Value  T
	Source Source
}

// Remote wraps a value returned by the server
func Remote[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v, Source: SourceRemote}
}

// LocalFallback wraps a value synthesized locally
func LocalFallback[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v, Source: SourceFallback}
}

// FromRemote reports whether the value came from the server
func (o Outcome[T]) FromRemote() bool {
	return o.Source == SourceRemote
}

// RemoteCall performs one request against a platform service
type RemoteCall[T any] func(ctx context.Context) (models.Envelope[T], error)

// FallbackFactory produces the local substitute for a failed call
type FallbackFactory[T any] func() (T, error)

// Gateway carries the logger and the offline switch shared by all data services
type Gateway struct {
	logger  *slog.Logger
	offline bool
}

// New creates a gateway. With offline set, remote calls are skipped entirely.
func New(logger *slog.Logger, offline bool) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{logger: logger, offline: offline}
}

// Offline reports whether remote calls are disabled
func (g *Gateway) Offline() bool {
	return g.offline
}

// Logger returns the gateway logger
func (g *Gateway) Logger() *slog.Logger {
	return g.logger
}

// Fetch invokes remote and returns its payload when the envelope reports success.
// Any other result is logged and replaced by fallback(). The only error Fetch
// returns is the one produced by fallback itself.
func Fetch[T any](ctx context.Context, g *Gateway, op string, remote RemoteCall[T], fallback FallbackFactory[T]) (Outcome[T], error) {
	if !g.offline {
		v, err := invoke(ctx, remote)
		if err == nil {
			return Remote(v), nil
		}
		g.logger.Warn("remote call failed, using fallback data", "op", op, "error", err)
	} else {
		g.logger.Debug("offline mode, using fallback data", "op", op)
	}

	v, err := fallback()
	if err != nil {
		return Outcome[T]{}, fmt.Errorf("%s: %w", op, err)
	}
	return LocalFallback(v), nil
}

func invoke[T any](ctx context.Context, remote RemoteCall[T]) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("remote call panicked: %v", r)
		}
	}()

	env, err := remote(ctx)
	if err != nil {
		return v, err
	}
	if !env.Success {
		if env.Message != "" {
			return v, fmt.Errorf("%w: %s", ErrUnsuccessful, env.Message)
		}
		return v, ErrUnsuccessful
	}
	if env.Data == nil {
		return v, ErrEmptyPayload
	}
	return *env.Data, nil
}
