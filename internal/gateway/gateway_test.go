package gateway

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/khrees2412/hirepipe/pkg/models"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(offline bool) (*Gateway, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(logger, offline), buf
}

func fixedFallback(v []string) FallbackFactory[[]string] {
	return func() ([]string, error) { return v, nil }
}

func TestFetchRemoteSuccess(t *testing.T) {
	g, logs := newTestGateway(false)

	out, err := Fetch(context.Background(), g, "list", func(ctx context.Context) (models.Envelope[[]string], error) {
		return models.OK([]string{"remote"}), nil
	}, fixedFallback([]string{"fallback"}))

	require.NoError(t, err)
	assert.True(t, out.FromRemote())
	assert.Equal(t, []string{"remote"}, out.Value)
	assert.Empty(t, logs.String())
}

func TestFetchFallsBack(t *testing.T) {
	tests := []struct {
		name   string
		remote RemoteCall[[]string]
	}{
		{
			name: "transport error",
			remote: func(ctx context.Context) (models.Envelope[[]string], error) {
				return models.Envelope[[]string]{}, errors.New("connection refused")
			},
		},
		{
			name: "unsuccessful envelope",
			remote: func(ctx context.Context) (models.Envelope[[]string], error) {
				return models.Failed[[]string]("boom"), nil
			},
		},
		{
			name: "success without payload",
			remote: func(ctx context.Context) (models.Envelope[[]string], error) {
				return models.Envelope[[]string]{Success: true}, nil
			},
		},
		{
			name: "panic",
			remote: func(ctx context.Context) (models.Envelope[[]string], error) {
				panic("nil map")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, logs := newTestGateway(false)

			out, err := Fetch(context.Background(), g, "list", tt.remote, fixedFallback([]string{"fallback"}))

			require.NoError(t, err)
			assert.Equal(t, SourceFallback, out.Source)
			assert.Equal(t, []string{"fallback"}, out.Value)
			assert.Contains(t, logs.String(), "level=WARN")
			assert.Contains(t, logs.String(), "op=list")
		})
	}
}

func TestFetchOfflineSkipsRemote(t *testing.T) {
	g, _ := newTestGateway(true)
	called := false

	out, err := Fetch(context.Background(), g, "list", func(ctx context.Context) (models.Envelope[[]string], error) {
		called = true
		return models.OK([]string{"remote"}), nil
	}, fixedFallback([]string{"fallback"}))

	require.NoError(t, err)
	assert.False(t, called)
	assert.False(t, out.FromRemote())
}

func TestFetchPropagatesFallbackError(t *testing.T) {
	g, _ := newTestGateway(false)
	boom := errors.New("no demo data")

	_, err := Fetch(context.Background(), g, "list", func(ctx context.Context) (models.Envelope[int], error) {
		return models.Envelope[int]{}, errors.New("down")
	}, func() (int, error) { return 0, boom })

	assert.ErrorIs(t, err, boom)
}

func TestFetchFallbackGuarantee(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("failed remote calls always yield the fallback value", prop.ForAll(
		func(fallback int, message string, throw bool) bool {
			g := New(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), false)
			remote := func(ctx context.Context) (models.Envelope[int], error) {
				if throw {
					return models.Envelope[int]{}, errors.New(message)
				}
				return models.Failed[int](message), nil
			}
			out, err := Fetch(context.Background(), g, "prop", remote, func() (int, error) { return fallback, nil })
			return err == nil && out.Value == fallback && out.Source == SourceFallback
		},
		gen.Int(),
		gen.AlphaString(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
