package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipefinder/internal/config"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestSetupTextOnly(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	shutdown, err := setup(t.Context(), config.LoggingConfig{Level: "warn"}, &buf)
	require.NoError(t, err)

	slog.Info("hidden")
	slog.Warn("shown", "id", "52772")
	require.NoError(t, shutdown(context.Background()))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "id=52772")
}

func TestSetupRejectsBadLevel(t *testing.T) {
	_, err := setup(t.Context(), config.LoggingConfig{Level: "chatty"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestFanoutRespectsEachLevel(t *testing.T) {
	var debug, warn bytes.Buffer
	h := Fanout(
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&warn, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	logger := slog.New(h).With("component", "search").WithGroup("req")

	logger.Debug("detail", "q", "pie")
	logger.Warn("slow", "ms", 900)

	assert.Contains(t, debug.String(), "msg=detail")
	assert.Contains(t, debug.String(), "msg=slow")
	assert.NotContains(t, warn.String(), "detail")
	assert.Contains(t, warn.String(), "component=search")
	assert.Contains(t, warn.String(), "req.ms=900")
}

func TestFanoutSingleHandlerUnwrapped(t *testing.T) {
	h := slog.NewTextHandler(&bytes.Buffer{}, nil)
	assert.Equal(t, slog.Handler(h), Fanout(h))
}
