package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSetLevel(t *testing.T) {
	t.Run("sets debug level", func(t *testing.T) {
		SetLevel("debug")
		require.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	})

	t.Run("sets info level", func(t *testing.T) {
		SetLevel("info")
		require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	})

	t.Run("sets warn level", func(t *testing.T) {
		SetLevel("warn")
		require.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
	})

	t.Run("sets error level", func(t *testing.T) {
		SetLevel("error")
		require.Equal(t, zerolog.ErrorLevel, zerolog.GlobalLevel())
	})

	t.Run("defaults to info for unknown level", func(t *testing.T) {
		SetLevel("unknown")
		require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	})

	// Reset to debug for other tests.
	SetLevel("debug")
}

func TestSetJSON(t *testing.T) {
	original := Log
	defer func() { Log = original }()

	SetJSON()
	require.NotNil(t, Log)
}

func TestWithInteraction(t *testing.T) {
	original := Log
	defer func() { Log = original }()

	var buf bytes.Buffer
	Log = zerolog.New(&buf)

	ctx := WithInteraction(context.Background(), "abc-123", 42)
	Ctx(ctx).Info().Msg("hello")

	out := buf.String()
	require.Contains(t, out, `"interaction_id":"abc-123"`)
	require.Contains(t, out, `"chat_hash":"`+HashChatID(42)+`"`)
	require.NotContains(t, out, `"42"`)
}

func TestCtxFallsBackToGlobal(t *testing.T) {
	original := Log
	defer func() { Log = original }()

	var buf bytes.Buffer
	Log = zerolog.New(&buf)

	Ctx(context.Background()).Info().Msg("fallback")
	require.Contains(t, buf.String(), "fallback")
}
