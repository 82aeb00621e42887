package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"":        zerolog.InfoLevel,
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"bananas": zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestPackageLoggerFollowsInit(t *testing.T) {
	logger := NewPackageLogger("orders")

	var buf bytes.Buffer
	InitWriter("info", "json", &buf)
	t.Cleanup(func() { Init("info", "json") })

	logger.Debug().Msg("hidden")
	logger.Info().Str(ORDER_ID, "o-1").Msg("order placed")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "orders", line[PACKAGE])
	assert.Equal(t, "o-1", line[ORDER_ID])
	assert.Equal(t, "order placed", line["message"])
	assert.Equal(t, "info", line["level"])
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	InitWriter("debug", "console", &buf)
	t.Cleanup(func() { Init("info", "json") })

	l := NewPackageLogger("cart")
	l.Debug().Msg("loaded")
	assert.Contains(t, buf.String(), "loaded")
	assert.Contains(t, buf.String(), "pkg=cart")
}
