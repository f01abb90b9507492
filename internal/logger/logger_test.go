package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_JSONWithService(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Service: "travel-actions", Output: &buf})
	log.Debug().Str("function", "get_weather").Msg("action invoked")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "debug", line["level"])
	require.Equal(t, "travel-actions", line["service"])
	require.Equal(t, "get_weather", line["function"])
	require.Equal(t, "action invoked", line["message"])
	require.NotEmpty(t, line["time"])
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "WARN", Output: &buf})
	log.Info().Msg("hidden")
	require.Zero(t, buf.Len())

	log.Warn().Msg("shown")
	require.Contains(t, buf.String(), "shown")
}

func TestNew_UnknownLevelIsInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "chatty", Output: &buf})
	log.Debug().Msg("hidden")
	require.Zero(t, buf.Len())
	log.Info().Msg("shown")
	require.NotZero(t, buf.Len())
}

func TestNew_Pretty(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Pretty: true, Output: &buf})
	log.Info().Msg("hello")
	require.Contains(t, buf.String(), "hello")
	require.False(t, json.Valid(buf.Bytes()))
}
