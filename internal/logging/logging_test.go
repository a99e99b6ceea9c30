package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel(" DEBUG "))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestConfigure_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{Level: "debug", JSON: true, Output: &buf})
	defer Configure(Options{})

	L().Debug("hello", "k", 1)
	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"k":1`)
}

func TestConfigure_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{Level: "warn", Output: &buf})
	defer Configure(Options{})

	L().Info("dropped")
	L().Warn("kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestInitFromEnv(t *testing.T) {
	t.Setenv("SPEKTR_VIZ__LOG__LEVEL", "debug")
	t.Setenv("SPEKTR_VIZ__LOG__JSON", "true")
	InitFromEnv()
	defer Configure(Options{})

	assert.True(t, L().Enabled(context.Background(), slog.LevelDebug))
	_, isJSON := L().Handler().(*slog.JSONHandler)
	assert.True(t, isJSON)
}
