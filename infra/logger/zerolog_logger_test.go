package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerMethods(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	l := NewZerologLogger("test")
	if l == nil {
		t.Fatalf("nil logger")
	}
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
}

func TestZerologLoggerComponentField(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	var buf bytes.Buffer
	l := NewZerologLoggerWithWriter(&buf, "registry")
	l.Warnf("vehicle %s rejected", "V1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "registry", line["component"])
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "vehicle V1 rejected", line["message"])
}

func TestZerologLoggerLevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	var buf bytes.Buffer
	l := NewZerologLoggerWithWriter(&buf, "allocation")
	l.Infof("dropped")
	assert.Zero(t, buf.Len())
	l.Errorf("kept")
	assert.Contains(t, buf.String(), "kept")
}
