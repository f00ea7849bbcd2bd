package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesChannelAndMessage(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "scheduler")

	l.Info("armed ticker with period %s", "1s")

	out := buf.String()
	assert.Contains(t, out, `"channel":"scheduler"`)
	assert.Contains(t, out, `"level":"info"`)
	assert.Contains(t, out, "armed ticker with period 1s")
}

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "").With("42")

	l.Warn("stale timer %s", "abc")

	assert.Contains(t, buf.String(), `"channel":"42"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestSetLevel(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	require.NoError(t, SetLevel("warn"))

	var buf bytes.Buffer
	l := NewWithWriter(&buf, "")
	l.Info("hidden")
	l.Error("visible")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible")

	assert.Error(t, SetLevel("loud"))
}

func TestSetGlobal(t *testing.T) {
	prev := Global
	t.Cleanup(func() { SetGlobal(prev) })

	var buf bytes.Buffer
	SetGlobal(NewWithWriter(&buf, "main"))
	Global.Info("starting")

	assert.Contains(t, buf.String(), `"channel":"main"`)
	assert.Contains(t, buf.String(), "starting")
}
