package notify_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/nikolayk812/storefront-cart/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestConsole(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	var alerts bytes.Buffer

	c := notify.NewConsole(zap.New(core), &alerts)

	c.Alert("Out of stock")
	c.Log("Quantity updated successfully", map[string]any{"newQuantity": float64(5)})
	c.LogError("Error", errors.New("connection refused"))

	assert.Equal(t, "Out of stock\n", alerts.String())

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)

	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "Out of stock", entries[0].ContextMap()["message"])

	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, "Quantity updated successfully", entries[1].Message)
	assert.Equal(t, map[string]any{"newQuantity": float64(5)}, entries[1].ContextMap()["data"])

	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "connection refused", entries[2].ContextMap()["error"])
}

func TestConsole_NilDependencies(t *testing.T) {
	c := notify.NewConsole(nil, nil)

	assert.NotPanics(t, func() {
		c.Alert("x")
		c.Log("y", nil)
		c.LogError("z", nil)
	})
}

func TestRecorder(t *testing.T) {
	r := notify.NewRecorder()
	err := errors.New("boom")

	r.Alert("a")
	r.Log("l", 1)
	r.LogError("e", err)

	assert.Equal(t, []string{"a"}, r.Alerts())
	assert.Equal(t, []notify.Entry{{Message: "l", Data: 1}}, r.Logs())
	assert.Equal(t, []notify.Entry{{Message: "e", Err: err}}, r.Errors())
}
