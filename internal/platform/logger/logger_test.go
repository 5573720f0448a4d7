package logger_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/hotel_booking/internal/platform/logger"
)

func Test_New_JSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer

	l, err := logger.New(&buf, "warn", "json")
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("cache unavailable", "room_type_id", 7)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"cache unavailable"`)
	assert.Contains(t, out, `"room_type_id":7`)
}

func Test_New_Text(t *testing.T) {
	var buf bytes.Buffer

	l, err := logger.New(&buf, "debug", "text")
	require.NoError(t, err)

	l.Debug("tx retry", "attempt", 2)
	assert.Contains(t, buf.String(), "attempt=2")
}

func Test_New_RejectsUnknownSettings(t *testing.T) {
	_, err := logger.New(&bytes.Buffer{}, "loud", "json")
	assert.Error(t, err)

	_, err = logger.New(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}
