package security

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "j***@example.com", MaskEmail("jane@example.com"))
	assert.Equal(t, "***@b.co", MaskEmail("a@b.co"))
	assert.Equal(t, "***", MaskEmail("ab"))
	assert.Equal(t, "***", MaskEmail("johnsmith-no-at"))
}

func TestLogUnauthorized(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sl := NewSecurityLogger(zap.New(core), "job-tracker", "test")

	sl.LogUnauthorized(context.Background(), "10.0.0.1", "curl/8", "req-1", "invalid_token")

	entries := logs.All()
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "unauthorized_access", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "10.0.0.1", fields["ip"])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, `{"reason":"invalid_token"}`, fields["details"])
}

func TestLoginEventsHidePII(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sl := NewSecurityLogger(zap.New(core), "job-tracker", "test")

	sl.LogLoginFailed(context.Background(), "jane@example.com", "10.0.0.1", "ua", "invalid credentials")
	sl.LogLoginSuccess(context.Background(), "user-123", "10.0.0.1", "ua")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "j***@example.com", entries[0].ContextMap()["subject_value"])
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, HashValue("user-123"), entries[1].ContextMap()["subject_value"])
	assert.NotContains(t, entries[1].ContextMap()["subject_value"], "user-123")
}
