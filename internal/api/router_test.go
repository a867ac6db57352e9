package api

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athebyme/storefront-service/internal/adapters/logger"
)

// spyLogger записывает предупреждения для проверок в тестах.
type spyLogger struct {
	warnings []string
}

func (l *spyLogger) Debug(msg string, fields ...logger.Field) {}
func (l *spyLogger) Info(msg string, fields ...logger.Field)  {}
func (l *spyLogger) Warn(msg string, fields ...logger.Field) {
	l.warnings = append(l.warnings, msg)
}
func (l *spyLogger) Error(msg string, fields ...logger.Field) {}
func (l *spyLogger) Fatal(msg string, fields ...logger.Field) {}

func (l *spyLogger) InfoWithContext(ctx context.Context, msg string, fields ...logger.Field)  {}
func (l *spyLogger) ErrorWithContext(ctx context.Context, msg string, fields ...logger.Field) {}

func (l *spyLogger) With(fields ...logger.Field) logger.Logger { return l }
func (l *spyLogger) Sync() error                               { return nil }

func TestSetupRouter_WarnsWhenWebhookSecretUnset(t *testing.T) {
	log := &spyLogger{}

	router := SetupRouter(RouterDeps{
		WebhookSecret: "",
		Logger:        log,
	})

	require.NotNil(t, router)
	assert.Len(t, log.warnings, 1)
}

func TestSetupRouter_SilentWhenWebhookSecretSet(t *testing.T) {
	log := &spyLogger{}

	router := SetupRouter(RouterDeps{
		WebhookSecret: "wh-secret",
		Logger:        log,
	})

	require.NotNil(t, router)
	assert.Empty(t, log.warnings)
}
