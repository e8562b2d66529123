package logging

import (
	"testing"

	"tableview/internal/config"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewHonoursLevel(t *testing.T) {
	logger, err := New(config.Config{LogLevel: "warn", LogFormat: "console"}, "test")
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	require.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestNewBadLevelFallsBackToInfo(t *testing.T) {
	logger := Must(config.Config{LogLevel: "loud"}, "test")
	require.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	require.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}
