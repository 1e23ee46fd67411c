package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	cases := []struct {
		level   string
		verbose bool
		want    zapcore.Level
	}{
		{"", false, zapcore.InfoLevel},
		{"warn", false, zapcore.WarnLevel},
		{"ERROR", false, zapcore.ErrorLevel},
		{"warn", true, zapcore.DebugLevel},
	}
	for _, tc := range cases {
		log, err := New(tc.level, false, tc.verbose)
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(tc.want), "level %q", tc.level)
		if tc.want > zapcore.DebugLevel {
			assert.False(t, log.Core().Enabled(tc.want-1), "level %q", tc.level)
		}
	}
}

func TestNewJSON(t *testing.T) {
	log, err := New("info", true, false)
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("chatty", false, false)
	assert.Error(t, err)
}
