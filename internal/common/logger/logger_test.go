// internal/common/logger/logger_test.go
package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARN":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"info":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestZapWrapper_FieldsAndErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).
		WithFields(map[string]interface{}{"taskType": "score-partnership-pair"})

	log.Info("scored", map[string]interface{}{"score": 80})
	log.WithError(errors.New("boom")).Error("failed", nil)
	log.Warn("cache miss", map[string]interface{}{"error": errors.New("nil")})

	entries := logs.All()
	assert.Len(t, entries, 3)
	assert.Equal(t, "score-partnership-pair", entries[0].ContextMap()["taskType"])
	assert.EqualValues(t, 80, entries[0].ContextMap()["score"])
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
	assert.Equal(t, "nil", entries[2].ContextMap()["error"])
}

func TestNewNoOpLogger(t *testing.T) {
	log := NewNoOpLogger()
	assert.NotPanics(t, func() {
		log.With(map[string]interface{}{"a": 1}).Debug("ignored", nil)
	})
}
