package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/lojf/kidsdesk/internal/config"
)

func TestNew(t *testing.T) {
	log, err := New(&config.LogConfig{Level: "warn", Format: "console"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if log.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be filtered at warn level")
	}
	if !log.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("error should pass at warn level")
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, err := New(&config.LogConfig{Level: "loud"}); err == nil {
		t.Error("want error for unknown level")
	}
}
