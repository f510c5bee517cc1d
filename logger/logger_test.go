package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestInitDefaultsToProduction(t *testing.T) {
	t.Setenv("DOODLEQUEST_ENV", "")
	Init()

	if Log == nil {
		t.Fatal("Init must set the global logger")
	}
	if Log.Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Error("The production logger must not emit debug lines")
	}
}

func TestInitDevelopmentEnablesDebug(t *testing.T) {
	t.Setenv("DOODLEQUEST_ENV", "development")
	Init()

	if !Log.Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Error("The development logger must emit debug lines")
	}
}
