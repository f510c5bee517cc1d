package logger

import (
	"os"

	"go.uber.org/zap"
)

// Log is the process-wide sugared logger. Init must run before anything logs.
var Log *zap.SugaredLogger

// Init builds the global logger. Setting DOODLEQUEST_ENV=development switches
// to the human-readable console encoder with debug level enabled; anything
// else gets the JSON production encoder at info level.
func Init() {
	cfg := zap.NewProductionConfig()
	if os.Getenv("DOODLEQUEST_ENV") == "development" {
		cfg = zap.NewDevelopmentConfig()
	}

	l, err := cfg.Build()
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	Log = l.Sugar()
}
