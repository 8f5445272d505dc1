package logger

import (
	"go.uber.org/zap"
)

// Log is safe to use before Init; it discards everything until a
// real logger is installed.
var Log = zap.NewNop().Sugar()

func Init() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	Log = logger.Sugar()
}

// InitDevelopment swaps in a human-readable logger for local runs and
// tests.
func InitDevelopment() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	Log = logger.Sugar()
}

// Sync flushes buffered entries; call on shutdown.
func Sync() {
	if Log != nil {
		Log.Sync()
	}
}
