// Package logger holds the process-wide structured logger.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Standard field names so handlers and background jobs log the same keys.
const (
	FieldSessionID = "session_id"
	FieldCategory  = "category"
	FieldPath      = "path"
	FieldMethod    = "method"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldClient    = "client"
	FieldError     = "error"
	FieldFile      = "file"
	FieldCount     = "count"
)

// Logger is the global sugared logger. It is a no-op until Initialize runs.
var Logger *zap.SugaredLogger

func init() {
	Logger = zap.NewNop().Sugar()
}

// Initialize replaces the global logger. JSON output is meant for production
// deployments; the console encoder is for local development.
func Initialize(jsonOutput bool, debug bool) error {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	var zapLogger *zap.Logger
	if jsonOutput {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(level)
		config.OutputPaths = []string{"stdout"}
		config.ErrorOutputPaths = []string{"stderr"}
		built, err := config.Build()
		if err != nil {
			return err
		}
		zapLogger = built
	} else {
		encoderConfig := zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
		zapLogger = zap.New(
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(encoderConfig),
				zapcore.AddSync(os.Stdout),
				level,
			),
		)
	}

	Logger = zapLogger.Sugar()
	return nil
}

// Named returns a child of the global logger tagged with a component name.
func Named(component string) *zap.SugaredLogger {
	return Logger.Named(component)
}

// Sync flushes buffered log entries. Errors from syncing stdout are ignored.
func Sync() {
	_ = Logger.Sync()
}

// Disable discards all further log output. Full-screen terminal programs
// call it so log lines don't draw over the UI.
func Disable() {
	Logger = zap.NewNop().Sugar()
}
