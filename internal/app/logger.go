package app

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger writes JSON lines to a rotated log file. The TUI owns stdout for
// the duration of the program, so nothing may log there.
type Logger struct {
	zl *zap.Logger
}

func NewLogger(path string) *Logger {
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     30, // days
		Compress:   true,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"
	encoderConfig.LevelKey = "level"
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(rotator),
		zap.InfoLevel,
	)

	return &Logger{zl: zap.New(core)}
}

// NewNopLogger discards everything; used in tests.
func NewNopLogger() *Logger {
	return &Logger{zl: zap.NewNop()}
}

func (l *Logger) Info(module, message string, details map[string]interface{}) {
	l.zl.Info(message, zap.String("module", module), zap.Any("details", details))
}

func (l *Logger) Warn(module, message string, details map[string]interface{}) {
	l.zl.Warn(message, zap.String("module", module), zap.Any("details", details))
}

func (l *Logger) Error(module, message string, details map[string]interface{}) {
	l.zl.Error(message, zap.String("module", module), zap.Any("details", details))
}

func (l *Logger) Sync() error {
	return l.zl.Sync()
}
