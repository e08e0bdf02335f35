package logger

import (
	"fmt"
	"io"
	"satori/common/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LogLevelTrace = 0
	LogLevelDebug = 1
	LogLevelInfo  = 2
	LogLevelWarn  = 3
	LogLevelError = 4
)

var (
	logLevel = LogLevelInfo
	log      = newDevelopmentLogger()
)

func newDevelopmentLogger() *zap.SugaredLogger {
	l, err := zap.NewDevelopment(zap.AddCallerSkip(2))
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

func GetLevel() int {
	return logLevel
}

func Trace(format string, values ...any) {
	logPrint(LogLevelTrace, format, values...)
}

func Debug(format string, values ...any) {
	logPrint(LogLevelDebug, format, values...)
}

func Info(format string, values ...any) {
	logPrint(LogLevelInfo, format, values...)
}

func Warn(format string, values ...any) {
	logPrint(LogLevelWarn, format, values...)
}

// Error logs message and returns it as an error, so it can be used as `return logger.Error(...)`
func Error(format string, values ...any) error {
	logPrint(LogLevelError, format, values...)
	return fmt.Errorf(format, values...)
}

func Panic(format string, values ...any) {
	logPrint(LogLevelError, format, values...)
	panic(fmt.Errorf(format, values...))
}

type logWriter struct {
	level  int
	prefix string
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	logPrint(w.level, "%s %s", w.prefix, string(p))
	return len(p), nil
}

// CreateWriter wraps logger into io.Writer, used for gin logs
func CreateWriter(level int, prefix string) io.Writer {
	return &logWriter{
		level:  level,
		prefix: prefix,
	}
}

func InitLogger(config *config.Config) {
	logLevel = LogLevelInfo
	if config.LogLevel != nil {
		logLevel = *config.LogLevel
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Encoding = "console"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	// levels are filtered by logPrint, zap should pass everything through
	zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	zapConfig.DisableStacktrace = true
	if config.LogPath != nil {
		zapConfig.OutputPaths = []string{*config.LogPath + ".log"}
		zapConfig.ErrorOutputPaths = []string{*config.LogPath + ".err"}
	}

	l, err := zapConfig.Build(zap.AddCallerSkip(2))
	if err != nil {
		panic(err)
	}
	log = l.Sugar()

	Info("Logger is successfully initialized")
}

// Sync flushes buffered log entries, should be called before process exit
func Sync() {
	_ = log.Sync()
}
