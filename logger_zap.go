package sigsock

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger sends log lines to a zap.Logger, with kind as a "kind" field.
type ZapLogger struct {
	logger *zap.Logger
}

func NewZapLogger(logger *zap.Logger) *ZapLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapLogger{logger: logger}
}

func (l *ZapLogger) zapLevel(level LoggerLevel) zapcore.Level {
	switch level {
	case LogDebug:
		return zapcore.DebugLevel
	case LogInfo:
		return zapcore.InfoLevel
	case LogWarning:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

func (l *ZapLogger) write(level LoggerLevel, kind string, msg string) {
	if ce := l.logger.Check(l.zapLevel(level), msg); ce != nil {
		ce.Write(zap.String("kind", kind))
	}
}

func (l *ZapLogger) Print(level LoggerLevel, kind string, v ...any) {
	l.write(level, kind, fmt.Sprint(v...))
}

func (l *ZapLogger) Println(level LoggerLevel, kind string, v ...any) {
	msg := fmt.Sprintln(v...)
	l.write(level, kind, msg[:len(msg)-1])
}

func (l *ZapLogger) Printf(level LoggerLevel, kind string, format string, v ...any) {
	l.write(level, kind, fmt.Sprintf(format, v...))
}

// SlogLogger sends log lines to a slog.Logger, with kind as a "kind" attribute.
type SlogLogger struct {
	logger *slog.Logger
}

func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogLogger{logger: logger}
}

func (l *SlogLogger) slogLevel(level LoggerLevel) slog.Level {
	switch level {
	case LogDebug:
		return slog.LevelDebug
	case LogInfo:
		return slog.LevelInfo
	case LogWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

func (l *SlogLogger) write(level LoggerLevel, kind string, msg string) {
	l.logger.Log(context.Background(), l.slogLevel(level), msg, "kind", kind)
}

func (l *SlogLogger) Print(level LoggerLevel, kind string, v ...any) {
	l.write(level, kind, fmt.Sprint(v...))
}

func (l *SlogLogger) Println(level LoggerLevel, kind string, v ...any) {
	msg := fmt.Sprintln(v...)
	l.write(level, kind, msg[:len(msg)-1])
}

func (l *SlogLogger) Printf(level LoggerLevel, kind string, format string, v ...any) {
	l.write(level, kind, fmt.Sprintf(format, v...))
}
