package sigsock

import (
	"fmt"
	"log"
	"strings"
)

// LoggerLevel orders log messages by severity.
type LoggerLevel int

const (
	LogDebug LoggerLevel = iota
	LogInfo
	LogWarning
	LogError
)

var levelNames = [...]string{
	LogDebug:   "debug",
	LogInfo:    "info",
	LogWarning: "warning",
	LogError:   "error",
}

func (l LoggerLevel) String() string {
	if l < LogDebug || l > LogError {
		return "unknown"
	}
	return levelNames[l]
}

// ParseLoggerLevel accepts the level names, case-insensitive, plus "warn". "" is info.
func ParseLoggerLevel(s string) (LoggerLevel, error) {
	switch name := strings.ToLower(s); name {
	case "":
		return LogInfo, nil
	case "warn":
		return LogWarning, nil
	default:
		for level, levelName := range levelNames {
			if levelName == name {
				return LoggerLevel(level), nil
			}
		}
	}
	return LogInfo, fmt.Errorf("unknown log level %q", s)
}

// Logger receives everything the Socket reports. kind names the component, such as "socket" or "heartbeat".
type Logger interface {
	Print(level LoggerLevel, kind string, v ...any)
	Println(level LoggerLevel, kind string, v ...any)
	Printf(level LoggerLevel, kind string, format string, v ...any)
}

// NoopLogger discards everything. It is the Socket default.
type NoopLogger struct{}

func NewNoopLogger() *NoopLogger {
	return &NoopLogger{}
}

func (*NoopLogger) Print(LoggerLevel, string, ...any)          {}
func (*NoopLogger) Println(LoggerLevel, string, ...any)        {}
func (*NoopLogger) Printf(LoggerLevel, string, string, ...any) {}

// CustomLogger writes lines like "[INFO] <socket> Connected to ..." to a *log.Logger, skipping anything
// below its level.
type CustomLogger struct {
	level  LoggerLevel
	logger *log.Logger
}

func NewCustomLogger(level LoggerLevel, logger *log.Logger) *CustomLogger {
	return &CustomLogger{level: level, logger: logger}
}

// NewSimpleLogger logs to log.Default().
func NewSimpleLogger(level LoggerLevel) *CustomLogger {
	return NewCustomLogger(level, log.Default())
}

func (l *CustomLogger) prefix(level LoggerLevel, kind string) string {
	tag := "UNK"
	if level >= LogDebug && level <= LogError {
		tag = strings.ToUpper(levelNames[level])
	}
	return "[" + tag + "] <" + kind + ">"
}

func (l *CustomLogger) Print(level LoggerLevel, kind string, v ...any) {
	if level < l.level {
		return
	}
	l.logger.Print(l.prefix(level, kind) + " " + fmt.Sprint(v...))
}

func (l *CustomLogger) Println(level LoggerLevel, kind string, v ...any) {
	if level < l.level {
		return
	}
	l.logger.Println(append([]any{l.prefix(level, kind)}, v...)...)
}

func (l *CustomLogger) Printf(level LoggerLevel, kind string, format string, v ...any) {
	if level < l.level {
		return
	}
	l.logger.Printf(l.prefix(level, kind)+" "+format, v...)
}
