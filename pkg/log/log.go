package log

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strings"
	"sync"
	"time"

	contextPkg "ProjectTryOn/pkg/context"
	"golang.org/x/net/context"
	"gopkg.in/natefinch/lumberjack.v2"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	logger *logrus.Logger
	once   sync.Once
)

const (
	RequestIDKey    = contextPkg.RequestIDKey
	ConnectionIDKey = contextPkg.ConnectionIDKey
)

type Fields = logrus.Fields

func NewLogger() *logrus.Logger {
	once.Do(func() {
		logger = logrus.New()
		logger.SetLevel(levelFromEnv())

		logger.SetFormatter(&formatter.Formatter{
			NoColors:        os.Getenv("LOG_NO_COLOR") != "",
			TimestampFormat: "02 Jan 06 - 15:04:05",
			HideKeys:        false,
			CallerFirst:     true,
			FieldsOrder:     []string{ConnectionIDKey, RequestIDKey, "trace_id"},
			CustomCallerFormatter: func(f *runtime.Frame) string {
				s := strings.Split(f.Function, ".")
				funcName := s[len(s)-1]
				return fmt.Sprintf(" \x1b[%dm[%s:%d][%s()]", 34, path.Base(f.File), f.Line, funcName)
			},
		})

		writers := []io.Writer{os.Stderr}

		if os.Getenv("APP_ENV") != "test" {
			fileWriter := &lumberjack.Logger{
				Filename:   fmt.Sprintf("./storage/logs/tryon-%s.log", time.Now().Format("2006-01-02")),
				LocalTime:  true,
				Compress:   true,
				MaxSize:    100,
				MaxAge:     7,
				MaxBackups: 3,
			}
			writers = append(writers, fileWriter)
		}

		logger.SetOutput(io.MultiWriter(writers...))
		logger.SetReportCaller(true)
	})

	return logger
}

func levelFromEnv() logrus.Level {
	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return logrus.DebugLevel
	}
	return level
}

func Info(fields Fields, msg string) {
	NewLogger().WithFields(withDefaults(fields)).Info(msg)
}

func Warn(fields Fields, msg string) {
	NewLogger().WithFields(withDefaults(fields)).Warn(msg)
}

func Error(fields Fields, msg string) {
	NewLogger().WithFields(withDefaults(fields)).Error(msg)
}

// ErrorWithTraceID logs msg and returns the trace id attached to it. The request or
// connection id is reused as trace id when present.
func ErrorWithTraceID(fields Fields, msg string) string {
	fields = withDefaults(fields)

	var traceID string
	if reqID, ok := fields[RequestIDKey].(string); ok && reqID != "" {
		traceID = reqID
	} else if connID, ok := fields[ConnectionIDKey].(string); ok && connID != "" {
		traceID = connID
	} else {
		id, err := uuid.NewRandom()
		if err != nil {
			Error(Fields{
				"error": err.Error(),
			}, "[log.ErrorWithTraceID] failed to generate trace ID")
			traceID = "unknown"
		} else {
			traceID = id.String()
		}
	}

	fields["trace_id"] = traceID
	NewLogger().WithFields(fields).Error(msg)

	return traceID
}

func withDefaults(fields Fields) Fields {
	if fields == nil {
		return Fields{}
	}
	return fields
}

func WithConnectionID(ctx context.Context) *logrus.Entry {
	connectionID := "unknown"
	if ctx != nil {
		connectionID = contextPkg.GetConnectionID(ctx)
	}

	return NewLogger().WithField(ConnectionIDKey, connectionID)
}
