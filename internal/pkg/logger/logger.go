package logger

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the application logger.
// Dev mode logs human-readable text, prod mode logs JSON.
func New(mode, level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if mode == "prod" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	return log
}

// Discard returns a logger that drops everything, for tests
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type requestIDKey struct{}

// WithRequestID attaches a request id to ctx for audit lines
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Audit returns an entry tagged as an audit event
func Audit(ctx context.Context, log *logrus.Logger, event string) *logrus.Entry {
	entry := log.WithFields(logrus.Fields{
		"type":  "audit",
		"event": event,
	})
	if ctx != nil {
		if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
			entry = entry.WithField("request_id", rid)
		}
	}
	return entry
}
