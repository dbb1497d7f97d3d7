package logging

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const (
	requestIDKey = "request_id"
	subjectKey   = "subject"

	// RequestIDHeader is echoed on every response.
	RequestIDHeader = "X-Request-Id"
)

type contextKeyLogger struct{}

// Init configures the standard logrus logger.
func Init(level, format string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	switch format {
	case "", "text":
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("invalid log format %q", format)
	}

	logrus.SetLevel(lvl)
	return nil
}

// Default returns an entry on the standard logger.
func Default() *logrus.Entry {
	return logrus.NewEntry(logrus.StandardLogger())
}

// ContextWithLogger returns ctx carrying a logger tagged with a fresh request
// ID. A context that already carries a logger is returned as is.
func ContextWithLogger(ctx context.Context) (context.Context, *logrus.Entry) {
	if ctx == nil {
		ctx = context.Background()
	}
	if rlog := loggerFromContext(ctx); rlog != nil {
		return ctx, rlog
	}
	rlog := logrus.WithField(requestIDKey, uuid.NewString())
	return context.WithValue(ctx, contextKeyLogger{}, rlog), rlog
}

// ContextWithSubject tags the context logger with the authenticated subject.
func ContextWithSubject(ctx context.Context, subject string) (context.Context, *logrus.Entry) {
	ctx, rlog := ContextWithLogger(ctx)
	rlog = rlog.WithField(subjectKey, subject)
	return context.WithValue(ctx, contextKeyLogger{}, rlog), rlog
}

// FromContext returns the logger carried by ctx, or a default entry.
func FromContext(ctx context.Context) *logrus.Entry {
	if rlog := loggerFromContext(ctx); rlog != nil {
		return rlog
	}
	return Default()
}

// RequestID returns the request ID of the context logger, if any.
func RequestID(ctx context.Context) string {
	rlog := loggerFromContext(ctx)
	if rlog == nil {
		return ""
	}
	id, _ := rlog.Data[requestIDKey].(string)
	return id
}

func loggerFromContext(ctx context.Context) *logrus.Entry {
	if ctx == nil {
		return nil
	}
	rlog, _ := ctx.Value(contextKeyLogger{}).(*logrus.Entry)
	return rlog
}

// AddRequestID installs a middleware that attaches a request-scoped logger to
// every request and echoes its ID in the response headers.
func AddRequestID(router *mux.Router) {
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, _ := ContextWithLogger(r.Context())
			w.Header().Set(RequestIDHeader, RequestID(ctx))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
}
