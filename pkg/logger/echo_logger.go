package logger

import (
	"io"
	"net/http"

	apperrors "github.com/fitrahmoef/Saintara-Mobile/pkg/errors"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"go.uber.org/zap"
)

// NewEchoRequestLogger returns a request logging middleware backed by zap
func NewEchoRequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	config := middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
		HandleError: true,

		LogLatency:     true,
		LogRemoteIP:    true,
		LogMethod:      true,
		LogURI:         true,
		LogRoutePath:   true,
		LogRequestID:   true,
		LogUserAgent:   true,
		LogStatus:      true,
		LogError:       true,
		LogHeaders:     []string{"Authorization", "Idempotency-Key"},
		LogQueryParams: []string{"page", "limit", "status"},

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("request.remote_ip", v.RemoteIP),
				zap.String("request.method", v.Method),
				zap.String("request.uri", v.URI),
				zap.String("request.route", v.RoutePath),
				zap.String("request.user_agent", v.UserAgent),
				zap.String("request.request_id", v.RequestID),
				zap.Int("response.status", v.Status),
				zap.Duration("response.latency", v.Latency),
			}

			if len(v.Headers) > 0 {
				headers := make(map[string]string, len(v.Headers))
				for k, values := range v.Headers {
					if len(values) == 0 {
						continue
					}
					headers[k] = maskHeader(k, values[0])
				}
				fields = append(fields, zap.Any("request.headers", headers))
			}

			if len(v.QueryParams) > 0 {
				fields = append(fields, zap.Any("request.query_params", v.QueryParams))
			}

			switch {
			case v.Error != nil:
				fields = append(fields, zap.Error(v.Error))
				logger.Error("Request failed", fields...)
			case v.Status >= 500:
				logger.Error("Server error", fields...)
			case v.Status >= 400:
				logger.Warn("Client error", fields...)
			default:
				logger.Info("Request completed", fields...)
			}
			return nil
		},
	}

	return middleware.RequestLoggerWithConfig(config)
}

func maskHeader(name, value string) string {
	if name != "Authorization" {
		return value
	}
	if len(value) > 15 {
		return value[:10] + "..." + value[len(value)-5:]
	}
	return "[MASKED]"
}

// WithEchoLogger routes echo's own logging through zap and installs an
// error handler that answers with {"error", "code"} bodies.
func WithEchoLogger(e *echo.Echo, logger *zap.Logger) {
	e.Logger = newEchoLogger(logger)

	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := apperrors.ToHTTPResponse(err)
		if status >= http.StatusInternalServerError {
			logger.Error("HTTP error",
				zap.Error(err),
				zap.Int("status", status),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.String("ip", c.RealIP()),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			logger.Error("Failed to send error response", zap.Error(err))
		}
	}
}

// echoLogger satisfies echo.Logger. Echo only logs startup and internal
// failures through it; request logs come from NewEchoRequestLogger.
type echoLogger struct {
	sugar  *zap.SugaredLogger
	prefix string
}

func newEchoLogger(logger *zap.Logger) *echoLogger {
	return &echoLogger{sugar: logger.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func jsonFields(j log.JSON) []interface{} {
	fields := make([]interface{}, 0, len(j)*2)
	for k, v := range j {
		fields = append(fields, k, v)
	}
	return fields
}

func (l *echoLogger) Output() io.Writer {
	return zap.NewStdLog(l.sugar.Desugar()).Writer()
}

func (l *echoLogger) SetOutput(io.Writer) {}

func (l *echoLogger) Level() log.Lvl {
	return log.INFO
}

func (l *echoLogger) SetLevel(log.Lvl) {}

func (l *echoLogger) SetHeader(string) {}

func (l *echoLogger) Prefix() string {
	return l.prefix
}

func (l *echoLogger) SetPrefix(p string) {
	l.prefix = p
}

func (l *echoLogger) Print(i ...interface{}) {
	l.sugar.Info(i...)
}

func (l *echoLogger) Printf(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

func (l *echoLogger) Printj(j log.JSON) {
	l.sugar.Infow("echo", jsonFields(j)...)
}

func (l *echoLogger) Debug(i ...interface{}) {
	l.sugar.Debug(i...)
}

func (l *echoLogger) Debugf(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

func (l *echoLogger) Debugj(j log.JSON) {
	l.sugar.Debugw("echo", jsonFields(j)...)
}

func (l *echoLogger) Info(i ...interface{}) {
	l.sugar.Info(i...)
}

func (l *echoLogger) Infof(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

func (l *echoLogger) Infoj(j log.JSON) {
	l.sugar.Infow("echo", jsonFields(j)...)
}

func (l *echoLogger) Warn(i ...interface{}) {
	l.sugar.Warn(i...)
}

func (l *echoLogger) Warnf(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

func (l *echoLogger) Warnj(j log.JSON) {
	l.sugar.Warnw("echo", jsonFields(j)...)
}

func (l *echoLogger) Error(i ...interface{}) {
	l.sugar.Error(i...)
}

func (l *echoLogger) Errorf(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

func (l *echoLogger) Errorj(j log.JSON) {
	l.sugar.Errorw("echo", jsonFields(j)...)
}

func (l *echoLogger) Fatal(i ...interface{}) {
	l.sugar.Fatal(i...)
}

func (l *echoLogger) Fatalf(format string, args ...interface{}) {
	l.sugar.Fatalf(format, args...)
}

func (l *echoLogger) Fatalj(j log.JSON) {
	l.sugar.Fatalw("echo", jsonFields(j)...)
}

func (l *echoLogger) Panic(i ...interface{}) {
	l.sugar.Panic(i...)
}

func (l *echoLogger) Panicf(format string, args ...interface{}) {
	l.sugar.Panicf(format, args...)
}

func (l *echoLogger) Panicj(j log.JSON) {
	l.sugar.Panicw("echo", jsonFields(j)...)
}
