// Package idempotency replays responses for requests that repeat an Idempotency-Key.
package idempotency

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	HeaderKey      = "Idempotency-Key"
	HeaderReplayed = "Idempotent-Replayed"

	inFlight       = "in-flight"
	maxKeyLength   = 255
	defaultTTL     = 24 * time.Hour
	defaultLockTTL = time.Minute
)

// Config holds the configuration for the idempotency middleware
type Config struct {
	Client  *redis.Client
	Logger  *zap.Logger
	Prefix  string
	TTL     time.Duration // How long a completed response is replayed
	LockTTL time.Duration // How long an in-flight request holds its key
}

type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// captureWriter captures the response status and body while forwarding to the client
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	cw.buf.Write(b)
	return cw.ResponseWriter.Write(b)
}

// Middleware stores the first response per key and replays it for repeats.
// Requests without the header pass through. Redis failures fail open.
func Middleware(cfg Config) echo.MiddlewareFunc {
	if cfg.Client == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = defaultLockTTL
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "idempotency"
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			idemKey := strings.TrimSpace(c.Request().Header.Get(HeaderKey))
			if idemKey == "" {
				return next(c)
			}
			if len(idemKey) > maxKeyLength {
				return c.JSON(http.StatusBadRequest, echo.Map{
					"error": "Idempotency-Key is too long",
					"code":  "INVALID_ARGUMENT",
				})
			}

			ctx := c.Request().Context()
			key := cacheKey(cfg.Prefix, c, idemKey)

			stored, err := cfg.Client.Get(ctx, key).Bytes()
			switch {
			case err == nil:
				return replay(c, stored)
			case !errors.Is(err, redis.Nil):
				cfg.Logger.Warn("Idempotency lookup failed, continuing without it",
					zap.String("key", key),
					zap.Error(err))
				return next(c)
			}

			acquired, err := cfg.Client.SetNX(ctx, key, inFlight, cfg.LockTTL).Result()
			if err != nil {
				cfg.Logger.Warn("Idempotency lock failed, continuing without it",
					zap.String("key", key),
					zap.Error(err))
				return next(c)
			}
			if !acquired {
				return inProgress(c)
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = cw

			handlerErr := next(c)

			// Background context: the request may already be cancelled
			storeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			if handlerErr != nil || cw.status >= http.StatusInternalServerError || !c.Response().Committed {
				// Let the client retry failed attempts
				if err := cfg.Client.Del(storeCtx, key).Err(); err != nil {
					cfg.Logger.Warn("Failed to release idempotency key", zap.String("key", key), zap.Error(err))
				}
				return handlerErr
			}

			payload, err := json.Marshal(storedResponse{
				Status:      cw.status,
				ContentType: c.Response().Header().Get(echo.HeaderContentType),
				Body:        cw.buf.Bytes(),
			})
			if err == nil {
				err = cfg.Client.Set(storeCtx, key, payload, cfg.TTL).Err()
			}
			if err != nil {
				cfg.Logger.Warn("Failed to store idempotent response", zap.String("key", key), zap.Error(err))
			}
			return nil
		}
	}
}

// cacheKey scopes the client key to the caller and route
func cacheKey(prefix string, c echo.Context, idemKey string) string {
	userID, _ := c.Get("user_id").(string)
	return strings.Join([]string{prefix, userID, c.Request().Method, c.Path(), idemKey}, ":")
}

func replay(c echo.Context, stored []byte) error {
	if string(stored) == inFlight {
		return inProgress(c)
	}

	var resp storedResponse
	if err := json.Unmarshal(stored, &resp); err != nil {
		return inProgress(c)
	}

	c.Response().Header().Set(HeaderReplayed, "true")
	contentType := resp.ContentType
	if contentType == "" {
		contentType = echo.MIMEApplicationJSON
	}
	return c.Blob(resp.Status, contentType, resp.Body)
}

func inProgress(c echo.Context) error {
	return c.JSON(http.StatusConflict, echo.Map{
		"error": "A request with this Idempotency-Key is still being processed",
		"code":  "CONFLICT",
	})
}
