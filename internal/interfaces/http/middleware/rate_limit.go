package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	domainerrors "kemea.backend/internal/domain/errors"
	"kemea.backend/internal/interfaces/http/response"
	"kemea.backend/pkg/logger"
	"kemea.backend/pkg/redis"
)

var incrWindow = redis.IncrWindow

// RateKey names the bucket a request is counted against. An empty key means
// the request is not counted for that dimension.
type RateKey func(c *gin.Context) string

// ByClientIP buckets requests by client IP.
func ByClientIP(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// ByUser buckets requests by the authenticated user.
func ByUser(c *gin.Context) string {
	id, ok := GetUserID(c)
	if !ok {
		return ""
	}
	return "user:" + id.String()
}

// ByParam buckets requests by a path parameter.
func ByParam(name string) RateKey {
	return func(c *gin.Context) string {
		v := c.Param(name)
		if v == "" {
			return ""
		}
		return name + ":" + v
	}
}

// ByJSONField buckets requests by a string field of the JSON body. The body
// is restored for the handler.
func ByJSONField(field string) RateKey {
	return func(c *gin.Context) string {
		if c.Request.Body == nil {
			return ""
		}
		raw, err := c.GetRawData()
		if err != nil {
			return ""
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(raw))

		var body map[string]interface{}
		if err := json.Unmarshal(raw, &body); err != nil {
			return ""
		}
		v, _ := body[field].(string)
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			return ""
		}
		return field + ":" + v
	}
}

// RateLimit allows limit requests per client IP in each fixed window. The
// limiter fails open when redis is unreachable.
func RateLimit(name string, limit int, window time.Duration) gin.HandlerFunc {
	return RateLimitBy(name, limit, window, ByClientIP)
}

// RateLimitBy counts each request once per key and rejects it when any key
// is over limit for the current window.
func RateLimitBy(name string, limit int, window time.Duration, keys ...RateKey) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		var (
			worst int64
			left  time.Duration
		)
		for _, keyFn := range keys {
			k := keyFn(c)
			if k == "" {
				continue
			}
			n, ttl, err := incrWindow(ctx, fmt.Sprintf("ratelimit:%s:%s", name, k), window)
			if err != nil {
				logger.Warn(ctx, "Rate limiter unavailable", zap.String("limiter", name), zap.Error(err))
				c.Next()
				return
			}
			if n > worst {
				worst, left = n, ttl
			}
		}

		remaining := int64(limit) - worst
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if worst > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(left.Seconds()))))
			response.Error(c, domainerrors.TooManyRequests("Too many requests, try again later"))
			return
		}
		c.Next()
	}
}
