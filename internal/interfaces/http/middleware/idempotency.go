package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"promptmint.backend/pkg/redis"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	// LockDuration is how long the in-progress lock is held
	LockDuration = 30 * time.Second
	// RetentionDuration is how long a recorded response is replayable
	RetentionDuration = 24 * time.Hour

	processingMarker = "processing"
)

var (
	redisGet   = redis.Get
	redisSet   = redis.Set
	redisSetNX = redis.SetNX
	redisDel   = redis.Del
)

// storedResponse is the recorded outcome of a completed action, replayed
// verbatim on re-invocation with the same key.
type storedResponse struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware makes mutating admin actions safe to retry. The key
// is scoped to the authenticated admin; the first invocation takes a lock,
// runs the handler and records the response, later invocations replay it.
// Failed invocations release the key so the action can be retried.
func IdempotencyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		adminID, _ := GetAdminID(c)
		storageKey := fmt.Sprintf("idempotency:%s:%s", adminID, key)
		ctx := c.Request.Context()

		val, err := redisGet(ctx, storageKey)
		if err == nil {
			if val == processingMarker {
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{
					"code":    "IDEMPOTENCY_IN_PROGRESS",
					"message": "Request with this key is already in progress",
				})
				return
			}

			var stored storedResponse
			if json.Unmarshal([]byte(val), &stored) == nil {
				c.Header("Content-Type", "application/json")
				c.Header("X-Idempotency-Hit", "true")
				c.String(stored.Status, stored.Body)
				c.Abort()
				return
			}
			// Unreadable record: fall through and reprocess.
		}

		acquired, err := redisSetNX(ctx, storageKey, processingMarker, LockDuration)
		if err != nil {
			// Redis down: processing without the guard beats rejecting
			// every admin action.
			c.Next()
			return
		}
		if !acquired {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"code":    "IDEMPOTENCY_IN_PROGRESS",
				"message": "Request with this key is already in progress",
			})
			return
		}

		w := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		status := c.Writer.Status()
		if status >= 200 && status < 300 {
			record, _ := json.Marshal(storedResponse{Status: status, Body: w.body.String()})
			_ = redisSet(ctx, storageKey, string(record), RetentionDuration)
		} else {
			_ = redisDel(ctx, storageKey)
		}
	}
}
