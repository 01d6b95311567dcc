package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/blocksearch/internal/common"
	"github.com/dmitrijs2005/blocksearch/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDKey = "requestID"

// RequireSession lets the request through when the session cookie or a
// bearer token verifies. Anything else is a 401 with an empty body.
func (h *Handler) RequireSession(c *gin.Context) {
	token, err := c.Cookie(h.cookie.Name)
	if err != nil || token == "" {
		token = bearerToken(c.GetHeader("Authorization"))
	}
	if token == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	id, err := h.accounts.Authenticate(token)
	if err != nil {
		h.log(c).Debug(c.Request.Context(), "session rejected", "error", err)
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	c.Set(common.UserIDKey, id)
	c.Next()
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequestID reuses an incoming X-Request-ID or assigns a fresh uuid, and
// echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(common.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(common.RequestIDHeader, id)
		c.Next()
	}
}

// AccessLog writes one structured line per request.
func AccessLog(l logging.Logger) gin.HandlerFunc {
	l = l.With("module", "access")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		l.Info(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"request_id", c.GetString(requestIDKey),
		)
	}
}
