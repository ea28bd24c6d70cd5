package v1

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"vetcita/internal/config"
	"vetcita/internal/domain"
	"vetcita/pkg/auth"
	"vetcita/pkg/metrics"
)

const (
	ctxClaims   = "claims"
	headerReqID = "X-Request-ID"
)

// RequestID tags every request with a correlation id, honoring one supplied
// by the caller.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerReqID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(headerReqID, id)
		c.Header(headerReqID, id)
		c.Next()
	}
}

// RequestLogger logs one structured line per request.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("http request",
			zap.String("request_id", c.GetString(headerReqID)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}

// Observe records request metrics against the route pattern, not the raw
// path, to keep label cardinality bounded.
func Observe(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		m.HTTPInFlight.Inc()
		start := time.Now()
		c.Next()
		m.HTTPInFlight.Dec()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method, route, strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).
			Observe(time.Since(start).Seconds())
	}
}

// Authenticate verifies the bearer token and stores the claims on the
// context.
func Authenticate(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			respondError(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := tokens.VerifyAccess(token)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		c.Set(ctxClaims, claims)
		c.Next()
	}
}

// RequireRole restricts a route group to one role.
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := callerFrom(c)
		if !ok || claims.Role != role {
			respondError(c, http.StatusForbidden, "forbidden")
			return
		}
		c.Next()
	}
}

// AuthRateLimit throttles credential endpoints per client IP. Limiters for
// idle IPs are pruned opportunistically.
func AuthRateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	type entry struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}
	var (
		mu      sync.Mutex
		clients = make(map[string]*entry)
	)

	limit := rate.Limit(float64(cfg.AuthRequestsPerMinute) / 60.0)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		e, ok := clients[ip]
		if !ok {
			e = &entry{limiter: rate.NewLimiter(limit, cfg.AuthBurstSize)}
			clients[ip] = e
		}
		e.lastSeen = time.Now()
		if len(clients) > 10000 {
			for k, v := range clients {
				if time.Since(v.lastSeen) > 10*time.Minute {
					delete(clients, k)
				}
			}
		}
		allowed := e.limiter.Allow()
		mu.Unlock()

		if !allowed {
			respondError(c, http.StatusTooManyRequests, "too many requests, slow down")
			return
		}
		c.Next()
	}
}
