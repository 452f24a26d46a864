package middleware

import (
	"net/http"
	types "readafrik-checkout/internal/common/type"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const limiterIdle = 30 * time.Minute

type clientLimiter struct {
	limiter *rate.Limiter
	last    time.Time
}

// RateLimit allows each client IP rps requests per second with the given
// burst. A non-positive rps disables limiting.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst <= 0 {
		burst = 1
	}

	var (
		mu        sync.Mutex
		clients   = make(map[string]*clientLimiter)
		lastSweep = time.Now()
	)

	allow := func(ip string, now time.Time) bool {
		mu.Lock()
		defer mu.Unlock()

		if now.Sub(lastSweep) > limiterIdle {
			for k, cl := range clients {
				if now.Sub(cl.last) > limiterIdle {
					delete(clients, k)
				}
			}
			lastSweep = now
		}

		cl, ok := clients[ip]
		if !ok {
			cl = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
			clients[ip] = cl
		}
		cl.last = now
		return cl.limiter.AllowN(now, 1)
	}

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || allow(c.ClientIP(), time.Now()) {
			c.Next()
			return
		}
		c.Header("Retry-After", "1")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, types.ResponseError{Error: "Too many requests, please slow down"})
	}
}
