package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientLimiter keeps one token bucket per client IP.
type ClientLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	r         rate.Limit
	b         int
	lastSweep time.Time
}

const idleClient = 10 * time.Minute

func NewClientLimiter(r rate.Limit, b int) *ClientLimiter {
	return &ClientLimiter{clients: make(map[string]*client), r: r, b: b}
}

// Reserve takes a token for ip and reports how long the caller must wait
// when none is left.
func (l *ClientLimiter) Reserve(ip string, now time.Time) (bool, time.Duration) {
	l.mu.Lock()
	if now.Sub(l.lastSweep) > idleClient {
		l.sweep(now, idleClient)
		l.lastSweep = now
	}
	cl, ok := l.clients[ip]
	if !ok {
		cl = &client{limiter: rate.NewLimiter(l.r, l.b)}
		l.clients[ip] = cl
	}
	cl.lastSeen = now
	l.mu.Unlock()

	if cl.limiter.AllowN(now, 1) {
		return true, 0
	}
	res := cl.limiter.ReserveN(now, 1)
	wait := res.DelayFrom(now)
	res.CancelAt(now)
	return false, wait
}

// Sweep forgets clients idle for longer than idle.
func (l *ClientLimiter) Sweep(now time.Time, idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sweep(now, idle)
}

func (l *ClientLimiter) sweep(now time.Time, idle time.Duration) int {
	n := 0
	for ip, cl := range l.clients {
		if now.Sub(cl.lastSeen) > idle {
			delete(l.clients, ip)
			n++
		}
	}
	return n
}

// RateLimiter rejects clients that exceed their bucket with 429 and a
// Retry-After header.
func RateLimiter(l *ClientLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, wait := l.Reserve(c.ClientIP(), time.Now())
		if !ok {
			secs := int(math.Ceil(wait.Seconds()))
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "요청이 너무 많습니다. 잠시 후 다시 시도하세요."})
			return
		}
		c.Next()
	}
}
