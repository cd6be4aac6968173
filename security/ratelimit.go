package security

import (
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"devfolio/httperr"
)

// Limit rules. Windows are fixed, not sliding: the counter resets when the
// window that saw the first request expires.
var (
	GeneralLimit = Rule{Name: "general", Max: 100, Window: 15 * time.Minute}
	AdminLimit   = Rule{Name: "admin", Max: 200, Window: 15 * time.Minute}
	LoginLimit   = Rule{Name: "login", Max: 5, Window: 15 * time.Minute}
	UploadLimit  = Rule{Name: "upload", Max: 10, Window: time.Hour}
)

type Rule struct {
	Name   string
	Max    int
	Window time.Duration
}

type bucket struct {
	start time.Time
	count int
}

// Limiter tracks request counts per (client IP, path) in memory. One Limiter
// serves the whole process, installed once as global middleware.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

func NewLimiter() *Limiter {
	return &Limiter{
		buckets: map[string]*bucket{},
		now:     time.Now,
	}
}

// ruleFor picks exactly one limit category per request. Login and uploads
// get their tight budgets, every other mutating API call counts against the
// admin allowance, and everything else is general traffic. The categories
// are exclusive: a request never draws down more than one budget.
func ruleFor(method, path string) Rule {
	switch {
	case path == "/api/auth/login":
		return LoginLimit
	case strings.HasPrefix(path, "/api/upload"):
		return UploadLimit
	case method != http.MethodGet && method != http.MethodHead &&
		method != http.MethodOptions && strings.HasPrefix(path, "/api/"):
		return AdminLimit
	default:
		return GeneralLimit
	}
}

// Middleware enforces the limit category for each request. Exceeding
// requests get 429 with a Retry-After header for the remainder of the
// window.
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rule := ruleFor(c.Request.Method, c.Request.URL.Path)
		retryAfter, ok := l.allow(rule, c.ClientIP(), c.Request.URL.Path)
		if !ok {
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			httperr.JSON(c, httperr.NewRateLimited(retryAfter))
			return
		}
		c.Next()
	}
}

func (l *Limiter) allow(rule Rule, ip, path string) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	// Expired buckets are swept on roughly 1% of requests instead of on a
	// timer, like the upstream limiter: no goroutine to manage and the map
	// stays bounded under steady traffic.
	if rand.Intn(100) == 0 {
		l.sweepLocked(now)
	}

	key := ip + "|" + path
	b := l.buckets[key]
	if b == nil || now.Sub(b.start) >= rule.Window {
		b = &bucket{start: now}
		l.buckets[key] = b
	}

	b.count++
	if b.count > rule.Max {
		remaining := rule.Window - now.Sub(b.start)
		return int(math.Ceil(remaining.Seconds())), false
	}
	return 0, true
}

func (l *Limiter) sweepLocked(now time.Time) {
	for key, b := range l.buckets {
		// A bucket older than the longest window is dead under every rule.
		if now.Sub(b.start) >= time.Hour {
			delete(l.buckets, key)
		}
	}
}
