package security

import (
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"devfolio/httperr"
)

// contentSecurityPolicy applies to HTML responses only; API responses are
// JSON and carry no CSP.
const contentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' 'unsafe-inline'; " +
	"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com; " +
	"font-src 'self' https://fonts.gstatic.com; " +
	"img-src 'self' data: https:; " +
	"frame-ancestors 'none'"

// Headers sets the baseline security headers on every response.
func Headers() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		if !strings.HasPrefix(c.Request.URL.Path, "/api/") {
			h.Set("Content-Security-Policy", contentSecurityPolicy)
		}
		c.Next()
	}
}

// CSRF rejects state-changing requests whose Origin does not match the
// request host or the configured public domain. Requests without an Origin
// header (curl, same-origin form posts on older agents) pass; the session
// cookie is SameSite anyway, this is the second layer.
func CSRF(domain string) gin.HandlerFunc {
	allowedHost := ""
	if u, err := url.Parse(domain); err == nil {
		allowedHost = u.Host
	}

	return func(c *gin.Context) {
		switch c.Request.Method {
		case "GET", "HEAD", "OPTIONS":
			c.Next()
			return
		}

		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}

		u, err := url.Parse(origin)
		if err != nil {
			httperr.JSON(c, httperr.NewSecurity())
			return
		}
		if u.Host != c.Request.Host && u.Host != allowedHost {
			httperr.JSON(c, httperr.NewSecurity())
			return
		}

		c.Next()
	}
}
