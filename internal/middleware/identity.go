package middleware

// identity.go holds helpers shared across middleware files for reading
// the authenticated identity out of the Echo context.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID returns the user identifier placed into the context by
// JWTAuth, or "anon" for unauthenticated requests. The rate limiter
// keys per-user buckets with it.
func currentUserID(c echo.Context) string {
	v := c.Get("user_id")
	if v == nil {
		return "anon"
	}
	switch s := v.(type) {
	case string:
		if s != "" {
			return s
		}
	case float64:
		// JWT numeric claims decode as float64.
		return fmt.Sprintf("%.0f", s)
	}
	return "anon"
}
