package middleware

import (
	"net/http"
	"time"

	"dnaarchive/internal/session"

	"github.com/gin-gonic/gin"
)

// SetTokenCookies sets access_token and refresh_token as HttpOnly cookies.
// Secure deployments are cross-origin and need SameSite=None.
func SetTokenCookies(c *gin.Context, secure bool, accessToken string, accessTTL time.Duration, refreshToken string, refreshTTL time.Duration) {
	c.SetSameSite(sameSite(secure))
	c.SetCookie(session.AccessTokenCookie, accessToken, int(accessTTL.Seconds()), "/", "", secure, true)
	c.SetCookie(session.RefreshTokenCookie, refreshToken, int(refreshTTL.Seconds()), "/", "", secure, true)
}

// ClearTokenCookies removes access_token and refresh_token cookies
func ClearTokenCookies(c *gin.Context, secure bool) {
	c.SetSameSite(sameSite(secure))
	c.SetCookie(session.AccessTokenCookie, "", -1, "/", "", secure, true)
	c.SetCookie(session.RefreshTokenCookie, "", -1, "/", "", secure, true)
}

func sameSite(secure bool) http.SameSite {
	if secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
