package auth

import (
	"net/http"
	"time"
)

const refreshTokenCookieName = "refreshToken"

// SetRefreshTokenCookie stores the refresh token in an HTTP-only cookie.
// SameSite=None is required in production where the frontend lives on
// another origin; development keeps Lax so plain HTTP still works.
func SetRefreshTokenCookie(w http.ResponseWriter, token string, isProduction bool, maxAge time.Duration) {
	sameSite := http.SameSiteLaxMode
	if isProduction {
		sameSite = http.SameSiteNoneMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: sameSite,
		MaxAge:   int(maxAge.Seconds()),
	})
}

// ClearRefreshTokenCookie removes the refresh token cookie.
func ClearRefreshTokenCookie(w http.ResponseWriter, isProduction bool) {
	sameSite := http.SameSiteLaxMode
	if isProduction {
		sameSite = http.SameSiteNoneMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: sameSite,
		MaxAge:   -1,
	})
}

// RefreshTokenFromCookie reads the refresh token cookie, returning an empty
// string when it is absent.
func RefreshTokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(refreshTokenCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
