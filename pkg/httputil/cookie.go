package httputil

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

const AuthCookieName = "auth_token"

var ErrNoToken = errors.New("no auth token found in cookie, header or query")

// SetAuthCookie stores the token in an HttpOnly cookie. secure switches to
// SameSite=None over HTTPS for cross-site frontends.
func SetAuthCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	cookie := &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if secure {
		cookie.SameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, cookie)
}

func ClearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// GetTokenFromRequest looks at the auth cookie, then a Bearer header, then
// the token query parameter browsers use for websocket upgrades.
func GetTokenFromRequest(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(AuthCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token), nil
		}
		return header, nil
	}

	if token := r.URL.Query().Get("token"); token != "" {
		return token, nil
	}
	return "", ErrNoToken
}
