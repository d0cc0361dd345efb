package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"stellarone-api/config"
	"stellarone-api/model"
	"time"
)

const (
	// AccessTokenCookie holds the bearer token for browser sessions.
	AccessTokenCookie = "accessTokenStellarOne"
	// UserDataCookie caches the user snapshot client-side, URL-encoded JSON.
	UserDataCookie = "userDataStellarOne"
)

func sessionMaxAge() int {
	return int((time.Duration(config.AppConfig.JWT.ExpiryHours) * time.Hour).Seconds())
}

// SetSessionCookies persists the freshly minted session on the client. Both
// cookies share the token's lifetime; only the token cookie is HttpOnly so the
// frontend can read the cached snapshot.
func SetSessionCookies(w http.ResponseWriter, token string, snapshot *model.UserSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	secure := config.AppConfig.JWT.CookieSecure
	maxAge := sessionMaxAge()

	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     UserDataCookie,
		Value:    url.QueryEscape(string(data)),
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
	return nil
}

// ClearSessionCookies removes both session cookies on logout.
func ClearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{AccessTokenCookie, UserDataCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			SameSite: http.SameSiteStrictMode,
		})
	}
}
