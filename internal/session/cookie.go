// Package session binds signed tokens to their cookie channels.
//
// Two disjoint channels exist: sr_user carries user tokens and sr_admin
// carries admin tokens. Reading only locates the raw token string; all
// cryptographic checks happen in the token codec.
package session

import (
	"net/http"
	"net/url"
)

const (
	UserCookieName  = "sr_user"
	AdminCookieName = "sr_admin"
)

// ReadUserToken returns the raw token from the user channel, or "" when
// the cookie is absent.
func ReadUserToken(r *http.Request) string {
	return readCookie(r, UserCookieName)
}

// ReadAdminToken returns the raw token from the admin channel, or "".
func ReadAdminToken(r *http.Request) string {
	return readCookie(r, AdminCookieName)
}

func readCookie(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil || c.Value == "" {
		return ""
	}
	if decoded, err := url.QueryUnescape(c.Value); err == nil {
		return decoded
	}
	return c.Value
}

// SetCookie issues a session cookie. Attributes are fixed policy:
// Path=/, HttpOnly, Secure, SameSite=Lax, Max-Age equal to the TTL.
func SetCookie(w http.ResponseWriter, name, token string, maxAgeSec int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    url.QueryEscape(token),
		Path:     "/",
		MaxAge:   maxAgeSec,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie removes a session cookie from the client.
func ClearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}
