package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chat-gateway/internal/config"
	"chat-gateway/internal/session"
	"chat-gateway/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testHandler(t *testing.T) (*Handler, *gin.Engine) {
	t.Helper()

	cfg := &config.Config{
		SessionSigningSecret: "test-secret",
		SessionMaxAgeSec:     86400,
		AdminSessionTTLSec:   3600,
		LoginUser:            "alice",
		LoginPassword:        "user-pass",
		AdminID:              "root",
		AdminPassword:        "admin-pass",
	}
	codec, err := token.NewCodec(cfg.SessionSigningSecret)
	require.NoError(t, err)

	h := NewHandler(cfg, codec)
	router := gin.New()
	h.RegisterRoutes(router)
	return h, router
}

func post(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "http://example"+path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestLogin_SetsUserCookie(t *testing.T) {
	_, router := testHandler(t)

	w := post(router, "/api/login", `{"user":"alice","password":"user-pass"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	setCookie := w.Header().Get("Set-Cookie")
	require.NotEmpty(t, setCookie)
	assert.True(t, strings.HasPrefix(setCookie, session.UserCookieName+"="))
	assert.Contains(t, setCookie, "Max-Age=86400")

	// The issued token verifies and carries the user identity.
	codec, err := token.NewCodec("test-secret")
	require.NoError(t, err)

	value := strings.TrimPrefix(strings.Split(setCookie, ";")[0], session.UserCookieName+"=")
	v := codec.Verify(value)
	require.True(t, v.Valid)
	assert.Equal(t, token.TypeUser, v.Payload.Typ)
	assert.Equal(t, "alice", v.Payload.User)
	assert.Greater(t, v.Payload.Exp, time.Now().Unix())
}

func TestLogin_InvalidCredentials(t *testing.T) {
	_, router := testHandler(t)

	w := post(router, "/api/login", `{"user":"alice","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":"Invalid credentials"}`, w.Body.String())
	assert.Empty(t, w.Header().Get("Set-Cookie"))
}

func TestLogin_MethodNotRegisteredForGet(t *testing.T) {
	_, router := testHandler(t)

	r := httptest.NewRequest(http.MethodGet, "http://example/api/login", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLogout_ClearsCookie(t *testing.T) {
	_, router := testHandler(t)

	w := post(router, "/api/logout", "")
	assert.Equal(t, http.StatusOK, w.Code)

	setCookie := w.Header().Get("Set-Cookie")
	assert.True(t, strings.HasPrefix(setCookie, session.UserCookieName+"=;"))
	assert.Contains(t, setCookie, "Max-Age=0")
}

func TestSession_ReportsLoginState(t *testing.T) {
	h, router := testHandler(t)

	// Anonymous.
	r := httptest.NewRequest(http.MethodGet, "http://example/api/session", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	assert.JSONEq(t, `{"ok":true,"loggedIn":false}`, w.Body.String())

	// Logged in.
	now := time.Now().Unix()
	tok, err := h.codec.Sign(token.Payload{Typ: token.TypeUser, User: "alice", Iat: now, Exp: now + 60})
	require.NoError(t, err)

	r = httptest.NewRequest(http.MethodGet, "http://example/api/session", nil)
	r.AddCookie(&http.Cookie{Name: session.UserCookieName, Value: tok})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)
	assert.Contains(t, w.Body.String(), `"loggedIn":true`)
	assert.Contains(t, w.Body.String(), `"alice"`)

	// Expired token reports the reason.
	stale, err := h.codec.Sign(token.Payload{Typ: token.TypeUser, User: "alice", Iat: now - 120, Exp: now - 60})
	require.NoError(t, err)

	r = httptest.NewRequest(http.MethodGet, "http://example/api/session", nil)
	r.AddCookie(&http.Cookie{Name: session.UserCookieName, Value: stale})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)
	assert.Contains(t, w.Body.String(), `"loggedIn":false`)
	assert.Contains(t, w.Body.String(), token.ReasonExpired)
}

func TestAdminLogin_SetsAdminCookieWithShortTTL(t *testing.T) {
	_, router := testHandler(t)

	w := post(router, "/api/admin/login", `{"id":"root","password":"admin-pass"}`)
	require.Equal(t, http.StatusOK, w.Code)

	setCookie := w.Header().Get("Set-Cookie")
	assert.True(t, strings.HasPrefix(setCookie, session.AdminCookieName+"="))
	assert.Contains(t, setCookie, "Max-Age=3600")
}

func TestAdminLogin_InvalidCredentials(t *testing.T) {
	_, router := testHandler(t)

	w := post(router, "/api/admin/login", `{"id":"root","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminLogout_ClearsAdminCookie(t *testing.T) {
	_, router := testHandler(t)

	w := post(router, "/api/admin/logout", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Set-Cookie"), session.AdminCookieName+"=;"))
}
