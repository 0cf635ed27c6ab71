package admin

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chat-gateway/internal/config"
	"chat-gateway/internal/session"
	"chat-gateway/internal/storage"
	"chat-gateway/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testSetup(t *testing.T, store storage.ObjectStore) (*gin.Engine, *http.Cookie) {
	t.Helper()

	cfg := &config.Config{
		SessionSigningSecret: "test-secret",
		RagCSVKey:            "rag.csv",
		ConfigKey:            "config.json",
	}
	codec, err := token.NewCodec(cfg.SessionSigningSecret)
	require.NoError(t, err)

	h := NewHandler(cfg, codec, store)
	router := gin.New()
	h.RegisterRoutes(router)

	now := time.Now().Unix()
	tok, err := codec.Sign(token.Payload{Typ: token.TypeAdmin, ID: "root", Iat: now, Exp: now + 60})
	require.NoError(t, err)

	return router, &http.Cookie{Name: session.AdminCookieName, Value: tok}
}

func doJSON(router *gin.Engine, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, "http://example"+path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		r.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestSave_WritesBothObjects(t *testing.T) {
	store := storage.NewMemoryStore()
	router, cookie := testSetup(t, store)

	w := doJSON(router, http.MethodPost, "/api/admin/save",
		`{"csv":"q,a\nhello,world","config":"{\"model\":\"test\"}"}`, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"csv":true`)
	assert.Contains(t, w.Body.String(), `"config":true`)

	csv, found, err := store.Get(context.Background(), "rag.csv")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "q,a\nhello,world", csv)
}

func TestSave_RejectsInvalidConfigJSON(t *testing.T) {
	store := storage.NewMemoryStore()
	router, cookie := testSetup(t, store)

	w := doJSON(router, http.MethodPost, "/api/admin/save", `{"config":"{not json"}`, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, found, err := store.Get(context.Background(), "config.json")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSave_RequiresAdminCookie(t *testing.T) {
	router, _ := testSetup(t, storage.NewMemoryStore())

	w := doJSON(router, http.MethodPost, "/api/admin/save", `{"csv":"x"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSave_MissingStorageBinding(t *testing.T) {
	router, cookie := testSetup(t, nil)

	w := doJSON(router, http.MethodPost, "/api/admin/save", `{"csv":"x"}`, cookie)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "storage binding missing")
}

func TestDelete_OnlyKnownTargets(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), "rag.csv", "data", "text/csv"))
	router, cookie := testSetup(t, store)

	w := doJSON(router, http.MethodPost, "/api/admin/delete", `{"target":"secrets.txt"}`, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/api/admin/delete", `{"target":"csv"}`, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"key":"rag.csv"`)

	_, found, err := store.Get(context.Background(), "rag.csv")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPreview_TruncatesCSVToFiftyLines(t *testing.T) {
	store := storage.NewMemoryStore()

	var lines []string
	for i := 0; i < 80; i++ {
		lines = append(lines, fmt.Sprintf("row-%d", i))
	}
	require.NoError(t, store.Put(context.Background(), "rag.csv", strings.Join(lines, "\n"), "text/csv"))
	require.NoError(t, store.Put(context.Background(), "config.json", `{"k":1}`, "application/json"))

	router, cookie := testSetup(t, store)

	w := doJSON(router, http.MethodGet, "/api/admin/preview", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "row-49")
	assert.NotContains(t, w.Body.String(), "row-50")
	assert.Contains(t, w.Body.String(), `{\"k\":1}`)
}

func TestPreview_MissingObjectsAreNull(t *testing.T) {
	router, cookie := testSetup(t, storage.NewMemoryStore())

	w := doJSON(router, http.MethodGet, "/api/admin/preview", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"csv":null`)
	assert.Contains(t, w.Body.String(), `"config":null`)
}
