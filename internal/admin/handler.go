// Package admin serves the object-store backed CSV/config endpoints
// behind the admin session.
package admin

import (
	"encoding/json"
	"net/http"
	"strings"

	"chat-gateway/internal/config"
	"chat-gateway/internal/session"
	"chat-gateway/internal/storage"
	"chat-gateway/internal/token"

	"github.com/gin-gonic/gin"
)

const previewLines = 50

// Handler verifies the admin session on every call even though the
// gateway already guards these routes. A handler reachable through a
// misconfigured chain must still refuse anonymous writes.
type Handler struct {
	codec  *token.Codec
	store  storage.ObjectStore
	csvKey string
	cfgKey string
}

func NewHandler(cfg *config.Config, codec *token.Codec, store storage.ObjectStore) *Handler {
	return &Handler{
		codec:  codec,
		store:  store,
		csvKey: cfg.RagCSVKey,
		cfgKey: cfg.ConfigKey,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/admin/save", h.Save)
	r.POST("/api/admin/delete", h.Delete)
	r.GET("/api/admin/preview", h.Preview)
}

func (h *Handler) requireAdmin(c *gin.Context) bool {
	raw := session.ReadAdminToken(c.Request)
	if raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Not logged in (admin)"})
		return false
	}
	if h.codec == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Bad admin session: no-secret"})
		return false
	}
	v := h.codec.Verify(raw)
	if !v.Valid || v.Payload.Typ != token.TypeAdmin {
		reason := v.Reason
		if reason == "" {
			reason = "wrong-type"
		}
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Bad admin session: " + reason})
		return false
	}
	return true
}

func (h *Handler) requireStore(c *gin.Context) bool {
	if h.store == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "storage binding missing"})
		return false
	}
	return true
}

type saveRequest struct {
	CSV    *string `json:"csv"`
	Config *string `json:"config"`
}

func (h *Handler) Save(c *gin.Context) {
	if !h.requireAdmin(c) || !h.requireStore(c) {
		return
	}

	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request"})
		return
	}

	saved := gin.H{"csv": false, "config": false}

	if req.CSV != nil {
		if err := h.store.Put(c.Request.Context(), h.csvKey, *req.CSV, "text/csv; charset=utf-8"); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to save csv"})
			return
		}
		saved["csv"] = true
	}

	if req.Config != nil {
		if !json.Valid([]byte(*req.Config)) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "config is not valid JSON"})
			return
		}
		if err := h.store.Put(c.Request.Context(), h.cfgKey, *req.Config, "application/json; charset=utf-8"); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to save config"})
			return
		}
		saved["config"] = true
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":    true,
		"saved": saved,
		"keys":  gin.H{"csvKey": h.csvKey, "cfgKey": h.cfgKey},
	})
}

type deleteRequest struct {
	Target string `json:"target"`
}

func (h *Handler) Delete(c *gin.Context) {
	if !h.requireAdmin(c) || !h.requireStore(c) {
		return
	}

	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request"})
		return
	}

	// Only the two known keys may be deleted, never arbitrary objects.
	var key string
	switch req.Target {
	case "csv":
		key = h.csvKey
	case "config":
		key = h.cfgKey
	default:
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": `target must be "csv" or "config"`})
		return
	}

	if err := h.store.Delete(c.Request.Context(), key); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to delete"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"deleted": gin.H{"target": req.Target, "key": key},
	})
}

func (h *Handler) Preview(c *gin.Context) {
	if !h.requireAdmin(c) || !h.requireStore(c) {
		return
	}

	csvText, csvFound, err := h.store.Get(c.Request.Context(), h.csvKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to read csv"})
		return
	}
	cfgText, cfgFound, err := h.store.Get(c.Request.Context(), h.cfgKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to read config"})
		return
	}

	var csvPreview any
	if csvFound {
		lines := strings.Split(strings.ReplaceAll(csvText, "\r\n", "\n"), "\n")
		if len(lines) > previewLines {
			lines = lines[:previewLines]
		}
		csvPreview = strings.Join(lines, "\n")
	}

	var cfgPreview any
	if cfgFound {
		cfgPreview = cfgText
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":     true,
		"keys":   gin.H{"csvKey": h.csvKey, "cfgKey": h.cfgKey},
		"csv":    csvPreview,
		"config": cfgPreview,
	})
}
