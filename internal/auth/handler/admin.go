package handler

import (
	"net/http"
	"time"

	"chat-gateway/internal/logger"
	"chat-gateway/internal/session"
	"chat-gateway/internal/token"

	"github.com/gin-gonic/gin"
)

type adminLoginRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

func (h *Handler) AdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request"})
		return
	}

	if err := h.adminCreds.Verify(req.ID, req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Invalid credentials"})
		return
	}

	if h.codec == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "session error"})
		return
	}

	now := time.Now().Unix()
	tok, err := h.codec.Sign(token.Payload{
		Typ: token.TypeAdmin,
		ID:  req.ID,
		Iat: now,
		Exp: now + int64(h.adminTTL),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "session error"})
		return
	}

	session.SetCookie(c.Writer, session.AdminCookieName, tok, h.adminTTL)

	logger.Info("admin login", map[string]any{"id": req.ID})

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) AdminLogout(c *gin.Context) {
	session.ClearCookie(c.Writer, session.AdminCookieName)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) AdminSession(c *gin.Context) {
	raw := session.ReadAdminToken(c.Request)
	if raw == "" || h.codec == nil {
		c.JSON(http.StatusOK, gin.H{"ok": true, "loggedIn": false})
		return
	}

	v := h.codec.Verify(raw)
	if !v.Valid {
		c.JSON(http.StatusOK, gin.H{"ok": true, "loggedIn": false, "reason": v.Reason})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "loggedIn": true, "payload": v.Payload})
}
