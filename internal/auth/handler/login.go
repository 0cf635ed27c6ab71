package handler

import (
	"net/http"
	"time"

	"chat-gateway/internal/logger"
	"chat-gateway/internal/session"
	"chat-gateway/internal/token"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request"})
		return
	}

	if err := h.userCreds.Verify(req.User, req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Invalid credentials"})
		return
	}

	if h.codec == nil {
		// Missing signing secret: issuance cannot work.
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "session error"})
		return
	}

	now := time.Now().Unix()
	tok, err := h.codec.Sign(token.Payload{
		Typ:  token.TypeUser,
		User: req.User,
		Iat:  now,
		Exp:  now + int64(h.userTTL),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "session error"})
		return
	}

	session.SetCookie(c.Writer, session.UserCookieName, tok, h.userTTL)

	logger.Info("user login", map[string]any{"user": req.User})

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) Logout(c *gin.Context) {
	session.ClearCookie(c.Writer, session.UserCookieName)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) Session(c *gin.Context) {
	raw := session.ReadUserToken(c.Request)
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
