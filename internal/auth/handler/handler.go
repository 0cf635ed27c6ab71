package handler

import (
	"chat-gateway/internal/auth/credentials"
	"chat-gateway/internal/config"
	"chat-gateway/internal/token"

	"github.com/gin-gonic/gin"
)

// Handler owns the login, logout and session-check endpoints for both
// principal kinds. Tokens are stateless: logout only clears the cookie.
type Handler struct {
	codec      *token.Codec
	userCreds  credentials.Checker
	adminCreds credentials.Checker
	userTTL    int
	adminTTL   int
}

func NewHandler(cfg *config.Config, codec *token.Codec) *Handler {
	return &Handler{
		codec: codec,
		userCreds: credentials.Checker{
			Identifier: cfg.LoginUser,
			Password:   cfg.LoginPassword,
			Hash:       cfg.LoginPasswordHash,
		},
		adminCreds: credentials.Checker{
			Identifier: cfg.AdminID,
			Password:   cfg.AdminPassword,
			Hash:       cfg.AdminPasswordHash,
		},
		userTTL:  cfg.SessionMaxAgeSec,
		adminTTL: cfg.AdminSessionTTLSec,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/login", h.Login)
	r.Any("/api/logout", h.Logout)
	r.GET("/api/session", h.Session)

	r.POST("/api/admin/login", h.AdminLogin)
	r.Any("/api/admin/logout", h.AdminLogout)
	r.GET("/api/admin/session", h.AdminSession)
}
