package chat

import (
	"net/http"

	"chat-gateway/internal/config"
	"chat-gateway/internal/session"
	"chat-gateway/internal/storage"
	"chat-gateway/internal/token"

	"github.com/gin-gonic/gin"
)

const contextLimit = 20

type Handler struct {
	codec  *token.Codec
	store  storage.ObjectStore
	csvKey string
}

func NewHandler(cfg *config.Config, codec *token.Codec, store storage.ObjectStore) *Handler {
	return &Handler{codec: codec, store: store, csvKey: cfg.RagCSVKey}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/chat", h.Chat)
}

type chatRequest struct {
	Message string `json:"message"`
}

// Chat verifies the user session again even though the gateway guards
// this route, then answers with the knowledge-base context matching the
// message.
func (h *Handler) Chat(c *gin.Context) {
	raw := session.ReadUserToken(c.Request)
	if raw == "" || h.codec == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Not logged in"})
		return
	}
	v := h.codec.Verify(raw)
	if !v.Valid || v.Payload.Typ != token.TypeUser {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Not logged in"})
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "message is required"})
		return
	}

	if h.store == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "storage binding missing"})
		return
	}

	csvText, found, err := h.store.Get(c.Request.Context(), h.csvKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to read knowledge base"})
		return
	}

	var context []string
	if found {
		context = pickContext(csvText, req.Message, contextLimit)
	}
	if context == nil {
		context = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "context": context})
}
