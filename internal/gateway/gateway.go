// Package gateway is the edge middleware in front of every route:
// maintenance gate, page and API auth guards, then rate limiting.
package gateway

import (
	"net/http"
	"strings"

	"chat-gateway/internal/config"
	"chat-gateway/internal/logger"
	"chat-gateway/internal/ratelimit"
	"chat-gateway/internal/session"
	"chat-gateway/internal/token"

	"github.com/gin-gonic/gin"
)

const (
	fiveMinutes = 300
	oneMinute   = 60
	oneDay      = 86400
)

const maintenanceBody = `<html><body style="font-family: sans-serif; padding: 24px;">
  <h2>Under maintenance</h2>
  <p>Please try again in a little while.</p>
</body></html>`

// maintenanceAllow lists the path prefixes that stay reachable while
// maintenance mode is on. Root is an exact match, not a prefix.
var maintenanceAllow = []string{
	"/",
	"/login",
	"/admin/login",
	"/assets",
	"/api/login",
	"/api/logout",
	"/api/admin/login",
	"/api/admin/logout",
}

type Gateway struct {
	cfg     *config.Config
	codec   *token.Codec
	limiter *ratelimit.Limiter
}

// New builds a gateway. codec may be nil when the signing secret is not
// configured; every auth-gated route then fails closed as unauthenticated.
func New(cfg *config.Config, codec *token.Codec, limiter *ratelimit.Limiter) *Gateway {
	return &Gateway{cfg: cfg, codec: codec, limiter: limiter}
}

// pathIs reports whether path equals prefix or sits under it as a
// directory. "/" matches only the root itself.
func pathIs(path, prefix string) bool {
	if prefix == "/" {
		return path == "/"
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func (g *Gateway) verifyChannel(raw, typ string) (*token.Payload, bool) {
	if raw == "" || g.codec == nil {
		return nil, false
	}
	v := g.codec.Verify(raw)
	if !v.Valid {
		return nil, false
	}
	// A token presented on the wrong channel is treated as absent.
	if v.Payload.Typ != typ {
		return nil, false
	}
	if typ == token.TypeUser && v.Payload.User == "" {
		return nil, false
	}
	if typ == token.TypeAdmin && v.Payload.ID == "" {
		return nil, false
	}
	return v.Payload, true
}

func (g *Gateway) requireUser(r *http.Request) (*token.Payload, bool) {
	return g.verifyChannel(session.ReadUserToken(r), token.TypeUser)
}

func (g *Gateway) requireAdmin(r *http.Request) (*token.Payload, bool) {
	return g.verifyChannel(session.ReadAdminToken(r), token.TypeAdmin)
}

type limitCheck struct {
	key       string
	limit     int
	windowSec int
	tier      string
}

// runChecks issues the limiter sequence for a route, stopping at the
// first rejection. Counters already incremented stay incremented.
func (g *Gateway) runChecks(c *gin.Context, checks []limitCheck) bool {
	for _, chk := range checks {
		res := g.limiter.Hit(c.Request.Context(), chk.key, chk.limit, chk.windowSec)
		if res.Note != "" {
			logger.Warn("rate limiter degraded", map[string]any{
				"key":  chk.key,
				"note": res.Note,
			})
		}
		if !res.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"ok":    false,
				"error": "Rate limit (" + chk.tier + ")",
			})
			return false
		}
	}
	return true
}

// Middleware returns the per-request guard chain. Install it with
// router.Use ahead of every route.
func (g *Gateway) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		// Maintenance gate runs before everything else.
		if g.cfg.MaintenanceMode {
			allowed := false
			for _, prefix := range maintenanceAllow {
				if pathIs(path, prefix) {
					allowed = true
					break
				}
			}
			if !allowed {
				c.Header("Content-Type", "text/html; charset=utf-8")
				c.String(http.StatusServiceUnavailable, maintenanceBody)
				c.Abort()
				return
			}
		}

		// Page guards redirect; APIs below return errors instead.
		if pathIs(path, "/chat") {
			if _, ok := g.requireUser(c.Request); !ok {
				c.Redirect(http.StatusFound, "/login/")
				c.Abort()
				return
			}
		}

		if pathIs(path, "/admin") && !pathIs(path, "/admin/login") {
			if _, ok := g.requireAdmin(c.Request); !ok {
				c.Redirect(http.StatusFound, "/admin/login/")
				c.Abort()
				return
			}
		}

		if pathIs(path, "/api/chat") {
			payload, ok := g.requireUser(c.Request)
			if !ok {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"ok":    false,
					"error": "Not logged in",
				})
				return
			}

			user := payload.User
			ip := clientIP(c.Request)

			checks := []limitCheck{
				{"chat:u:" + user, g.cfg.ChatUser5mLimit, fiveMinutes, "user/5m"},
				{"chat:ip:" + ip, g.cfg.ChatIP5mLimit, fiveMinutes, "ip/5m"},
				{"chat:u:" + user + ":day", g.cfg.ChatUserDayLimit, oneDay, "user/day"},
				{"chat:ip:" + ip + ":day", g.cfg.ChatIPDayLimit, oneDay, "ip/day"},
			}
			if !g.runChecks(c, checks) {
				return
			}
			c.Set("user", user)
		}

		if pathIs(path, "/api/admin") {
			open := pathIs(path, "/api/admin/login") ||
				pathIs(path, "/api/admin/logout") ||
				pathIs(path, "/api/admin/session")
			if !open {
				payload, ok := g.requireAdmin(c.Request)
				if !ok {
					c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
						"ok":    false,
						"error": "Not logged in (admin)",
					})
					return
				}

				id := payload.ID

				if pathIs(path, "/api/admin/preview") {
					checks := []limitCheck{
						{"admin_preview:u:" + id, g.cfg.AdminPreview1mLimit, oneMinute, "admin_preview"},
					}
					if !g.runChecks(c, checks) {
						return
					}
				}

				if pathIs(path, "/api/admin/save") || pathIs(path, "/api/admin/delete") {
					checks := []limitCheck{
						{"admin_write:u:" + id, g.cfg.AdminWrite1mLimit, oneMinute, "admin_write/1m"},
						{"admin_write:u:" + id + ":day", g.cfg.AdminWriteDayLimit, oneDay, "admin_write/day"},
					}
					if !g.runChecks(c, checks) {
						return
					}
				}
				c.Set("admin", id)
			}
		}

		c.Next()
	}
}
