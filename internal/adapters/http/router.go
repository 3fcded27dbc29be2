package http

import (
	"context"
	nethttp "net/http"

	"github.com/dkeye/Town/internal/adapters/signal"
	"github.com/dkeye/Town/internal/app/orch"
	"github.com/dkeye/Town/internal/config"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const clientTokenKey = "client_token"

// ClientTokenMiddleware gives every browser a stable anonymous identity kept
// in the signed session cookie.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := sessions.Default(c)
		token, _ := s.Get(clientTokenKey).(string)
		if token == "" {
			token = uuid.NewString()
			s.Set(clientTokenKey, token)
			if err := s.Save(); err != nil {
				log.Warn().Err(err).Str("module", "adapters.http").Msg("session save")
			}
		}
		c.Set(clientTokenKey, token)
		c.Next()
	}
}

// RateLimit rejects clients that exceed rl with 429.
func RateLimit(rl *ClientRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		client := c.GetString(clientTokenKey)
		if !rl.Allow(client) {
			log.Warn().Str("module", "adapters.http").Str("client", client).Str("path", c.FullPath()).Msg("rate limited")
			fail(c, nethttp.StatusTooManyRequests, "too many requests")
			return
		}
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator, ctl *signal.SignalWSController) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	registerValidators()

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{Path: "/", MaxAge: 3600 * 24 * 7, HttpOnly: true})
	r.Use(sessions.Sessions("TownSessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	h := &roomHandlers{orch: o}
	limited := RateLimit(NewClientRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Interval))

	api := r.Group("/api")
	api.GET("/rooms", h.list)
	api.POST("/rooms", limited, h.create)
	api.DELETE("/rooms/:roomID", h.remove)
	api.PATCH("/rooms/:roomID", h.update)
	api.POST("/rooms/:roomID/sessions", limited, h.join)

	api.GET("/ws", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("client", c.GetString(clientTokenKey)).Msg("ws signal endpoint hit")
		ctl.HandleSignal(ctx, c)
	})

	return r
}
