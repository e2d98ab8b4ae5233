package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/focusopolis/internal/adapters/ws"
	"github.com/dkeye/focusopolis/internal/config"
	"github.com/dkeye/focusopolis/internal/core"
)

func SetupRouter(ctx context.Context, cfg *config.Config, h *Handler, chat *ws.Controller, verifier core.TokenVerifier) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	log.Info().Str("module", "adapters.http").Str("mode", cfg.Mode).Msg("router setup")

	api := r.Group("/api")
	api.Use(Auth(verifier))

	api.GET("/rooms", h.ListRooms)
	api.POST("/rooms", h.CreateRoom)
	api.GET("/rooms/:id", h.GetRoom)
	api.DELETE("/rooms/:id", h.DeleteRoom)
	api.POST("/rooms/:id/join", h.Join)
	api.POST("/rooms/:id/leave", h.Leave)
	api.POST("/rooms/:id/remove-member", h.RemoveMember)
	api.POST("/rooms/:id/description", h.UpdateDescription)
	api.POST("/rooms/:id/goal", h.SetGoal)
	api.GET("/rooms/:id/goal-progress", h.GoalProgress)
	api.GET("/rooms/:id/leaderboard", h.Leaderboard)
	api.GET("/rooms/:id/messages", h.Messages)

	api.GET("/ws", func(c *gin.Context) {
		chat.Handle(ctx, c, UserFrom(c))
	})

	return r
}
