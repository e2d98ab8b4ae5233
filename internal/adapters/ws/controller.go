package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/focusopolis/internal/app"
	"github.com/dkeye/focusopolis/internal/core"
	"github.com/dkeye/focusopolis/internal/domain"
)

const sendQueueSize = 32

// Controller owns the chat websocket endpoint: upgrade, one read pump and
// one write pump per connection, and the join/message/ping envelope.
type Controller struct {
	Rooms   *app.Membership
	Chat    *app.Chat
	Bcast   *app.Broadcaster
	Limiter *app.SendRateLimiter

	ReadLimit  int64
	PingPeriod time.Duration
}

func NewController(rooms *app.Membership, chat *app.Chat, bcast *app.Broadcaster, limiter *app.SendRateLimiter, readLimit int64, pingPeriod time.Duration) *Controller {
	return &Controller{
		Rooms:      rooms,
		Chat:       chat,
		Bcast:      bcast,
		Limiter:    limiter,
		ReadLimit:  readLimit,
		PingPeriod: pingPeriod,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the request and binds the connection. Identity is already
// verified upstream; this layer never sees credentials.
func (ctl *Controller) Handle(ctx context.Context, c *gin.Context, user *domain.User) {
	if user == nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	sid := core.SessionID(uuid.NewString())
	log.Info().Str("module", "ws").Str("sid", string(sid)).Str("user", string(user.ID)).Msg("new chat connection")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("ws upgrade")
		return
	}

	wc := &Conn{conn: conn, send: make(chan core.Frame, sendQueueSize)}
	ctx, cancel := context.WithCancel(ctx)
	ctl.Bcast.Bind(sid, &session{user: user, conn: wc}, cancel)

	go ctl.writePump(ctx, wc)
	go ctl.readPump(ctx, sid, user, wc)
}
