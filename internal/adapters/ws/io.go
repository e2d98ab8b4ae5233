package ws

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/focusopolis/internal/core"
	"github.com/dkeye/focusopolis/internal/domain"
)

const writeWait = 5 * time.Second

func (ctl *Controller) writePump(ctx context.Context, c *Conn) {
	pingPeriod := ctl.PingPeriod
	if pingPeriod <= 0 {
		pingPeriod = 54 * time.Second
	}
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "ws").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "ws").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "ws").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "ws").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().Err(err).Str("module", "ws").Msg("writePump ping error")
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, sid core.SessionID, user *domain.User, c *Conn) {
	defer func() {
		log.Info().Str("module", "ws").Str("sid", string(sid)).Msg("readPump closing")
		// A dropped connection only ends this subscription; durable
		// membership is untouched.
		ctl.Bcast.Unbind(sid)
		c.Close()
	}()

	if ctl.ReadLimit > 0 {
		c.conn.SetReadLimit(ctl.ReadLimit)
	}
	readWait := 2 * ctl.PingPeriod
	if readWait <= 0 {
		readWait = 120 * time.Second
	}
	_ = c.conn.SetReadDeadline(time.Now().Add(readWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readWait))
	})

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "ws").Str("sid", string(sid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Error().Err(err).Str("module", "ws").Str("sid", string(sid)).Msg("readPump read error")
				return
			}
			_ = c.conn.SetReadDeadline(time.Now().Add(readWait))
			ctl.handleEvent(ctx, sid, user, c, data)
		}
	}
}
