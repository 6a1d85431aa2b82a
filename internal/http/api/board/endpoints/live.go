package endpoints

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	liveBuffer    = 16
	liveKeepalive = 30 * time.Second
)

// GET /api/live streams clock and board events as server-sent events.
func (b *BoardController) live(ctx *gin.Context) {
	events, cancel := b.hub.Subscribe(liveBuffer)
	defer cancel()

	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("X-Accel-Buffering", "no")

	keepalive := time.NewTicker(liveKeepalive)
	defer keepalive.Stop()

	log.Debug().Str("remote", ctx.ClientIP()).Msg("live subscriber connected")
	ctx.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-events:
			if !ok {
				return false
			}
			ctx.SSEvent(ev.Name, ev.Data)
			return true
		case <-keepalive.C:
			ctx.SSEvent("ping", time.Now().Unix())
			return true
		case <-ctx.Request.Context().Done():
			return false
		}
	})
	log.Debug().Str("remote", ctx.ClientIP()).Msg("live subscriber disconnected")
}
