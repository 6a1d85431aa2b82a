package endpoints

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/salawat/internal/http/api"
	"github.com/Nixie-Tech-LLC/salawat/internal/http/api/board/packets"
	"github.com/Nixie-Tech-LLC/salawat/internal/prayer"
	"github.com/Nixie-Tech-LLC/salawat/internal/tasbeeh"
)

type CounterController struct {
	counters *tasbeeh.Service
}

func newCounterController(counters *tasbeeh.Service) *CounterController {
	return &CounterController{counters: counters}
}

// TasbeehModule mounts the public counter endpoints under /api
func TasbeehModule(counters *tasbeeh.Service) api.Module {
	ctl := newCounterController(counters)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/tasbeeh", ctl.listTasbeeh)
		c.PUBLIC_GET("/tasbeeh/:id", ctl.getTasbeeh)
		c.PUBLIC_POST("/tasbeeh/:id/increment", ctl.incrementTasbeeh)
		c.PUBLIC_POST("/tasbeeh/:id/reset", ctl.resetTasbeeh)

		c.PUBLIC_GET("/prayer/counts", ctl.listPrayerCounts)
		c.PUBLIC_POST("/prayer/:id/count", ctl.countPrayer)
	})
}

func counterError(err error) *api.APIError {
	if errors.Is(err, tasbeeh.ErrInvalidCounter) {
		return api.BadRequest("invalid counter id")
	}
	log.Error().Err(err).Msg("counter store failed")
	return api.Internal("counter store unavailable")
}

func (c *CounterController) list(ctx context.Context, ns tasbeeh.Namespace, ids []string) (any, *api.APIError) {
	counts, err := c.counters.All(ctx, ns, ids)
	if err != nil {
		return nil, counterError(err)
	}
	out := make([]packets.CounterResponse, 0, len(ids))
	for _, id := range ids {
		out = append(out, packets.CounterResponse{ID: id, Count: counts[id]})
	}
	return out, nil
}

// GET /api/tasbeeh
func (c *CounterController) listTasbeeh(ctx *gin.Context) (any, *api.APIError) {
	return c.list(ctx.Request.Context(), tasbeeh.Tasbeeh, tasbeeh.DefaultCounters)
}

// GET /api/tasbeeh/:id
func (c *CounterController) getTasbeeh(ctx *gin.Context) (any, *api.APIError) {
	id := ctx.Param("id")
	n, err := c.counters.Get(ctx.Request.Context(), tasbeeh.Tasbeeh, id)
	if err != nil {
		return nil, counterError(err)
	}
	return packets.CounterResponse{ID: id, Count: n}, nil
}

// POST /api/tasbeeh/:id/increment
func (c *CounterController) incrementTasbeeh(ctx *gin.Context) (any, *api.APIError) {
	id := ctx.Param("id")
	n, err := c.counters.Increment(ctx.Request.Context(), tasbeeh.Tasbeeh, id)
	if err != nil {
		return nil, counterError(err)
	}
	return packets.CounterResponse{ID: id, Count: n}, nil
}

// POST /api/tasbeeh/:id/reset
func (c *CounterController) resetTasbeeh(ctx *gin.Context) (any, *api.APIError) {
	id := ctx.Param("id")
	if err := c.counters.Reset(ctx.Request.Context(), tasbeeh.Tasbeeh, id); err != nil {
		return nil, counterError(err)
	}
	return packets.CounterResponse{ID: id, Count: 0}, nil
}

func countablePrayers() []string {
	var ids []string
	for _, m := range prayer.Canonical {
		if m.Countable {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// GET /api/prayer/counts
func (c *CounterController) listPrayerCounts(ctx *gin.Context) (any, *api.APIError) {
	return c.list(ctx.Request.Context(), tasbeeh.Prayer, countablePrayers())
}

// POST /api/prayer/:id/count
func (c *CounterController) countPrayer(ctx *gin.Context) (any, *api.APIError) {
	id := ctx.Param("id")
	if !prayer.IsCountable(id) {
		return nil, api.NotFound("unknown prayer")
	}
	n, err := c.counters.Increment(ctx.Request.Context(), tasbeeh.Prayer, id)
	if err != nil {
		return nil, counterError(err)
	}
	return packets.CounterResponse{ID: id, Count: n}, nil
}
