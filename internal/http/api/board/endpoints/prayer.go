package endpoints

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/salawat/internal/display"
	"github.com/Nixie-Tech-LLC/salawat/internal/http/api"
	"github.com/Nixie-Tech-LLC/salawat/internal/http/api/board/packets"
	"github.com/Nixie-Tech-LLC/salawat/internal/live"
	"github.com/Nixie-Tech-LLC/salawat/internal/timings"
	"github.com/Nixie-Tech-LLC/salawat/internal/worker"
)

type BoardController struct {
	worker  *worker.Worker
	timings *timings.Service
	hub     *live.Hub
}

func newBoardController(w *worker.Worker, svc *timings.Service, hub *live.Hub) *BoardController {
	return &BoardController{worker: w, timings: svc, hub: hub}
}

// BoardModule mounts the public prayer endpoints under /api
func BoardModule(w *worker.Worker, svc *timings.Service, hub *live.Hub) api.Module {
	ctl := newBoardController(w, svc, hub)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/prayer/today", ctl.today)
		c.PUBLIC_GET("/prayer/status", ctl.status)
		c.PUBLIC_GET("/clock", ctl.clock)
		c.RAW_GET("/live", ctl.live)
	})
}

// GET /api/prayer/today
func (b *BoardController) today(ctx *gin.Context) (any, *api.APIError) {
	day := b.timings.Snapshot()
	if day == nil {
		return nil, &api.APIError{Code: http.StatusServiceUnavailable, Message: timings.ErrNoSnapshot.Error()}
	}

	loc := day.Location()
	resp := packets.TodayResponse{
		Date: day.Date().Format(time.DateOnly),
		Location: packets.LocationResponse{
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
			City:      loc.City,
			Timezone:  day.Date().Location().String(),
		},
		Hijri:     day.Hijri(),
		Fallback:  day.Fallback(),
		FetchedAt: day.FetchedAt().Format(time.RFC3339),
		Markers:   make([]packets.MarkerResponse, 0, day.Len()),
	}
	for _, m := range day.Markers() {
		resp.Markers = append(resp.Markers, packets.MarkerResponse{
			ID:        m.ID,
			Name:      m.Name,
			Time:      m.Time.String(),
			Label:     display.Time(m.Time),
			At:        day.Instant(m).Format(time.RFC3339),
			Countable: m.Countable,
		})
	}
	return resp, nil
}

// GET /api/prayer/status
func (b *BoardController) status(ctx *gin.Context) (any, *api.APIError) {
	return b.worker.Board(b.worker.Now()), nil
}

// GET /api/clock
func (b *BoardController) clock(ctx *gin.Context) (any, *api.APIError) {
	return b.worker.ClockState(b.worker.Now()), nil
}
