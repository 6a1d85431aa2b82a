package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/salawat/internal/display"
	"github.com/Nixie-Tech-LLC/salawat/internal/http/api"
	"github.com/Nixie-Tech-LLC/salawat/internal/http/api/board/packets"
	"github.com/Nixie-Tech-LLC/salawat/internal/tasbeeh"
	"github.com/Nixie-Tech-LLC/salawat/internal/worker"
)

const (
	BoardTemplate   = "board.html"
	TasbeehTemplate = "tasbeeh.html"
)

type BoardPageData struct {
	Title string
	Board display.Board
}

type TasbeehPageData struct {
	Title    string
	Counters []packets.CounterResponse
}

type PageController struct {
	worker   *worker.Worker
	counters *tasbeeh.Service
}

// PagesModule mounts the HTML pages at the site root
func PagesModule(w *worker.Worker, counters *tasbeeh.Service) api.Module {
	ctl := &PageController{worker: w, counters: counters}
	return api.ModuleFunc(func(c *api.Controller) {
		c.RAW_GET("/", ctl.boardPage)
		c.RAW_GET("/tasbeeh", ctl.tasbeehPage)
	})
}

// GET /
func (p *PageController) boardPage(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, BoardTemplate, BoardPageData{
		Title: "مواقيت الصلاة",
		Board: p.worker.Board(p.worker.Now()),
	})
}

// GET /tasbeeh
func (p *PageController) tasbeehPage(ctx *gin.Context) {
	counts, err := p.counters.All(ctx.Request.Context(), tasbeeh.Tasbeeh, tasbeeh.DefaultCounters)
	if err != nil {
		log.Error().Err(err).Msg("failed to read tasbeeh counters")
		counts = map[string]int64{}
	}
	data := TasbeehPageData{Title: "التسبيح"}
	for _, id := range tasbeeh.DefaultCounters {
		data.Counters = append(data.Counters, packets.CounterResponse{ID: id, Count: counts[id]})
	}
	ctx.HTML(http.StatusOK, TasbeehTemplate, data)
}
