package endpoints

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/salawat/internal/http/api"
	"github.com/Nixie-Tech-LLC/salawat/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/salawat/internal/model"
	"github.com/Nixie-Tech-LLC/salawat/internal/timings"
	"github.com/Nixie-Tech-LLC/salawat/internal/worker"
)

type LocationController struct {
	timings *timings.Service
	worker  *worker.Worker
}

// LocationModule mounts /location and /refresh
func LocationModule(svc *timings.Service, w *worker.Worker) api.Module {
	ctl := &LocationController{timings: svc, worker: w}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/location", ctl.getLocation)
		c.PUT("/location", ctl.setLocation)
		c.DELETE("/location", ctl.clearLocation)
		c.POST("/refresh", ctl.refresh)
	})
}

func (l *LocationController) location() packets.LocationResponse {
	status := l.timings.Status()
	resp := packets.LocationResponse{Label: status.Label, Message: status.Message}
	if loc, ok := l.timings.Primary(); ok {
		resp.Primary = true
		resp.Latitude = loc.Latitude
		resp.Longitude = loc.Longitude
		resp.City = loc.City
	}
	return resp
}

// refreshes after a location change; a failed fetch is reported in the status
func (l *LocationController) refreshQuietly(ctx *gin.Context) {
	if err := l.worker.RefreshNow(ctx.Request.Context()); err != nil {
		log.Warn().Err(err).Msg("refresh after location change failed")
	}
}

// GET /api/admin/location
func (l *LocationController) getLocation(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	return l.location(), nil
}

// PUT /api/admin/location
func (l *LocationController) setLocation(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.SetLocationRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	if request.Timezone != "" {
		if _, err := time.LoadLocation(request.Timezone); err != nil {
			return nil, api.BadRequest("unknown timezone")
		}
	}

	err := l.timings.SetPrimary(model.Location{
		Latitude:  *request.Latitude,
		Longitude: *request.Longitude,
		City:      request.City,
		Timezone:  request.Timezone,
	})
	if errors.Is(err, timings.ErrInvalidLocation) {
		return nil, api.BadRequest(err.Error())
	} else if err != nil {
		return nil, api.Internal("could not set location")
	}
	log.Info().Int("user", user.ID).
		Float64("lat", *request.Latitude).
		Float64("lng", *request.Longitude).
		Msg("primary location set")

	l.refreshQuietly(ctx)
	return l.location(), nil
}

// DELETE /api/admin/location
func (l *LocationController) clearLocation(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	l.timings.ClearPrimary()
	log.Info().Int("user", user.ID).Msg("primary location cleared")

	l.refreshQuietly(ctx)
	return l.location(), nil
}

// POST /api/admin/refresh
func (l *LocationController) refresh(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if err := l.worker.RefreshNow(ctx.Request.Context()); err != nil {
		return nil, &api.APIError{Code: http.StatusBadGateway, Message: l.timings.Status().Message}
	}
	day := l.timings.Snapshot()
	status := l.timings.Status()
	return packets.RefreshResponse{
		Date:     day.Date().Format(time.DateOnly),
		Fallback: day.Fallback(),
		Label:    status.Label,
		Message:  status.Message,
	}, nil
}
