package endpoints

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/salawat/internal/http/api"
	"github.com/Nixie-Tech-LLC/salawat/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/salawat/internal/model"
)

// History is the part of the store the history endpoints read.
type History interface {
	ListPrayerDays(limit int) ([]model.PrayerDayRecord, error)
	ListNotifications(limit int) ([]model.NotificationRecord, error)
}

type HistoryController struct {
	store History
}

// HistoryModule mounts GET /history and GET /notifications
func HistoryModule(store History) api.Module {
	ctl := &HistoryController{store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/history", ctl.listHistory)
		c.GET("/notifications", ctl.listNotifications)
	})
}

func limitParam(ctx *gin.Context) (int, *api.APIError) {
	raw := ctx.Query("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, api.BadRequest("invalid limit")
	}
	return n, nil
}

// GET /api/admin/history
func (h *HistoryController) listHistory(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	limit, apiErr := limitParam(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	days, err := h.store.ListPrayerDays(limit)
	if err != nil {
		return nil, api.Internal("could not list prayer days")
	}

	out := make([]packets.PrayerDayResponse, 0, len(days))
	for _, d := range days {
		var timings map[string]string
		if err := json.Unmarshal([]byte(d.Timings), &timings); err != nil {
			log.Warn().Err(err).Int("id", d.ID).Msg("stored timings are not valid json")
		}
		out = append(out, packets.PrayerDayResponse{
			ID:        d.ID,
			Day:       d.Day.Format(time.DateOnly),
			Latitude:  d.Latitude,
			Longitude: d.Longitude,
			City:      d.City,
			Timezone:  d.Timezone,
			Fallback:  d.Fallback,
			Timings:   timings,
			Hijri:     d.Hijri,
			FetchedAt: d.FetchedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

// GET /api/admin/notifications
func (h *HistoryController) listNotifications(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	limit, apiErr := limitParam(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	list, err := h.store.ListNotifications(limit)
	if err != nil {
		return nil, api.Internal("could not list notifications")
	}

	out := make([]packets.NotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, packets.NotificationResponse{
			ID:       n.ID,
			Kind:     n.Kind,
			PrayerID: n.PrayerID,
			Title:    n.Title,
			Body:     n.Body,
			SentAt:   n.SentAt.Format(time.RFC3339),
		})
	}
	return out, nil
}
