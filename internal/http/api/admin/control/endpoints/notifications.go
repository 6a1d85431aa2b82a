package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/salawat/internal/http/api"
	"github.com/Nixie-Tech-LLC/salawat/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/salawat/internal/model"
	"github.com/Nixie-Tech-LLC/salawat/internal/reminder"
	"github.com/Nixie-Tech-LLC/salawat/internal/timings"
	"github.com/Nixie-Tech-LLC/salawat/internal/worker"
)

type NotificationController struct {
	timings *timings.Service
	worker  *worker.Worker
}

// NotificationModule mounts POST /notifications/test
func NotificationModule(svc *timings.Service, w *worker.Worker) api.Module {
	ctl := &NotificationController{timings: svc, worker: w}
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/notifications/test", ctl.sendTest)
	})
}

func (n *NotificationController) build(kind string) (model.Notification, *api.APIError) {
	now := n.worker.Now()
	switch kind {
	case "", "adhan":
		return reminder.AdhanTest(now), nil
	case "salawat":
		return reminder.Salawat(now), nil
	}

	day, res, err := n.timings.Resolve(now)
	if err != nil {
		return model.Notification{}, &api.APIError{Code: http.StatusConflict, Message: err.Error()}
	}
	if kind == "next" {
		msg, ok := reminder.Welcome(day, res, now)
		if !ok {
			return model.Notification{}, &api.APIError{Code: http.StatusConflict, Message: "no next prayer"}
		}
		return msg, nil
	}
	next, ok := day.Marker(res.NextID)
	if !ok {
		return model.Notification{}, &api.APIError{Code: http.StatusConflict, Message: "no next prayer"}
	}
	return reminder.PreAlert(next, day.Instant(next)), nil
}

// POST /api/admin/notifications/test
func (n *NotificationController) sendTest(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.TestNotificationRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&request); err != nil {
			return nil, api.BadRequest(err.Error())
		}
	}

	msg, apiErr := n.build(request.Kind)
	if apiErr != nil {
		return nil, apiErr
	}
	if err := n.worker.Notify(ctx.Request.Context(), msg); err != nil {
		log.Error().Err(err).Str("kind", msg.Kind).Msg("test notification failed")
		return nil, &api.APIError{Code: http.StatusBadGateway, Message: "could not deliver notification"}
	}
	log.Info().Int("user", user.ID).Str("kind", msg.Kind).Msg("test notification sent")
	return msg, nil
}
