package endpoints

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/salawat/internal/http/api"
	"github.com/Nixie-Tech-LLC/salawat/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/salawat/internal/model"
	"github.com/Nixie-Tech-LLC/salawat/internal/notify"
	"github.com/Nixie-Tech-LLC/salawat/internal/storage"
)

// SoundStore keeps the URL of each uploaded sound cue.
type SoundStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
}

type AudioController struct {
	storage storage.Storage
	sounds  SoundStore
}

// AudioModule mounts /audio
func AudioModule(st storage.Storage, sounds SoundStore) api.Module {
	ctl := &AudioController{storage: st, sounds: sounds}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/audio", ctl.listAudio)
		c.POST("/audio", ctl.uploadAudio)
	})
}

var cues = []string{model.SoundNotification, model.SoundAdhan}

func validCue(cue string) bool {
	for _, c := range cues {
		if c == cue {
			return true
		}
	}
	return false
}

// GET /api/admin/audio
func (a *AudioController) listAudio(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	out := make([]packets.AudioResponse, 0, len(cues))
	for _, cue := range cues {
		url, ok, err := a.sounds.Get(ctx.Request.Context(), notify.SoundKey(cue))
		if err != nil {
			return nil, api.Internal("could not read audio cues")
		}
		if ok {
			out = append(out, packets.AudioResponse{Cue: cue, URL: url})
		}
	}
	return out, nil
}

// POST /api/admin/audio (multipart: cue, file)
func (a *AudioController) uploadAudio(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	cue := ctx.PostForm("cue")
	if !validCue(cue) {
		return nil, api.BadRequest("cue must be notification or adhan")
	}
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return nil, api.BadRequest("missing file")
	}

	url, err := a.storage.SaveAudio(ctx.Request.Context(), fileHeader, cue)
	switch {
	case errors.Is(err, storage.ErrUnsupportedAudio), errors.Is(err, storage.ErrTooLarge):
		return nil, api.BadRequest(err.Error())
	case err != nil:
		log.Error().Err(err).Msg("audio upload failed")
		return nil, api.Internal("could not store audio")
	}

	if err := a.sounds.Set(ctx.Request.Context(), notify.SoundKey(cue), url); err != nil {
		return nil, api.Internal("could not save audio url")
	}
	log.Info().Int("user", user.ID).Str("cue", cue).Str("url", url).Msg("audio cue uploaded")
	return api.Created{Body: packets.AudioResponse{Cue: cue, URL: url}}, nil
}
