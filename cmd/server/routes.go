package main

import (
	"html/template"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/salawat/internal/config"
	"github.com/Nixie-Tech-LLC/salawat/internal/db"
	"github.com/Nixie-Tech-LLC/salawat/internal/http/api"
	authapi "github.com/Nixie-Tech-LLC/salawat/internal/http/api/admin/auth/endpoints"
	adminapi "github.com/Nixie-Tech-LLC/salawat/internal/http/api/admin/control/endpoints"
	boardapi "github.com/Nixie-Tech-LLC/salawat/internal/http/api/board/endpoints"
	"github.com/Nixie-Tech-LLC/salawat/internal/live"
	"github.com/Nixie-Tech-LLC/salawat/internal/scheduler"
	"github.com/Nixie-Tech-LLC/salawat/internal/storage"
	"github.com/Nixie-Tech-LLC/salawat/internal/tasbeeh"
	"github.com/Nixie-Tech-LLC/salawat/internal/timings"
	"github.com/Nixie-Tech-LLC/salawat/internal/worker"
)

// Services is everything the routes are built from.
type Services struct {
	Store     db.Store
	Storage   storage.Storage
	Sounds    adminapi.SoundStore
	Timings   *timings.Service
	Worker    *worker.Worker
	Hub       *live.Hub
	Counters  *tasbeeh.Service
	Scheduler *scheduler.Scheduler
}

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, cfg *config.Config, svc Services, tmpl *template.Template) {
	r.SetHTMLTemplate(tmpl)
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
			"Cache-Control",
		},
		ExposeHeaders: []string{
			"Content-Length",
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{},
		boardapi.PagesModule(svc.Worker, svc.Counters),
	)

	api.MountGroup(r, api.GroupConfig{Prefix: "/api"},
		boardapi.BoardModule(svc.Worker, svc.Timings, svc.Hub),
		boardapi.TasbeehModule(svc.Counters),
	)

	api.MountGroup(r, api.GroupConfig{Prefix: "/api/admin"},
		authapi.AuthPublicModule(cfg.JWTSecret, svc.Store, cfg.AllowSignup),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: cfg.JWTSecret,
		Users:     svc.Store,
	},
		// session endpoints that require auth
		authapi.AuthSessionModule(cfg.JWTSecret, svc.Store),
		// control modules
		adminapi.LocationModule(svc.Timings, svc.Worker),
		adminapi.HistoryModule(svc.Store),
		adminapi.NotificationModule(svc.Timings, svc.Worker),
		adminapi.AudioModule(svc.Storage, svc.Sounds),
		adminapi.TaskModule(svc.Scheduler),
	)

	// Static content
	if !cfg.UseSpaces {
		r.Static(uploadsURL, cfg.UploadsPath)
	}
}
