package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/salawat/internal/config"
	"github.com/Nixie-Tech-LLC/salawat/internal/db"
	"github.com/Nixie-Tech-LLC/salawat/internal/hijri"
	"github.com/Nixie-Tech-LLC/salawat/internal/live"
	"github.com/Nixie-Tech-LLC/salawat/internal/model"
	"github.com/Nixie-Tech-LLC/salawat/internal/notify"
	"github.com/Nixie-Tech-LLC/salawat/internal/provider/aladhan"
	"github.com/Nixie-Tech-LLC/salawat/internal/provider/geocode"
	"github.com/Nixie-Tech-LLC/salawat/internal/redis"
	"github.com/Nixie-Tech-LLC/salawat/internal/reminder"
	"github.com/Nixie-Tech-LLC/salawat/internal/scheduler"
	"github.com/Nixie-Tech-LLC/salawat/internal/tasbeeh"
	"github.com/Nixie-Tech-LLC/salawat/internal/timings"
	"github.com/Nixie-Tech-LLC/salawat/internal/worker"
)

const shutdownTimeout = 10 * time.Second

// kvStore is what counters, reminder markers and sound cues are kept in.
type kvStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Incr(ctx context.Context, key string) (int64, error)
}

func main() {
	loadDotEnv()

	// load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// initialize PostgreSQL
	if err := db.Init(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("db init")
	}
	defer db.Close()

	// run pending migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}
	store := db.NewStore(db.DB)

	kv, closeKV := initKV(ctx, cfg)
	defer closeKV()

	hub := live.NewHub()
	notifier, closeNotifier := initNotifier(cfg, kv, store, hub)
	defer closeNotifier()

	svc := timings.NewService(
		aladhan.NewClient(cfg.AladhanBaseURL, cfg.AladhanMethod, cfg.ProviderRateLimit),
		geocode.NewClient(cfg.GeocodeBaseURL, cfg.ProviderRateLimit),
		store,
		timings.Config{DefaultTimezone: cfg.DefaultTimezone, IncludeSunrise: cfg.IncludeSunrise},
	)
	if cfg.HasPrimary() {
		if err := svc.SetPrimary(model.Location{
			Latitude:  *cfg.PrimaryLat,
			Longitude: *cfg.PrimaryLng,
			City:      cfg.PrimaryCity,
		}); err != nil {
			log.Fatal().Err(err).Msg("invalid primary location")
		}
	}

	calendar, err := hijri.NewCalendar(cfg.HijriTimezone, cfg.HijriAdjustDays)
	if err != nil {
		log.Fatal().Err(err).Msg("hijri calendar")
	}
	zone, err := time.LoadLocation(cfg.DefaultTimezone)
	if err != nil {
		log.Fatal().Err(err).Msg("default timezone")
	}

	w := worker.New(svc, reminder.NewChecker(kv, notifier), notifier, hub, calendar, worker.Config{
		Zone:           zone,
		SalawatEnabled: cfg.SalawatEnabled,
	})

	sched := scheduler.New(ctx)
	if err := w.Register(sched); err != nil {
		log.Fatal().Err(err).Msg("register tasks")
	}
	if err := sched.StartAll(); err != nil {
		log.Fatal().Err(err).Msg("start tasks")
	}
	defer sched.Shutdown()

	// set up gin router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	RegisterRoutes(router, cfg, Services{
		Store:     store,
		Storage:   InitStorage(cfg),
		Sounds:    kv,
		Timings:   svc,
		Worker:    w,
		Hub:       hub,
		Counters:  tasbeeh.NewService(kv),
		Scheduler: sched,
	}, LoadTemplates(cfg.TemplatesPath))

	srv := &http.Server{Addr: cfg.ServerAddress, Handler: router}
	go func() {
		log.Info().Str("address", cfg.ServerAddress).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}

// initKV connects to Redis, or keeps state in memory when REDIS_ADDRESS is unset.
func initKV(ctx context.Context, cfg *config.Config) (kvStore, func()) {
	if cfg.RedisAddress == "" {
		log.Warn().Msg("REDIS_ADDRESS not set, counters and reminder state are kept in memory")
		return redis.NewMemoryStore(), func() {}
	}
	store := redis.NewStore(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)
	if err := store.Ping(ctx); err != nil {
		log.Fatal().Err(err).Str("address", cfg.RedisAddress).Msg("redis unavailable")
	}
	log.Info().Str("address", cfg.RedisAddress).Msg("connected to redis")
	return store, func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("redis close")
		}
	}
}

// initNotifier sends notifications to live board screens and, when a broker
// is configured, to MQTT. Every delivered notification is logged to the store.
func initNotifier(cfg *config.Config, kv kvStore, store db.Store, hub *live.Hub) (notify.Notifier, func()) {
	var transport notify.Notifier = notify.Nop{}
	closeFn := func() {}

	if cfg.MQTTBroker != "" {
		m, err := notify.DialMQTT(cfg.MQTTBroker, cfg.MQTTClientID, cfg.MQTTTopic)
		if err != nil {
			log.Fatal().Err(err).Str("broker", cfg.MQTTBroker).Msg("mqtt connect")
		}
		log.Info().Str("broker", cfg.MQTTBroker).Str("topic", cfg.MQTTTopic).Msg("connected to mqtt broker")
		transport = m
		closeFn = m.Close
	} else {
		log.Warn().Msg("MQTT_BROKER not set, notifications are only logged")
	}

	screens := notify.Func(func(_ context.Context, n model.Notification) error {
		hub.Send(live.Event{Name: live.EventNotification, Data: n})
		return nil
	})
	return notify.Recording(notify.WithSounds(notify.Fanout(transport, screens), kv), store), closeFn
}

// requestLogger logs each request through zerolog.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if c.Request.URL.Path == "/api/live" {
			return
		}
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
