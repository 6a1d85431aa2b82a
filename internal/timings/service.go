// Package timings keeps the current PrayerDay snapshot, refreshing it from
// the provider with a single fallback to a fixed default location.
package timings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Nixie-Tech-LLC/salawat/internal/model"
	"github.com/Nixie-Tech-LLC/salawat/internal/prayer"
	"github.com/Nixie-Tech-LLC/salawat/internal/provider/aladhan"
)

// Board status texts.
const (
	MsgLoading       = "جاري جلب أوقات الصلاة..."
	MsgNoLocation    = "تعذر الحصول على الموقع. جاري استخدام الموقع الافتراضي."
	MsgFetchFailed   = "حدث خطأ في جلب أوقات الصلاة. جاري استخدام الموقع الافتراضي."
	MsgTryLater      = "حدث خطأ في جلب أوقات الصلاة. يرجى المحاولة لاحقًا."
	LabelUnknownCity = "موقعك الحالي"
	LabelDefault     = "موقعك: دمنهور، مصر"
)

var (
	ErrInvalidLocation = errors.New("invalid location")
	ErrNoSnapshot      = errors.New("no prayer times fetched yet")
)

// DefaultLocation is Damanhour, Egypt.
var DefaultLocation = model.Location{
	Latitude:  31.0341,
	Longitude: 30.4685,
	City:      "دمنهور، مصر",
	Timezone:  "Africa/Cairo",
}

type Fetcher interface {
	Timings(ctx context.Context, date time.Time, lat, lng float64) (*aladhan.Response, error)
}

type Geocoder interface {
	City(ctx context.Context, lat, lng float64) (string, error)
}

type Recorder interface {
	SavePrayerDay(rec model.PrayerDayRecord) (int, error)
}

type Config struct {
	Default         model.Location
	DefaultTimezone string
	IncludeSunrise  bool
}

// Status is the location label and status message shown on the board.
type Status struct {
	Label   string `json:"label"`
	Message string `json:"message,omitempty"`
}

type Service struct {
	fetcher  Fetcher
	geocoder Geocoder
	recorder Recorder
	cfg      Config
	now      func() time.Time

	refreshMu sync.Mutex
	mu        sync.RWMutex
	primary   *model.Location

	day    atomic.Pointer[model.PrayerDay]
	status atomic.Pointer[Status]
}

// NewService builds a Service. geocoder and recorder may be nil.
func NewService(fetcher Fetcher, geocoder Geocoder, recorder Recorder, cfg Config) *Service {
	if cfg.Default == (model.Location{}) {
		cfg.Default = DefaultLocation
	}
	if cfg.DefaultTimezone == "" {
		cfg.DefaultTimezone = DefaultLocation.Timezone
	}
	s := &Service{
		fetcher:  fetcher,
		geocoder: geocoder,
		recorder: recorder,
		cfg:      cfg,
		now:      time.Now,
	}
	s.status.Store(&Status{Message: MsgLoading})
	return s
}

// SetClock replaces the time source.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// SetPrimary sets the location fetched first on every refresh.
func (s *Service) SetPrimary(loc model.Location) error {
	if loc.Latitude < -90 || loc.Latitude > 90 || loc.Longitude < -180 || loc.Longitude > 180 {
		return fmt.Errorf("%w: %f,%f", ErrInvalidLocation, loc.Latitude, loc.Longitude)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.primary = &loc
	return nil
}

// ClearPrimary makes refreshes use the default location only.
func (s *Service) ClearPrimary() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.primary = nil
}

func (s *Service) Primary() (model.Location, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.primary == nil {
		return model.Location{}, false
	}
	return *s.primary, true
}

// Snapshot returns the current day, or nil before the first success.
func (s *Service) Snapshot() *model.PrayerDay { return s.day.Load() }

func (s *Service) Status() Status { return *s.status.Load() }

// Resolve resolves t against the current snapshot.
func (s *Service) Resolve(t time.Time) (*model.PrayerDay, model.Resolution, error) {
	day := s.day.Load()
	if day == nil {
		return nil, model.Resolution{}, ErrNoSnapshot
	}
	return day, prayer.ResolveAt(day, t), nil
}

func (s *Service) setStatus(label, message string) {
	s.status.Store(&Status{Label: label, Message: message})
}

// Refresh fetches today's timings, first for the primary location and then,
// on failure or when no primary is set, once for the default location. On
// success the snapshot is replaced; on total failure the previous snapshot
// is kept and the error returned.
func (s *Service) Refresh(ctx context.Context) (*model.PrayerDay, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	prev := s.Status()
	s.setStatus(prev.Label, MsgLoading)

	primary, ok := s.Primary()
	if !ok {
		s.setStatus(prev.Label, MsgNoLocation)
		return s.refreshDefault(ctx, MsgNoLocation)
	}

	day, city, err := s.fetchPrimary(ctx, primary)
	if err != nil {
		log.Error().Err(err).
			Float64("lat", primary.Latitude).
			Float64("lng", primary.Longitude).
			Msg("failed to fetch prayer times, using default location")
		s.setStatus(prev.Label, MsgFetchFailed)
		return s.refreshDefault(ctx, MsgFetchFailed)
	}

	label := LabelUnknownCity
	if city != "" {
		label = "موقعك: " + city
	}
	s.store(day)
	s.setStatus(label, "")
	return day, nil
}

func (s *Service) fetchPrimary(ctx context.Context, loc model.Location) (*model.PrayerDay, string, error) {
	date := s.now().In(s.zone(loc))

	var resp *aladhan.Response
	city := loc.City
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.fetcher.Timings(gctx, date, loc.Latitude, loc.Longitude)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if city == "" && s.geocoder != nil {
		g.Go(func() error {
			c, err := s.geocoder.City(gctx, loc.Latitude, loc.Longitude)
			if err != nil {
				log.Warn().Err(err).Msg("reverse geocode failed")
				return nil
			}
			city = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, "", err
	}

	// Without a configured zone the date was guessed in the default zone.
	// Once the provider names the zone, refetch if the local day differs.
	if loc.Timezone == "" && resp.Data.Meta.Timezone != "" {
		tz, err := time.LoadLocation(resp.Data.Meta.Timezone)
		if err != nil {
			log.Warn().Err(err).Str("timezone", resp.Data.Meta.Timezone).Msg("provider returned unknown timezone")
		} else {
			local := s.now().In(tz)
			if !sameDay(local, date) {
				log.Debug().Str("timezone", tz.String()).Msg("refetching prayer timings for the local day")
				r, err := s.fetcher.Timings(ctx, local, loc.Latitude, loc.Longitude)
				if err != nil {
					return nil, "", err
				}
				resp = r
			}
			date = local
			s.learnTimezone(loc, tz.String())
		}
	}

	loc.City = city
	day, err := s.build(resp, date, loc, false)
	if err != nil {
		return nil, "", err
	}
	return day, city, nil
}

func (s *Service) refreshDefault(ctx context.Context, reason string) (*model.PrayerDay, error) {
	loc := s.cfg.Default
	date := s.now().In(s.zone(loc))

	resp, err := s.fetcher.Timings(ctx, date, loc.Latitude, loc.Longitude)
	if err == nil {
		var day *model.PrayerDay
		day, err = s.build(resp, date, loc, true)
		if err == nil {
			s.store(day)
			s.setStatus(LabelDefault, reason)
			return day, nil
		}
	}

	log.Error().Err(err).Msg("failed to fetch default prayer times")
	s.setStatus(s.Status().Label, MsgTryLater)
	return nil, fmt.Errorf("fetch default prayer times: %w", err)
}

func (s *Service) build(resp *aladhan.Response, date time.Time, loc model.Location, fallback bool) (*model.PrayerDay, error) {
	if resp.Data.Meta.Timezone != "" {
		loc.Timezone = resp.Data.Meta.Timezone
	}
	if loc.Timezone == "" {
		loc.Timezone = s.cfg.DefaultTimezone
	}
	return prayer.FromTimings(resp.Data.Timings, prayer.Options{
		Date:           date,
		Location:       loc,
		Hijri:          resp.Data.Date.Hijri.Arabic(),
		Fallback:       fallback,
		FetchedAt:      s.now(),
		IncludeSunrise: s.cfg.IncludeSunrise,
	})
}

// learnTimezone stores tz on the primary location if it is still loc.
func (s *Service) learnTimezone(loc model.Location, tz string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.primary == nil || s.primary.Latitude != loc.Latitude || s.primary.Longitude != loc.Longitude || s.primary.Timezone != "" {
		return
	}
	s.primary.Timezone = tz
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (s *Service) zone(loc model.Location) *time.Location {
	if loc.Timezone == "" {
		loc.Timezone = s.cfg.DefaultTimezone
	}
	return loc.TimeLocation()
}

func (s *Service) store(day *model.PrayerDay) {
	s.day.Store(day)
	if s.recorder == nil {
		return
	}
	rec, err := Record(day)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode prayer day")
		return
	}
	if _, err := s.recorder.SavePrayerDay(rec); err != nil {
		log.Error().Err(err).Msg("failed to record prayer day")
	}
}

// Record converts a day into its history row.
func Record(day *model.PrayerDay) (model.PrayerDayRecord, error) {
	timings := make(map[string]string, day.Len())
	for _, m := range day.Markers() {
		timings[m.ID] = m.Time.String()
	}
	raw, err := json.Marshal(timings)
	if err != nil {
		return model.PrayerDayRecord{}, fmt.Errorf("encode timings: %w", err)
	}

	loc := day.Location()
	rec := model.PrayerDayRecord{
		Day:       day.Date(),
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Timezone:  day.Date().Location().String(),
		Fallback:  day.Fallback(),
		Timings:   string(raw),
		FetchedAt: day.FetchedAt(),
	}
	if loc.City != "" {
		city := loc.City
		rec.City = &city
	}
	if h := day.Hijri(); h != "" {
		rec.Hijri = &h
	}
	return rec, nil
}
