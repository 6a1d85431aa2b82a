package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds environment-based settings
type Config struct {
	Environment    string
	LogLevel       string
	ServerAddress  string
	DatabaseURL    string
	MigrationsPath string
	JWTSecret      string
	TemplatesPath  string
	UploadsPath    string

	RedisAddress  string
	RedisUsername string
	RedisPassword string

	MQTTBroker   string
	MQTTClientID string
	MQTTTopic    string

	AladhanBaseURL string
	AladhanMethod  int
	GeocodeBaseURL string
	// provider requests per minute
	ProviderRateLimit int

	// PrimaryLat/PrimaryLng are nil when no primary location is configured.
	PrimaryLat      *float64
	PrimaryLng      *float64
	PrimaryCity     string
	DefaultTimezone string
	HijriTimezone   string
	HijriAdjustDays int
	IncludeSunrise  bool
	SalawatEnabled  bool
	// AllowSignup opens admin signup after the first account exists.
	AllowSignup bool

	UseSpaces       bool
	SpacesEndpoint  string
	SpacesRegion    string
	SpacesBucket    string
	SpacesCDNURL    string
	SpacesAccessKey string
	SpacesSecretKey string
}

// IsDevelopment reports whether APP_ENV is "development".
func (c *Config) IsDevelopment() bool { return c.Environment == "development" }

func (c *Config) HasPrimary() bool { return c.PrimaryLat != nil && c.PrimaryLng != nil }

// Load reads configuration from environment variables
func Load() (*Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads configuration through getenv.
func LoadFrom(getenv func(string) string) (*Config, error) {
	str := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Environment:    str("APP_ENV", "production"),
		LogLevel:       str("LOG_LEVEL", "info"),
		ServerAddress:  str("SERVER_ADDRESS", ":8080"),
		DatabaseURL:    getenv("DATABASE_URL"),
		MigrationsPath: str("MIGRATIONS_PATH", "./migrations"),
		JWTSecret:      getenv("JWT_SECRET"),
		TemplatesPath:  str("TEMPLATES_PATH", "./templates"),
		UploadsPath:    str("UPLOADS_PATH", "./uploads"),

		RedisAddress:  getenv("REDIS_ADDRESS"),
		RedisUsername: getenv("REDIS_USERNAME"),
		RedisPassword: getenv("REDIS_PASSWORD"),

		MQTTBroker:   getenv("MQTT_BROKER"),
		MQTTClientID: str("MQTT_CLIENT_ID", "salawat-server"),
		MQTTTopic:    str("MQTT_TOPIC", "salawat/notifications"),

		AladhanBaseURL: str("ALADHAN_BASE_URL", "https://api.aladhan.com/v1"),
		GeocodeBaseURL: str("GEOCODE_BASE_URL", "https://api.bigdatacloud.net"),

		PrimaryCity:     getenv("PRIMARY_CITY"),
		DefaultTimezone: str("DEFAULT_TIMEZONE", "Africa/Cairo"),
		HijriTimezone:   str("HIJRI_TIMEZONE", "Asia/Riyadh"),

		UseSpaces:       getenv("USE_SPACES") == "true",
		SpacesEndpoint:  getenv("SPACES_ENDPOINT"),
		SpacesRegion:    getenv("SPACES_REGION"),
		SpacesBucket:    getenv("SPACES_BUCKET"),
		SpacesCDNURL:    getenv("SPACES_CDN_URL"),
		SpacesAccessKey: getenv("SPACES_ACCESS_KEY"),
		SpacesSecretKey: getenv("SPACES_SECRET_KEY"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	var errs []error
	intVar := func(dst *int, key string, def int) {
		*dst = def
		v := getenv(key)
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = n
	}
	boolVar := func(dst *bool, key string, def bool) {
		*dst = def
		v := getenv(key)
		if v == "" {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = b
	}
	floatVar := func(key string) *float64 {
		v := getenv(key)
		if v == "" {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return nil
		}
		return &f
	}

	intVar(&cfg.AladhanMethod, "ALADHAN_METHOD", 5)
	intVar(&cfg.ProviderRateLimit, "PROVIDER_RATE_LIMIT", 30)
	intVar(&cfg.HijriAdjustDays, "HIJRI_ADJUST_DAYS", -1)
	boolVar(&cfg.IncludeSunrise, "INCLUDE_SUNRISE", true)
	boolVar(&cfg.SalawatEnabled, "SALAWAT_ENABLED", true)
	boolVar(&cfg.AllowSignup, "ALLOW_SIGNUP", false)
	cfg.PrimaryLat = floatVar("PRIMARY_LAT")
	cfg.PrimaryLng = floatVar("PRIMARY_LNG")

	if (cfg.PrimaryLat == nil) != (cfg.PrimaryLng == nil) {
		errs = append(errs, errors.New("PRIMARY_LAT and PRIMARY_LNG must be set together"))
	}
	for _, tz := range []struct{ key, name string }{
		{"DEFAULT_TIMEZONE", cfg.DefaultTimezone},
		{"HIJRI_TIMEZONE", cfg.HijriTimezone},
	} {
		if _, err := time.LoadLocation(tz.name); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", tz.key, err))
		}
	}
	if cfg.UseSpaces && (cfg.SpacesEndpoint == "" || cfg.SpacesBucket == "") {
		errs = append(errs, errors.New("SPACES_ENDPOINT and SPACES_BUCKET are required when USE_SPACES=true"))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
