// Package aladhan fetches daily prayer timings from the Aladhan API.
package aladhan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.aladhan.com/v1"

	// MethodEgyptian is the Egyptian General Authority of Survey method.
	MethodEgyptian = 5
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	method     int
	limiter    *rate.Limiter
}

// NewClient creates a rate-limited Aladhan client.
func NewClient(baseURL string, method int, requestsPerMinute int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if requestsPerMinute <= 0 {
		requestsPerMinute = 30
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		method:     method,
		limiter:    rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1),
	}
}

// Response is the subset of the timings response the board uses.
type Response struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   Data   `json:"data"`
}

type Data struct {
	// Timings maps canonical names ("Fajr", "Sunrise", ...) to "HH:MM".
	Timings map[string]string `json:"timings"`
	Date    DateInfo          `json:"date"`
	Meta    Meta              `json:"meta"`
}

type DateInfo struct {
	Readable string    `json:"readable"`
	Hijri    HijriDate `json:"hijri"`
}

type HijriDate struct {
	Date    string     `json:"date"`
	Day     string     `json:"day"`
	Month   HijriMonth `json:"month"`
	Year    string     `json:"year"`
	Weekday struct {
		Ar string `json:"ar"`
	} `json:"weekday"`
}

type HijriMonth struct {
	Number int    `json:"number"`
	Ar     string `json:"ar"`
}

// Arabic renders the date as "day month year هـ", or "" when incomplete.
func (h HijriDate) Arabic() string {
	if h.Day == "" || h.Month.Ar == "" || h.Year == "" {
		return ""
	}
	return h.Day + " " + h.Month.Ar + " " + h.Year + " هـ"
}

type Meta struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
	Method    struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"method"`
}

// Timings fetches the timings of date at the given coordinates.
func (c *Client) Timings(ctx context.Context, date time.Time, lat, lng float64) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("method", strconv.Itoa(c.method))
	u := fmt.Sprintf("%s/timings/%d-%d-%d?%s", c.baseURL, date.Day(), int(date.Month()), date.Year(), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("aladhan request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("aladhan returned %d: %s", resp.StatusCode, truncate(body, 200))
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if out.Code != 0 && out.Code != http.StatusOK {
		return nil, fmt.Errorf("aladhan status %d: %s", out.Code, out.Status)
	}
	if len(out.Data.Timings) == 0 {
		return nil, fmt.Errorf("aladhan response has no timings")
	}

	log.Debug().
		Float64("lat", lat).
		Float64("lng", lng).
		Str("timezone", out.Data.Meta.Timezone).
		Msg("fetched prayer timings")
	return &out, nil
}

// truncate cuts b to at most maxLen bytes on a rune boundary.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	n := maxLen
	for n > 0 && !utf8.RuneStart(b[n]) {
		n--
	}
	return string(b[:n]) + "..."
}
