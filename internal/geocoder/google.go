// Package geocoder talks to a geocoding API that speaks the Google Geocoding
// JSON format: GET <url>?address=...&key=... returning
// {status, results: [{formatted_address, geometry: {location: {lat, lng}}}]}.
package geocoder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"geodistance-api/internal/config"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

const (
	// StatusOK is the only upstream status that carries results.
	StatusOK = "OK"
	// StatusZeroResults is reported when an OK reply has an empty result list.
	StatusZeroResults = "ZERO_RESULTS"

	defaultTimeout = 5 * time.Second
	maxBodyBytes   = 1 << 20
)

// Result is the first match returned by the upstream.
type Result struct {
	FormattedAddress string
	Lat              *float64
	Lng              *float64
}

// Client resolves addresses against the upstream. It never retries and is
// safe for concurrent use.
type Client struct {
	cfg     config.GeocoderConfig
	session *http.Client
}

// NewClient creates a client for cfg. An incomplete cfg is accepted here and
// reported by Geocode, so the service can still start and serve cached data.
func NewClient(cfg config.GeocoderConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		cfg:     cfg,
		session: &http.Client{Timeout: timeout},
	}
}

// Geocode looks up address upstream. Errors are config.ErrGeocoderNotConfigured,
// *TransportError or *StatusError.
func (c *Client) Geocode(ctx context.Context, address string) (*Result, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx)
	start := time.Now()

	body, err := c.fetch(ctx, address)
	if err != nil {
		logger.Debug().Err(err).Dur("dur", time.Since(start)).Msg("geocoder: request failed")
		return nil, &TransportError{Err: err}
	}
	logger.Debug().Dur("dur", time.Since(start)).Int("bytes", len(body)).Msg("geocoder: response received")

	return parse(body)
}

func (c *Client) newRequest(ctx context.Context, address string) (*http.Request, error) {
	u, err := url.Parse(c.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse geocoder url: %w", err)
	}

	q := u.Query()
	q.Set("address", address)
	q.Set("key", c.cfg.APIKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	return req, nil
}

func (c *Client) fetch(ctx context.Context, address string) ([]byte, error) {
	req, err := c.newRequest(ctx, address)
	if err != nil {
		return nil, err
	}

	resp, err := c.session.Do(req)
	if err != nil {
		return nil, redactKey(err, c.cfg.APIKey)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}

	return b, nil
}

func parse(body []byte) (*Result, error) {
	if !gjson.ValidBytes(body) {
		return nil, &TransportError{Err: errors.New("invalid JSON in geocoder response")}
	}

	doc := gjson.ParseBytes(body)
	status := doc.Get("status").String()
	if status != StatusOK {
		return nil, &StatusError{Status: status, Message: doc.Get("error_message").String()}
	}

	if doc.Get("results.#").Int() == 0 {
		return nil, &StatusError{Status: StatusZeroResults}
	}

	first := doc.Get("results.0")
	formatted := first.Get("formatted_address").String()
	if strings.TrimSpace(formatted) == "" {
		return nil, &TransportError{Err: errors.New("geocoder response has no formatted_address")}
	}

	res := &Result{FormattedAddress: formatted}
	if lat := first.Get("geometry.location.lat"); lat.Exists() {
		v := lat.Float()
		res.Lat = &v
	}
	if lng := first.Get("geometry.location.lng"); lng.Exists() {
		v := lng.Float()
		res.Lng = &v
	}

	return res, nil
}

// redactKey keeps the api key out of url.Error messages, which quote the URL.
func redactKey(err error, key string) error {
	if key == "" {
		return err
	}
	msg := strings.ReplaceAll(err.Error(), url.QueryEscape(key), "REDACTED")
	if msg == err.Error() {
		return err
	}
	return errors.New(msg)
}
