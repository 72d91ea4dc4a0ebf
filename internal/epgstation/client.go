package epgstation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"wolwake/internal/models"
	"wolwake/internal/providers"
	"wolwake/internal/structures"

	json "github.com/goccy/go-json"
)

const (
	reservesPath    = "/reserves"
	maxResponseSize = 16 << 20 // 16 MB
)

var ErrFetch = errors.New("reservation fetch failed")

type SourceInterface interface {
	FetchReservations(ctx context.Context) ([]*models.Reservation, error)
}

// Client reads upcoming reservations from the EPGStation REST API.
type Client struct {
	apiURL     string
	httpClient *http.Client
	logger     providers.Logger
}

func NewClient(conf *structures.Config, logger providers.Logger) SourceInterface {
	return &Client{
		apiURL: strings.TrimRight(conf.EpgStation.ApiUrl, "/"),
		httpClient: &http.Client{
			Timeout: conf.EpgStation.RequestTimeout(),
		},
		logger: logger,
	}
}

func (c *Client) FetchReservations(ctx context.Context) ([]*models.Reservation, error) {
	url := c.apiURL + reservesPath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", ErrFetch, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: GET %s: unexpected status %s", ErrFetch, url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrFetch, err)
	}
	c.logger.Debugf(providers.TypeRefresh, "GET %s: %d bytes in %s", url, len(body), time.Since(started))

	return c.decode(body)
}

// decode accepts a bare array or an object carrying a "reserves" array.
func (c *Client) decode(body []byte) ([]*models.Reservation, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty response body", ErrFetch)
	}

	switch trimmed[0] {
	case '[':
		var reserves []*models.Reservation
		if err := json.Unmarshal(trimmed, &reserves); err != nil {
			return nil, fmt.Errorf("%w: decode array: %v", ErrFetch, err)
		}
		return compact(reserves), nil
	case '{':
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("%w: decode object: %v", ErrFetch, err)
		}
		raw, ok := envelope["reserves"]
		if !ok {
			c.logger.Warnf(providers.TypeRefresh, "Unexpected API response: object without reserves")
			return []*models.Reservation{}, nil
		}
		var reserves []*models.Reservation
		if err := json.Unmarshal(raw, &reserves); err != nil {
			return nil, fmt.Errorf("%w: decode reserves: %v", ErrFetch, err)
		}
		return compact(reserves), nil
	default:
		var probe interface{}
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			return nil, fmt.Errorf("%w: decode: %v", ErrFetch, err)
		}
		c.logger.Warnf(providers.TypeRefresh, "Unexpected API response type: %T", probe)
		return []*models.Reservation{}, nil
	}
}

// compact drops null array entries.
func compact(reserves []*models.Reservation) []*models.Reservation {
	out := make([]*models.Reservation, 0, len(reserves))
	for _, r := range reserves {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}
