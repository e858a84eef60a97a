package storage

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPConfig tunes the HTTP image fetcher.
type HTTPConfig struct {
	Timeout      time.Duration
	Attempts     int
	RetryWait    time.Duration
	RetryMaxWait time.Duration
	MaxBytes     int64
}

// DefaultHTTPConfig makes three attempts with a 1s to 2s backoff.
func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Timeout:      30 * time.Second,
		Attempts:     3,
		RetryWait:    1 * time.Second,
		RetryMaxWait: 2 * time.Second,
		MaxBytes:     10 << 20,
	}
}

// HTTPImageFetcher downloads images over HTTP(S). Transport errors and 5xx
// responses are retried; 4xx responses are not.
type HTTPImageFetcher struct {
	client   *resty.Client
	attempts int
}

// NewHTTPImageFetcher creates an HTTP image fetcher
func NewHTTPImageFetcher(cfg HTTPConfig) *HTTPImageFetcher {
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Attempts-1).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryMaxWait).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(3)).
		SetHeader("Accept", "image/jpeg, image/png, image/webp, image/bmp, image/tiff, */*").
		SetHeader("User-Agent", "Label-Inspector/1.0").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || (r != nil && r.StatusCode() >= http.StatusInternalServerError)
		})
	if cfg.MaxBytes > 0 {
		client.SetResponseBodyLimit(int(cfg.MaxBytes))
	}

	return &HTTPImageFetcher{client: client, attempts: cfg.Attempts}
}

func (h *HTTPImageFetcher) FetchImage(ctx context.Context, imageURL string) (*LoadedImage, error) {
	resp, err := h.client.R().SetContext(ctx).Get(imageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image after %d attempts: %w", h.attempts, err)
	}

	code := resp.StatusCode()
	switch {
	case code >= 400 && code < 500:
		return nil, fmt.Errorf("client error: status code %d", code)
	case code >= 500:
		return nil, fmt.Errorf("failed to fetch image after %d attempts: server error: status code %d", h.attempts, code)
	case code != http.StatusOK:
		return nil, fmt.Errorf("unexpected status code %d", code)
	}

	return DecodeBytes(resp.Body())
}
