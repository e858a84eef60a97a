package repository

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/anime-shed/label-inspector-go/internal/errors"
	"github.com/anime-shed/label-inspector-go/internal/logger"
	"github.com/anime-shed/label-inspector-go/internal/observer"
	"github.com/anime-shed/label-inspector-go/internal/storage"
	"github.com/anime-shed/label-inspector-go/pkg/validation"
)

// URLImageRepository picks the Azure fetcher for blob URLs and the HTTP
// fetcher for everything else.
type URLImageRepository struct {
	http      storage.ImageFetcher
	blob      storage.ImageFetcher
	validator *validation.URLValidator
	events    observer.Subject
}

// NewURLImageRepository creates the repository. blob may be nil when Azure is not configured.
func NewURLImageRepository(http, blob storage.ImageFetcher, events observer.Subject) *URLImageRepository {
	if events == nil {
		events = observer.Nop{}
	}
	return &URLImageRepository{
		http:      http,
		blob:      blob,
		validator: validation.NewURLValidator(),
		events:    events,
	}
}

// FetchImage retrieves an image from a URL
func (r *URLImageRepository) FetchImage(ctx context.Context, imageURL string) (*storage.LoadedImage, error) {
	u, err := r.validator.Parse(imageURL)
	if err != nil {
		return nil, err
	}

	fetcher := r.http
	if storage.IsBlobURL(u) {
		if r.blob == nil {
			return nil, apperrors.NewValidationError("blob URLs are not accepted", ErrBlobStorageDisabled)
		}
		fetcher = r.blob
	}

	start := time.Now()
	loaded, err := fetcher.FetchImage(ctx, u.String())
	event := observer.AnalysisEvent{
		RequestID:      logger.RequestIDFromContext(ctx),
		Source:         u.Redacted(),
		Stage:          observer.StageFetch,
		ProcessingTime: time.Since(start),
		Success:        err == nil,
	}
	if err != nil {
		event.EventType = observer.ImageFetchFailed
		event.ErrorMessage = err.Error()
		r.events.NotifyObservers(ctx, event)
		return nil, classifyFetchError(err)
	}

	event.EventType = observer.ImageFetched
	event.Metadata = map[string]interface{}{
		"format":     loaded.Info.Format,
		"size_bytes": loaded.Info.SizeBytes,
	}
	r.events.NotifyObservers(ctx, event)
	return loaded, nil
}

// ValidateImageURL validates if the provided URL is acceptable
func (r *URLImageRepository) ValidateImageURL(imageURL string) error {
	return r.validator.ValidateImageURL(imageURL)
}

func classifyFetchError(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewTimeoutError("timed out fetching image", err)
	case errors.Is(err, storage.ErrDecode):
		return apperrors.NewValidationError("URL does not point to a supported image", err)
	default:
		return apperrors.NewNetworkError("failed to fetch image", err)
	}
}
