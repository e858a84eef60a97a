package repository

import (
	"context"

	"github.com/anime-shed/label-inspector-go/internal/storage"
)

// ImageRepository defines the interface for image data access operations
type ImageRepository interface {
	// FetchImage retrieves and decodes an image from an http(s) or Azure blob URL
	FetchImage(ctx context.Context, imageURL string) (*storage.LoadedImage, error)

	// ValidateImageURL validates if the provided URL is acceptable
	ValidateImageURL(imageURL string) error
}
