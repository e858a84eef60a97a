package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/anime-shed/label-inspector-go/pkg/models"
)

// ErrDecode marks data that is not a supported image.
var ErrDecode = errors.New("failed to decode image")

// LoadedImage is a decoded image together with what is known about its encoding.
type LoadedImage struct {
	Image image.Image
	Info  models.ImageInfo
}

// ImageFetcher loads and decodes an image from a reference such as a URL or a path.
type ImageFetcher interface {
	FetchImage(ctx context.Context, ref string) (*LoadedImage, error)
}

// DecodeBytes decodes JPEG, PNG, BMP, TIFF or WEBP data.
func DecodeBytes(data []byte) (*LoadedImage, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrDecode)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	b := img.Bounds()
	return &LoadedImage{
		Image: img,
		Info: models.ImageInfo{
			Format:    format,
			Width:     b.Dx(),
			Height:    b.Dy(),
			SizeBytes: int64(len(data)),
		},
	}, nil
}
