package repository

import (
	"context"
	"errors"
	"fmt"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/anime-shed/label-inspector-go/internal/errors"
	"github.com/anime-shed/label-inspector-go/internal/observer"
	"github.com/anime-shed/label-inspector-go/internal/storage"
	"github.com/anime-shed/label-inspector-go/pkg/models"
)

type stubFetcher struct {
	calls []string
	err   error
}

func (s *stubFetcher) FetchImage(ctx context.Context, ref string) (*storage.LoadedImage, error) {
	s.calls = append(s.calls, ref)
	if s.err != nil {
		return nil, s.err
	}
	return &storage.LoadedImage{
		Image: image.NewGray(image.Rect(0, 0, 120, 120)),
		Info:  models.ImageInfo{Format: "png", Width: 120, Height: 120},
	}, nil
}

type eventRecorder struct{ events []observer.AnalysisEvent }

func (e *eventRecorder) OnEvent(ctx context.Context, ev observer.AnalysisEvent) {
	e.events = append(e.events, ev)
}
func (e *eventRecorder) GetObserverName() string { return "recorder" }

func TestFetchImage_Dispatch(t *testing.T) {
	httpF, blobF := &stubFetcher{}, &stubFetcher{}
	repo := NewURLImageRepository(httpF, blobF, nil)

	_, err := repo.FetchImage(context.Background(), "https://cdn.example.com/jam.jpg")
	require.NoError(t, err)
	_, err = repo.FetchImage(context.Background(), "https://acct.blob.core.windows.net/labels/jam.jpg")
	require.NoError(t, err)

	assert.Equal(t, []string{"https://cdn.example.com/jam.jpg"}, httpF.calls)
	assert.Equal(t, []string{"https://acct.blob.core.windows.net/labels/jam.jpg"}, blobF.calls)
}

func TestFetchImage_BlobDisabled(t *testing.T) {
	repo := NewURLImageRepository(&stubFetcher{}, nil, nil)
	_, err := repo.FetchImage(context.Background(), "https://acct.blob.core.windows.net/labels/jam.jpg")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	assert.ErrorIs(t, err, ErrBlobStorageDisabled)
}

func TestFetchImage_InvalidURL(t *testing.T) {
	httpF := &stubFetcher{}
	repo := NewURLImageRepository(httpF, nil, nil)
	_, err := repo.FetchImage(context.Background(), "ftp://example.com/jam.jpg")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	assert.Empty(t, httpF.calls)
}

func TestFetchImage_ErrorClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperrors.ErrorType
	}{
		{"timeout", fmt.Errorf("get: %w", context.DeadlineExceeded), apperrors.ErrorTypeTimeout},
		{"decode", fmt.Errorf("%w: unknown format", storage.ErrDecode), apperrors.ErrorTypeValidation},
		{"network", errors.New("client error: status code 404"), apperrors.ErrorTypeNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewURLImageRepository(&stubFetcher{err: tt.err}, nil, nil)
			_, err := repo.FetchImage(context.Background(), "https://example.com/jam.jpg")
			assert.True(t, apperrors.IsType(err, tt.want), "got %v", err)
		})
	}
}

func TestFetchImage_PublishesEvents(t *testing.T) {
	pub := observer.NewEventPublisher()
	rec := &eventRecorder{}
	pub.Subscribe(rec)

	repo := NewURLImageRepository(&stubFetcher{}, nil, pub)
	_, err := repo.FetchImage(context.Background(), "https://example.com/jam.jpg")
	require.NoError(t, err)

	failing := NewURLImageRepository(&stubFetcher{err: errors.New("boom")}, nil, pub)
	_, err = failing.FetchImage(context.Background(), "https://example.com/jam.jpg")
	require.Error(t, err)

	require.Len(t, rec.events, 2)
	assert.Equal(t, observer.ImageFetched, rec.events[0].EventType)
	assert.Equal(t, "png", rec.events[0].Metadata["format"])
	assert.Equal(t, observer.ImageFetchFailed, rec.events[1].EventType)
	assert.Equal(t, "boom", rec.events[1].ErrorMessage)
}
