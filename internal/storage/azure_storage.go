package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

type azureStorage struct {
	client   *azblob.Client
	maxBytes int64
}

// NewAzureStorage creates a blob fetcher authenticated with a shared key.
func NewAzureStorage(accountName, accountKey string, maxBytes int64) (ImageFetcher, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid azure credentials: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create azure client: %w", err)
	}

	return &azureStorage{client: client, maxBytes: maxBytes}, nil
}

func (s *azureStorage) FetchImage(ctx context.Context, blobURL string) (*LoadedImage, error) {
	containerName, blobName, err := ParseBlobURL(blobURL)
	if err != nil {
		return nil, err
	}

	downloadResponse, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	body := downloadResponse.Body
	defer body.Close()

	var r io.Reader = body
	if s.maxBytes > 0 {
		r = io.LimitReader(body, s.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("blob exceeds %d bytes", s.maxBytes)
	}
	return DecodeBytes(data)
}

// IsBlobURL reports whether u points at Azure blob storage.
func IsBlobURL(u *url.URL) bool {
	return u != nil && strings.HasSuffix(strings.ToLower(u.Hostname()), ".blob.core.windows.net")
}

// ParseBlobURL splits https://<account>.blob.core.windows.net/<container>/<blob>
// into container and blob names. The form /<container>?blob=<blob> is accepted too.
func ParseBlobURL(blobURL string) (container, blob string, err error) {
	u, err := url.Parse(blobURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid blob URL: %w", err)
	}
	path := strings.TrimPrefix(u.Path, "/")
	container, blob, _ = strings.Cut(path, "/")
	if blob == "" {
		blob = u.Query().Get("blob")
	}
	if container == "" || blob == "" {
		return "", "", fmt.Errorf("invalid blob URL: expected /<container>/<blob>")
	}
	return container, blob, nil
}
