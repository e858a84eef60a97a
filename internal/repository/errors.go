package repository

import "errors"

var (
	// ErrBlobStorageDisabled indicates a blob URL was given but no Azure account is configured
	ErrBlobStorageDisabled = errors.New("azure blob storage is not configured")
)
