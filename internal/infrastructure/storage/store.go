package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned when an object does not exist
var ErrNotFound = errors.New("storage: object not found")

// Store persists audio and generated documents under slash-separated keys
type Store interface {
	// Put writes r under key and returns the stored location (the key).
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
	Remove(ctx context.Context, key string) error
}

// URLSigner is implemented by stores that can hand out time-limited URLs
type URLSigner interface {
	SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// LocalPather is implemented by stores backed by the local filesystem
type LocalPather interface {
	LocalPath(key string) string
}
