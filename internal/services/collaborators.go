package services

import (
	"context"
	"io"
)

// MediaStore stores uploaded file streams and returns a stable reference.
// The core never interprets file bytes, only forwards references.
type MediaStore interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error)
}

// EventPublisher emits domain events. Publishing is best-effort on the
// request path; failures are logged, never surfaced to clients.
type EventPublisher interface {
	WriteMessage(ctx context.Context, event string, data []byte) error
}
