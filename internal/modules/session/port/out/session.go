package out

import (
	"context"

	"studyplan/internal/modules/session/domain"
)

// BlobStore is a key/value slot holding whole serialized values.
// Get returns apperrors.ErrNotFound for a missing key.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Notifier delivers fire-and-forget user notifications.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}

type ShareCodec interface {
	Encode(payload domain.SharePayload) (string, error)
	Decode(link string) (domain.SharePayload, error)
}

type SubjectCatalog interface {
	SubjectName(code string) string
	Message(key string, args ...any) (string, string)
}
