//go:generate mockgen -source=store.go -destination=mocks/store_mock.go -package=mocks
package image

import (
	"context"
	"errors"
	"time"
)

// ErrUnsupportedType is returned by Save when the upload is not a png or jpeg image.
var ErrUnsupportedType = errors.New("unsupported image type")

// Upload is a single uploaded file as received from the transport.
type Upload struct {
	Data         []byte
	OriginalName string
	MimeType     string
}

// ImageStore keeps post images as individually addressable files.
type ImageStore interface {
	// Save persists the upload under a generated unique name and returns its path.
	Save(ctx context.Context, upload *Upload) (string, error)
	// Delete removes the file at path. Failures are recorded, never returned.
	Delete(ctx context.Context, path string)
}

// DefaultRecentLimit is used by FailureJournal.Recent when limit is not positive.
const DefaultRecentLimit = 50

// FailureJournal records image deletions that could not be carried out.
type FailureJournal interface {
	Record(ctx context.Context, failure DeleteFailure) error
	Recent(ctx context.Context, limit int64) ([]DeleteFailure, error)
}

type DeleteFailure struct {
	Path     string    `json:"path"`
	Reason   string    `json:"reason"`
	FailedAt time.Time `json:"failedAt"`
}
