package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	imagePort "github.com/eunmi228/PostApp/internal/ports/image"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofrs/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var acceptedTypes = map[string]bool{
	"image/png":  true,
	"image/jpg":  true,
	"image/jpeg": true,
}

// DiskImageStore keeps images as flat files at the root of fs. Stored paths
// are prefixed with urlPrefix so they can be served as static files.
type DiskImageStore struct {
	fs        afero.Fs
	urlPrefix string
	journal   imagePort.FailureJournal
	logger    *zap.Logger
	now       func() time.Time
}

func NewDiskImageStore(fs afero.Fs, urlPrefix string, journal imagePort.FailureJournal, logger *zap.Logger) *DiskImageStore {
	return &DiskImageStore{
		fs:        fs,
		urlPrefix: strings.Trim(urlPrefix, "/"),
		journal:   journal,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *DiskImageStore) Save(ctx context.Context, upload *imagePort.Upload) (string, error) {
	if upload == nil || len(upload.Data) == 0 {
		return "", imagePort.ErrUnsupportedType
	}

	mimeType := normalizeMime(upload.MimeType)
	if mimeType == "" {
		mimeType = normalizeMime(mimetype.Detect(upload.Data).String())
	}
	if !acceptedTypes[mimeType] {
		s.logger.Info("Rejected image upload", zap.String("mimeType", mimeType), zap.String("name", upload.OriginalName))
		return "", imagePort.ErrUnsupportedType
	}

	name := fmt.Sprintf("%s-%s-%s",
		s.now().UTC().Format("20060102T150405.000000000Z"),
		uuid.Must(uuid.NewV4()).String(),
		sanitizeName(upload.OriginalName, mimeType),
	)

	f, err := s.fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	if _, err := f.Write(upload.Data); err != nil {
		f.Close()
		_ = s.fs.Remove(name)
		return "", fmt.Errorf("write image file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = s.fs.Remove(name)
		return "", fmt.Errorf("close image file: %w", err)
	}

	stored := path.Join(s.urlPrefix, name)
	s.logger.Debug("Stored image", zap.String("path", stored), zap.Int("bytes", len(upload.Data)))
	return stored, nil
}

// Delete is best-effort: any failure is logged and journaled.
func (s *DiskImageStore) Delete(ctx context.Context, stored string) {
	name, ok := s.resolve(stored)
	if !ok {
		s.fail(ctx, stored, fmt.Errorf("path is outside the image directory"))
		return
	}
	if err := s.fs.Remove(name); err != nil {
		s.fail(ctx, stored, err)
		return
	}
	s.logger.Debug("Deleted image", zap.String("path", stored))
}

func (s *DiskImageStore) resolve(stored string) (string, bool) {
	clean := path.Clean(strings.TrimPrefix(filepath.ToSlash(stored), "/"))
	prefix := s.urlPrefix + "/"
	if s.urlPrefix == "" {
		prefix = ""
	}
	if !strings.HasPrefix(clean, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(clean, prefix)
	if name == "" || name == "." || strings.Contains(name, "/") {
		return "", false
	}
	return name, true
}

func (s *DiskImageStore) fail(ctx context.Context, stored string, cause error) {
	s.logger.Warn("Could not delete image", zap.String("path", stored), zap.Error(cause))
	if s.journal == nil {
		return
	}
	failure := imagePort.DeleteFailure{Path: stored, Reason: cause.Error(), FailedAt: s.now().UTC()}
	if err := s.journal.Record(ctx, failure); err != nil {
		s.logger.Error("Could not journal image delete failure", zap.String("path", stored), zap.Error(err))
	}
}

func normalizeMime(t string) string {
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return strings.ToLower(strings.TrimSpace(t))
}

func sanitizeName(original, mimeType string) string {
	base := filepath.Base(filepath.ToSlash(original))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	name := strings.Trim(b.String(), ".")
	if name == "" {
		name = "image"
		if ext := mimetype.Lookup(mimeType); ext != nil {
			name += ext.Extension()
		}
	}
	return name
}
