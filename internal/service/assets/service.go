// Package assets implements uploads of binary files (images, resumes) to
// object storage. Uploads land under a per-content-type namespace with a
// collision-resistant key and resolve to a public URL that records store
// as a plain string field.
package assets

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/avoronkov/portfolio-backend/internal/domain"
)

// Namespaces a file may be uploaded under, one per content type that
// carries an asset field.
var validNamespaces = map[string]bool{
	"profile":      true,
	"projects":     true,
	"achievements": true,
	"certificates": true,
	"blogs":        true,
}

type bucket interface {
	Upload(ctx context.Context, key string, r io.Reader) error
	PublicURL(key string) string
}

// Service uploads assets and resolves their public URLs.
type Service struct {
	bucket bucket
	log    *slog.Logger
	now    func() time.Time
}

// NewService creates the asset service.
func NewService(log *slog.Logger, b bucket) *Service {
	return &Service{
		bucket: b,
		log:    log.With("service", "assets"),
		now:    time.Now,
	}
}

// Upload stores the file under the namespace and returns its public URL.
// On failure the caller's existing asset reference must stay untouched;
// no URL is returned alongside an error.
func (s *Service) Upload(ctx context.Context, namespace, filename string, r io.Reader) (string, error) {
	if !validNamespaces[namespace] {
		return "", domain.NewValidationError("namespace", "unknown upload namespace")
	}

	key, err := buildKey(namespace, filename, s.now())
	if err != nil {
		return "", err
	}

	if err := s.bucket.Upload(ctx, key, r); err != nil {
		s.log.ErrorContext(ctx, "upload failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("%w: %v", domain.ErrUpload, err)
	}

	url := s.bucket.PublicURL(key)
	s.log.InfoContext(ctx, "asset uploaded", slog.String("key", key), slog.String("url", url))
	return url, nil
}

// buildKey produces "<namespace>/<unix-nano>-<random>.<ext>". A filename
// without an extension yields a key without an extension segment; that is
// not an error.
func buildKey(namespace, filename string, now time.Time) (string, error) {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("random suffix: %w", err)
	}

	name := fmt.Sprintf("%d-%s", now.UnixNano(), hex.EncodeToString(suffix))
	if ext := fileExtension(filename); ext != "" {
		name += "." + ext
	}

	return namespace + "/" + name, nil
}

// fileExtension extracts a sanitized lowercase extension from the original
// filename, without the dot. "photo.PNG" -> "png", "README" -> "".
func fileExtension(filename string) string {
	ext := strings.TrimPrefix(path.Ext(path.Base(filename)), ".")
	ext = strings.ToLower(strings.TrimSpace(ext))
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
