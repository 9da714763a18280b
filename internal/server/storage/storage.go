// Package storage keeps uploaded project images, either on local disk or in
// an S3-compatible bucket.
package storage

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MediaStore persists uploaded files and returns their public URLs.
type MediaStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	// Delete removes the object behind a URL previously returned by Put.
	// URLs that do not belong to the store are ignored.
	Delete(ctx context.Context, url string) error
}

// NewKey builds an object key "projects/<yyyy>/<mm>/<uuid><ext>" keeping the
// lower-cased extension of the uploaded file name.
func NewKey(filename string, now time.Time) string {
	ext := strings.ToLower(path.Ext(filename))
	if len(ext) > 10 {
		ext = ""
	}
	return path.Join("projects", now.Format("2006"), now.Format("01"), uuid.NewString()+ext)
}

func joinURL(base, key string) string {
	return strings.TrimSuffix(base, "/") + "/" + key
}

// keyFromURL reverses joinURL. ok is false for foreign URLs.
func keyFromURL(base, url string) (string, bool) {
	prefix := strings.TrimSuffix(base, "/") + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	if key == "" || strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}
