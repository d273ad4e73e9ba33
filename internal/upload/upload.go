// Package upload stores uploaded image blobs and hands back a URL to persist
// on the owning record. Two interchangeable backends exist: local disk and S3.
// Extension legality is the caller's concern; the backends only use the
// extension for naming and content-type selection.
package upload

import (
	"context"
	"path/filepath"
	"strings"
)

// Store writes an opaque byte blob and returns a retrievable URL for it.
type Store interface {
	Save(ctx context.Context, data []byte, originalFilename string) (string, error)
}

var validExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// ValidImageExtension reports whether the filename carries an accepted image
// extension. The check is case-insensitive.
func ValidImageExtension(filename string) bool {
	return validExtensions[strings.ToLower(filepath.Ext(filename))]
}

// extensionOf returns the filename's extension without the dot, defaulting to
// "jpg" when absent.
func extensionOf(filename string) string {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		return "jpg"
	}
	return ext
}

// contentTypeOf maps a filename's extension to its MIME type.
func contentTypeOf(filename string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
