// AngelaMos | 2026
// media.go

package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/pakair-dev/pakair-api/internal/core"
)

// MaxUploadSize caps a single media file at 20 MiB, checked before any
// bytes leave the process.
const MaxUploadSize = 20 * 1024 * 1024

type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Asset is a stored media object as the rest of the system sees it.
type Asset struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Filename string `json:"filename"`
	Kind     Kind   `json:"kind"`
}

type File struct {
	Filename    string
	ContentType string
	Size        int64
	Content     []byte
}

// Uploader stores validated files with a remote media service and removes
// them again when a write needs to be rolled back.
type Uploader interface {
	Upload(ctx context.Context, file File) (*Asset, error)
	Delete(ctx context.Context, publicID string, kind Kind) error
}

// ValidateFile enforces the size cap and the content-type allowlist. It runs
// before upload so rejected files never reach the network.
func ValidateFile(file File) (Kind, error) {
	if file.Size > MaxUploadSize {
		return "", fmt.Errorf(
			"file %q exceeds size limit: %w",
			file.Filename,
			core.ErrPayloadTooLarge,
		)
	}

	kind, err := KindFromContentType(file.ContentType)
	if err != nil {
		return "", err
	}

	return kind, nil
}

func KindFromContentType(contentType string) (Kind, error) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return KindImage, nil
	case strings.HasPrefix(contentType, "video/"):
		return KindVideo, nil
	default:
		return "", fmt.Errorf(
			"content type %q: %w",
			contentType,
			core.ErrUnsupportedMedia,
		)
	}
}
