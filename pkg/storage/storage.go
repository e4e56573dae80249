package storage

import (
	"context"
	"io"
)

// FileStorage is the contract for the upload backend. Save returns an
// opaque reference that Delete and URL accept: a media-root relative
// path for the local driver, an absolute URL for Cloudinary.
type FileStorage interface {
	Save(ctx context.Context, r io.Reader, folder, fileName string) (string, error)
	Delete(ctx context.Context, ref string) error
	URL(ref string) string
}
