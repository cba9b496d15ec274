package blob

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("blob not found")

// Store es el bucket de media consumido por la app (imágenes/videos de perros).
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error

	// Get devuelve el contenido y su content-type, o ErrNotFound.
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)

	Delete(ctx context.Context, key string) error

	// PublicURL devuelve la URL pública para servir el blob.
	// Nunca falla: siempre devuelve algo servible.
	PublicURL(key string) string
}
