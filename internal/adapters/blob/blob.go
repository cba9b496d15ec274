// Package blob selecciona la implementación del bucket de media.
package blob

import (
	"context"
	"fmt"
	"os"

	memorystore "dogfarm/internal/adapters/blob/memory"
	s3store "dogfarm/internal/adapters/blob/s3"
	"dogfarm/internal/ports/blob"
)

// Open elige el driver por env:
//
//	BLOB_DRIVER: memory|s3 (default memory)
//	(variables S3 documentadas en s3/store.go)
func Open(ctx context.Context) (blob.Store, error) {
	driver := os.Getenv("BLOB_DRIVER")
	switch driver {
	case "", "memory":
		return memorystore.NewStore(), nil
	case "s3":
		return s3store.OpenFromEnv(ctx)
	default:
		return nil, fmt.Errorf("unknown blob driver %q", driver)
	}
}
