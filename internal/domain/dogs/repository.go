package dogs

import "context"

type Repository interface {
	Create(ctx context.Context, d Dog) error
	Update(ctx context.Context, d Dog) error
	Delete(ctx context.Context, id string) error

	// GetByID devuelve ErrNotFound cuando el id no existe.
	GetByID(ctx context.Context, id string) (Dog, error)

	// List devuelve todos los registros remotos, más recientes primero.
	List(ctx context.Context) ([]Dog, error)
}
