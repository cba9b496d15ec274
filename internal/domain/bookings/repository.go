package bookings

import "context"

type Repository interface {
	Create(ctx context.Context, b Booking) error

	// List devuelve todas las solicitudes, más recientes primero.
	List(ctx context.Context) ([]Booking, error)
}
