package bookings

import "time"

// Booking es una solicitud de visita al criadero (formulario "Meet & Greet").
type Booking struct {
	ID    string
	Name  string
	Email string
	Phone string

	// VisitDate en formato YYYY-MM-DD, VisitTime en HH:MM.
	VisitDate string
	VisitTime string

	// Message: qué perros le interesan conocer. Opcional.
	Message string

	CreatedAt time.Time
}
