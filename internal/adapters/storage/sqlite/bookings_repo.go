package sqlite

import (
	"context"
	"database/sql"

	"dogfarm/internal/domain/bookings"
)

type BookingsRepo struct {
	db *sql.DB
}

func NewBookingsRepo(db *sql.DB) *BookingsRepo {
	return &BookingsRepo{db: db}
}

func (r *BookingsRepo) Create(ctx context.Context, b bookings.Booking) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO bookings (
			id, name, email, phone,
			visit_date, visit_time, message, created_at
		) VALUES (?,?,?,?,?,?,?,?)
	`,
		b.ID,
		b.Name,
		b.Email,
		b.Phone,
		b.VisitDate,
		b.VisitTime,
		b.Message,
		encodeTime(b.CreatedAt),
	)
	return err
}

func (r *BookingsRepo) List(ctx context.Context) ([]bookings.Booking, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, name, email, phone,
			visit_date, visit_time, message, created_at
		FROM bookings
		ORDER BY created_at DESC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]bookings.Booking, 0)
	for rows.Next() {
		var b bookings.Booking
		var createdAt string
		if err := rows.Scan(
			&b.ID,
			&b.Name,
			&b.Email,
			&b.Phone,
			&b.VisitDate,
			&b.VisitTime,
			&b.Message,
			&createdAt,
		); err != nil {
			return nil, err
		}
		b.CreatedAt, err = decodeTime(createdAt)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}

	return out, rows.Err()
}
