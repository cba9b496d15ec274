package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Open abre (o crea) la base sqlite local y asegura el schema.
// Pensado para deploys chicos de un solo nodo, sin Postgres.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// sqlite serializa escrituras; una sola conexión evita SQLITE_BUSY
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS dogs (
			id           TEXT PRIMARY KEY,
			name         TEXT NOT NULL,
			breed        TEXT NOT NULL,
			age          TEXT NOT NULL DEFAULT '',
			description  TEXT NOT NULL DEFAULT '',
			image_url    TEXT NOT NULL DEFAULT '',
			video_url    TEXT NOT NULL DEFAULT '',
			gallery_urls TEXT NOT NULL DEFAULT '[]',
			created_at   TEXT NOT NULL,
			updated_at   TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS bookings (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL,
			phone      TEXT NOT NULL,
			visit_date TEXT NOT NULL,
			visit_time TEXT NOT NULL,
			message    TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);
	`)
	return err
}

// Los timestamps se guardan como RFC3339Nano en UTC: ordenan bien como
// texto y evitan depender del mapeo de fechas del driver.
func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// decodeTime falla ante un valor corrupto en vez de degradarlo al zero
// time, que reordenaría el registro en silencio.
func decodeTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored timestamp %q: %w", s, err)
	}
	return t, nil
}
