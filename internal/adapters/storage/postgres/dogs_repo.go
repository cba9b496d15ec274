package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"dogfarm/internal/domain/dogs"
)

type DogsRepo struct {
	db *sql.DB
}

func NewDogsRepo(db *sql.DB) *DogsRepo {
	return &DogsRepo{db: db}
}

func (r *DogsRepo) Create(ctx context.Context, d dogs.Dog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dogs (
			id, name, breed, age, description,
			image_url, video_url, gallery_urls,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		d.ID,
		d.Name,
		d.Breed,
		d.Age,
		d.Description,
		d.ImageURL,
		d.VideoURL,
		galleryToJSON(d.GalleryURLs),
		d.CreatedAt,
		d.UpdatedAt,
	)
	return err
}

func (r *DogsRepo) Update(ctx context.Context, d dogs.Dog) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE dogs
		SET
			name = $2,
			breed = $3,
			age = $4,
			description = $5,
			image_url = $6,
			video_url = $7,
			gallery_urls = $8,
			updated_at = $9
		WHERE id = $1
	`,
		d.ID,
		d.Name,
		d.Breed,
		d.Age,
		d.Description,
		d.ImageURL,
		d.VideoURL,
		galleryToJSON(d.GalleryURLs),
		d.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return dogs.ErrNotFound
	}
	return nil
}

func (r *DogsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dogs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return dogs.ErrNotFound
	}
	return nil
}

func (r *DogsRepo) GetByID(ctx context.Context, id string) (dogs.Dog, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return dogs.Dog{}, dogs.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, name, breed, age, description,
			image_url, video_url, gallery_urls,
			created_at, updated_at
		FROM dogs
		WHERE id = $1
	`, id)

	d, err := scanDog(row.Scan)
	if err == sql.ErrNoRows {
		return dogs.Dog{}, dogs.ErrNotFound
	}
	return d, err
}

func (r *DogsRepo) List(ctx context.Context) ([]dogs.Dog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, name, breed, age, description,
			image_url, video_url, gallery_urls,
			created_at, updated_at
		FROM dogs
		ORDER BY created_at DESC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]dogs.Dog, 0)
	for rows.Next() {
		d, err := scanDog(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}

	return out, rows.Err()
}

func scanDog(scan func(dest ...any) error) (dogs.Dog, error) {
	var d dogs.Dog
	var gallery []byte
	if err := scan(
		&d.ID,
		&d.Name,
		&d.Breed,
		&d.Age,
		&d.Description,
		&d.ImageURL,
		&d.VideoURL,
		&gallery,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return dogs.Dog{}, err
	}
	d.GalleryURLs = galleryFromJSON(gallery)
	return d, nil
}

// gallery_urls se guarda como JSONB; suficiente para una lista chica
// de URLs y portable al driver de sqlite.
func galleryToJSON(urls []string) []byte {
	if len(urls) == 0 {
		return []byte("[]")
	}
	b, _ := json.Marshal(urls)
	return b
}

func galleryFromJSON(b []byte) []string {
	if len(b) == 0 {
		return nil
	}
	var urls []string
	if err := json.Unmarshal(b, &urls); err != nil {
		return nil
	}
	if len(urls) == 0 {
		return nil
	}
	return urls
}
