package sqlite

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
		) VALUES (?,?,?,?,?,?,?,?,?,?)
	`,
		d.ID,
		d.Name,
		d.Breed,
		d.Age,
		d.Description,
		d.ImageURL,
		d.VideoURL,
		galleryToJSON(d.GalleryURLs),
		encodeTime(d.CreatedAt),
		encodeTime(d.UpdatedAt),
	)
	return err
}

func (r *DogsRepo) Update(ctx context.Context, d dogs.Dog) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE dogs
		SET name = ?, breed = ?, age = ?, description = ?,
			image_url = ?, video_url = ?, gallery_urls = ?, updated_at = ?
		WHERE id = ?
	`,
		d.Name,
		d.Breed,
		d.Age,
		d.Description,
		d.ImageURL,
		d.VideoURL,
		galleryToJSON(d.GalleryURLs),
		encodeTime(d.UpdatedAt),
		d.ID,
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM dogs WHERE id = ?`, id)
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
		WHERE id = ?
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
	var gallery string
	var createdAt, updatedAt string
	if err := scan(
		&d.ID,
		&d.Name,
		&d.Breed,
		&d.Age,
		&d.Description,
		&d.ImageURL,
		&d.VideoURL,
		&gallery,
		&createdAt,
		&updatedAt,
	); err != nil {
		return dogs.Dog{}, err
	}
	d.GalleryURLs = galleryFromJSON(gallery)

	var err error
	if d.CreatedAt, err = decodeTime(createdAt); err != nil {
		return dogs.Dog{}, err
	}
	if d.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return dogs.Dog{}, err
	}
	return d, nil
}

func galleryToJSON(urls []string) string {
	if len(urls) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(urls)
	return string(b)
}

func galleryFromJSON(s string) []string {
	if s == "" {
		return nil
	}
	var urls []string
	if err := json.Unmarshal([]byte(s), &urls); err != nil || len(urls) == 0 {
		return nil
	}
	return urls
}
