package dogs

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("dog not found")
)

// MediaKind distingue qué campo de media se está adjuntando.
type MediaKind string

const (
	MediaImage   MediaKind = "image"
	MediaVideo   MediaKind = "video"
	MediaGallery MediaKind = "gallery"
)

type Service struct {
	repo     Repository
	notifier *Notifier
	now      func() time.Time
}

func NewService(repo Repository, notifier *Notifier) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
}

type CreateInput struct {
	Name        string
	Breed       string
	Age         string
	Description string
}

// Create da de alta un perro remoto. Nombre y raza son obligatorios
// (mismo mínimo que el formulario de admin original).
func (s *Service) Create(ctx context.Context, in CreateInput) (Dog, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Breed) == "" {
		return Dog{}, ErrInvalidInput
	}

	now := s.now()
	d := Dog{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Breed:       strings.TrimSpace(in.Breed),
		Age:         strings.TrimSpace(in.Age),
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return Dog{}, err
	}
	s.notifier.Publish()
	return d, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidInput
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.notifier.Publish()
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Dog, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Dog, error) {
	return s.repo.List(ctx)
}

// AttachMedia asocia una URL de media ya subida al registro del perro.
// Si el update falla, el registro queda exactamente como estaba.
func (s *Service) AttachMedia(ctx context.Context, id string, kind MediaKind, url string) (Dog, error) {
	if strings.TrimSpace(url) == "" {
		return Dog{}, ErrInvalidInput
	}

	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Dog{}, err
	}

	switch kind {
	case MediaImage:
		d.ImageURL = url
	case MediaVideo:
		d.VideoURL = url
	case MediaGallery:
		d.GalleryURLs = append(d.GalleryURLs, url)
	default:
		return Dog{}, ErrInvalidInput
	}
	d.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, d); err != nil {
		return Dog{}, err
	}
	s.notifier.Publish()
	return d, nil
}
