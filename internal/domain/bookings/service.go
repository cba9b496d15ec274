package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ValidationError se detecta antes de tocar el repo y llega al usuario
// como mensaje inline del campo.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name      string
	Email     string
	Phone     string
	VisitDate string
	VisitTime string
	Message   string
}

// Create valida y persiste una solicitud de visita.
func (s *Service) Create(ctx context.Context, in CreateInput) (Booking, error) {
	if err := validate(in); err != nil {
		return Booking{}, err
	}

	b := Booking{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		VisitDate: strings.TrimSpace(in.VisitDate),
		VisitTime: strings.TrimSpace(in.VisitTime),
		Message:   strings.TrimSpace(in.Message),
		CreatedAt: s.now(),
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return Booking{}, err
	}
	return b, nil
}

func (s *Service) List(ctx context.Context) ([]Booking, error) {
	return s.repo.List(ctx)
}

func validate(in CreateInput) error {
	required := []struct{ field, value string }{
		{"name", in.Name},
		{"email", in.Email},
		{"phone", in.Phone},
		{"date", in.VisitDate},
		{"time", in.VisitTime},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.field, Reason: "is required"}
		}
	}

	if !ValidEmail(in.Email) {
		return &ValidationError{Field: "email", Reason: "must be a valid email"}
	}
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(in.VisitDate)); err != nil {
		return &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}
	if _, err := time.Parse("15:04", strings.TrimSpace(in.VisitTime)); err != nil {
		return &ValidationError{Field: "time", Reason: "must be HH:MM"}
	}
	return nil
}

// ValidEmail es un chequeo de forma, no de entregabilidad.
func ValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	at := strings.Index(s, "@")
	if at <= 0 || at != strings.LastIndex(s, "@") {
		return false
	}
	local, domain := s[:at], s[at+1:]
	if local == "" || domain == "" {
		return false
	}
	dot := strings.LastIndex(domain, ".")
	if dot <= 0 || dot == len(domain)-1 {
		return false
	}
	return !strings.ContainsAny(s, " \t\n")
}
