package bookings

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"dogfarm/internal/domain/session"
	"dogfarm/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, roles *session.Registry) {
	r.Route("/bookings", func(br chi.Router) {
		br.Post("/", createBookingHandler(svc))

		// Solo admin ve las solicitudes recibidas
		br.Get("/", listBookingsHandler(svc, roles))
	})
}

type createBookingRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Date    string `json:"date"` // YYYY-MM-DD
	Time    string `json:"time"` // HH:MM
	Message string `json:"message"`
}

type bookingResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// @Summary Solicitar una visita
// @Tags bookings
// @Accept json
// @Produce json
// @Success 201 {object} bookings.bookingResponse
// @Failure 400 {string} string "campo inválido"
// @Router /bookings [post]
func createBookingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createBookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		b, err := svc.Create(r.Context(), CreateInput{
			Name:      req.Name,
			Email:     req.Email,
			Phone:     req.Phone,
			VisitDate: req.Date,
			VisitTime: req.Time,
			Message:   req.Message,
		})
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				http.Error(w, verr.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toBookingResponse(b))
	}
}

// @Summary Solicitudes de visita recibidas (admin)
// @Tags bookings
// @Produce json
// @Success 200 {array} bookings.bookingResponse
// @Router /bookings [get]
func listBookingsHandler(svc *Service, roles *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !roles.IsAdministrator(r.Context(), claims) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]bookingResponse, 0, len(items))
		for _, b := range items {
			out = append(out, toBookingResponse(b))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toBookingResponse(b Booking) bookingResponse {
	return bookingResponse{
		ID:        b.ID,
		Name:      b.Name,
		Email:     b.Email,
		Phone:     b.Phone,
		Date:      b.VisitDate,
		Time:      b.VisitTime,
		Message:   b.Message,
		CreatedAt: b.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
