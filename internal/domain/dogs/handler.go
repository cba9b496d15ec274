package dogs

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"dogfarm/internal/domain/session"
	"dogfarm/internal/middleware"
	"dogfarm/internal/ports/blob"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Límite del formulario de admin original: PNG, JPG, MP4 hasta 10MB.
const maxUploadBytes = 10 << 20

var mediaContentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".mp4":  "video/mp4",
}

func RegisterRoutes(r chi.Router, svc *Service, catalog *Catalog, roles *session.Registry, media blob.Store) {
	r.Route("/dogs", func(dr chi.Router) {
		// Público
		dr.Get("/", listDogsHandler(catalog))
		dr.Get("/{dogID}", getDogHandler(catalog))

		// Admin
		dr.Post("/", createDogHandler(svc, roles))
		dr.Delete("/{dogID}", deleteDogHandler(svc, roles))
		dr.Post("/{dogID}/media", uploadMediaHandler(svc, media, roles))
	})
}

type createDogRequest struct {
	Name        string `json:"name"`
	Breed       string `json:"breed"`
	Age         string `json:"age"`
	Description string `json:"description"`
}

type dogResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Breed       string    `json:"breed"`
	Age         string    `json:"age"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	VideoURL    string    `json:"video_url,omitempty"`
	GalleryURLs []string  `json:"gallery_urls,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
	UpdatedAt   time.Time `json:"updated_at,omitzero"`
}

// listDogsHandler devuelve la lista combinada: remotos (más nuevos primero)
// seguidos del catálogo estático.
//
// @Summary Lista de perros en adopción
// @Tags dogs
// @Produce json
// @Success 200 {array} dogs.dogResponse
// @Router /dogs [get]
func listDogsHandler(catalog *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merged := catalog.Merged()

		out := make([]dogResponse, 0, len(merged))
		for _, d := range merged {
			out = append(out, toDogResponse(d))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getDogHandler resuelve el detalle por id o por nombre de perro semilla.
//
// @Summary Detalle de un perro
// @Tags dogs
// @Produce json
// @Param dogID path string true "id o nombre de perro semilla"
// @Success 200 {object} dogs.dogResponse
// @Failure 404 {string} string "dog not found"
// @Router /dogs/{dogID} [get]
func getDogHandler(catalog *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := catalog.Resolve(r.Context(), chi.URLParam(r, "dogID"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "dog not found", http.StatusNotFound)
				return
			}
			http.Error(w, "catalog unavailable, try again", http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, toDogResponse(d))
	}
}

// @Summary Alta de perro (admin)
// @Tags dogs
// @Accept json
// @Produce json
// @Success 201 {object} dogs.dogResponse
// @Router /dogs [post]
func createDogHandler(svc *Service, roles *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r, roles) {
			return
		}

		var req createDogRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		d, err := svc.Create(r.Context(), CreateInput{
			Name:        req.Name,
			Breed:       req.Breed,
			Age:         req.Age,
			Description: req.Description,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "name and breed are required", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toDogResponse(d))
	}
}

// @Summary Baja de perro (admin)
// @Tags dogs
// @Param dogID path string true "id"
// @Success 204
// @Router /dogs/{dogID} [delete]
func deleteDogHandler(svc *Service, roles *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r, roles) {
			return
		}

		err := svc.Delete(r.Context(), chi.URLParam(r, "dogID"))
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				http.Error(w, "dog not found", http.StatusNotFound)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, "invalid id", http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// uploadMediaHandler sube un blob al bucket de media y lo asocia al perro.
// Si la subida falla, el registro queda intacto y no hay retry automático.
//
// @Summary Subir imagen o video de un perro (admin)
// @Tags dogs
// @Accept mpfd
// @Produce json
// @Param dogID path string true "id"
// @Success 200 {object} dogs.dogResponse
// @Router /dogs/{dogID}/media [post]
func uploadMediaHandler(svc *Service, media blob.Store, roles *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r, roles) {
			return
		}

		dogID := chi.URLParam(r, "dogID")
		if _, err := svc.GetByID(r.Context(), dogID); err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "dog not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			http.Error(w, "invalid multipart body or file over 10MB", http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file field required", http.StatusBadRequest)
			return
		}
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(header.Filename))
		contentType, ok := mediaContentTypes[ext]
		if !ok {
			http.Error(w, "unsupported media type (PNG, JPG, MP4)", http.StatusBadRequest)
			return
		}

		kind := MediaImage
		if ext == ".mp4" {
			kind = MediaVideo
		} else if r.FormValue("kind") == string(MediaGallery) {
			kind = MediaGallery
		}

		key := dogID + "/" + uuid.NewString() + ext
		if err := media.Put(r.Context(), key, file, contentType); err != nil {
			// el registro del perro no se tocó; el caller puede reintentar
			http.Error(w, "media upload failed", http.StatusBadGateway)
			return
		}

		updated, err := svc.AttachMedia(r.Context(), dogID, kind, media.PublicURL(key))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "dog not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toDogResponse(updated))
	}
}

func requireAdmin(w http.ResponseWriter, r *http.Request, roles *session.Registry) bool {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	if !roles.IsAdministrator(r.Context(), claims) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return false
	}
	return true
}

func toDogResponse(d Dog) dogResponse {
	return dogResponse{
		ID:          d.ID,
		Name:        d.Name,
		Breed:       d.Breed,
		Age:         d.Age,
		Description: d.Description,
		ImageURL:    d.DisplayImageURL(),
		VideoURL:    d.VideoURL,
		GalleryURLs: d.GalleryURLs,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// writeJSON se duplica a propósito en los handlers de cada módulo
// (dogs/bookings/accounts) en vez de extraer un helper compartido temprano.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
