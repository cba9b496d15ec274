package site

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Info es el bloque de contacto/ubicación del sitio. Contenido fijo.
type Info struct {
	Name           string `json:"name"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	HoursWeekdays  string `json:"hours_weekdays"`
	HoursSunday    string `json:"hours_sunday"`
	MapEmbedURL    string `json:"map_embed_url"`
	WhatsAppNumber string `json:"whatsapp_number"`
}

var info = Info{
	Name:           "Dog Farm Himachal",
	Address:        "Dog Farm Himachal, Near Mall Road, Shimla, Himachal Pradesh 171001",
	Phone:          "+91 98765 43210",
	Email:          "hello@dogfarmhimachal.com",
	HoursWeekdays:  "Mon - Sat: 9am - 6pm",
	HoursSunday:    "Sunday: 10am - 4pm",
	MapEmbedURL:    "https://www.google.com/maps/embed?pb=!1m18!1m12!1m3!1d3419.5!2d77.1734!3d31.1048!2m3!1f0!2f0!3f0!3m2!1i1024!2i768!4f13.1!3m3!1m2!1s0x390578e3e35d6e1b%3A0xdbe9c1c8e2a8c!2sShimla%2C%20Himachal%20Pradesh!5e0!3m2!1sen!2sin!4v1703000000000!5m2!1sen!2sin",
	WhatsAppNumber: "919876543210",
}

func RegisterRoutes(r chi.Router) {
	r.Get("/site/info", infoHandler)
}

// @Summary Datos de contacto y ubicación
// @Tags site
// @Produce json
// @Success 200 {object} site.Info
// @Router /site/info [get]
func infoHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(info)
}
