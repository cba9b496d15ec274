package dogs

import "time"

// PlaceholderImageURL es el asset fijo que se usa cuando un perro no tiene
// imagen propia. La resolución de imagen nunca debe fallar visiblemente.
const PlaceholderImageURL = "/assets/dog-placeholder.jpg"

// Dog representa una ficha de perro en adopción, tal como la consume la UI.
// Los registros estáticos usan slug como ID ("buddy"); los remotos, un UUID.
type Dog struct {
	ID    string
	Name  string
	Breed string

	// Age es texto libre para mostrar ("8 months", "2 years").
	Age string

	Description string

	ImageURL    string
	VideoURL    string
	GalleryURLs []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayImageURL degrada a placeholder cuando no hay imagen.
func (d Dog) DisplayImageURL() string {
	if d.ImageURL == "" {
		return PlaceholderImageURL
	}
	return d.ImageURL
}
