package dogs

// staticDogs es el catálogo semilla embebido en el binario. No muta nunca
// en runtime; el orden de este slice es el orden de display acordado.
var staticDogs = []Dog{
	{
		ID:          "buddy",
		Name:        "Buddy",
		Breed:       "Labrador Retriever",
		Age:         "8 months",
		Description: "A playful and energetic pup who loves to fetch and swim. Perfect for active families! Buddy is well-trained and gets along great with children and other pets.",
		ImageURL:    "/assets/dog-1.jpg",
		GalleryURLs: []string{"/assets/dog-1.jpg", "/assets/dog-2.jpg"},
	},
	{
		ID:          "luna",
		Name:        "Luna",
		Breed:       "Siberian Husky",
		Age:         "2 years",
		Description: "A majestic beauty with striking blue eyes. Loves outdoor adventures and long walks in the Himalayan trails.",
		ImageURL:    "/assets/dog-2.jpg",
		GalleryURLs: []string{"/assets/dog-2.jpg", "/assets/dog-3.jpg"},
	},
	{
		ID:          "marcel",
		Name:        "Marcel",
		Breed:       "French Bulldog",
		Age:         "6 months",
		Description: "An adorable cuddle buddy who loves naps and belly rubs. Great apartment companion!",
		ImageURL:    "/assets/dog-3.jpg",
		GalleryURLs: []string{"/assets/dog-3.jpg", "/assets/dog-4.jpg"},
	},
	{
		ID:          "max",
		Name:        "Max",
		Breed:       "German Shepherd",
		Age:         "3 years",
		Description: "Loyal and intelligent protector. Great with kids and very trainable. Perfect guard dog for your home.",
		ImageURL:    "/assets/dog-4.jpg",
		GalleryURLs: []string{"/assets/dog-4.jpg", "/assets/dog-5.jpg"},
	},
	{
		ID:          "coco",
		Name:        "Coco",
		Breed:       "Pembroke Corgi",
		Age:         "1 year",
		Description: "Full of personality and endless joy. Will bring smiles to everyone she meets!",
		ImageURL:    "/assets/dog-5.jpg",
		GalleryURLs: []string{"/assets/dog-5.jpg", "/assets/dog-6.jpg"},
	},
	{
		ID:          "charlie",
		Name:        "Charlie",
		Breed:       "Beagle",
		Age:         "4 years",
		Description: "Curious explorer with an amazing nose. Perfect hiking and trail companion in the mountains.",
		ImageURL:    "/assets/dog-6.jpg",
		GalleryURLs: []string{"/assets/dog-6.jpg", "/assets/dog-1.jpg"},
	},
}

// StaticCatalog devuelve una copia del catálogo semilla, en orden de origen.
// Copia defensiva (incluidas las galerías): el caller puede mutar lo suyo
// sin tocar la semilla.
func StaticCatalog() []Dog {
	out := make([]Dog, len(staticDogs))
	copy(out, staticDogs)
	for i := range out {
		if len(out[i].GalleryURLs) > 0 {
			urls := make([]string, len(out[i].GalleryURLs))
			copy(urls, out[i].GalleryURLs)
			out[i].GalleryURLs = urls
		}
	}
	return out
}
