package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authmem "dogfarm/internal/adapters/auth/memory"
	"dogfarm/internal/platform/logger"
	"dogfarm/internal/ports/blob"
	"dogfarm/internal/router"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newTestServerWithBlob(t, nil)
}

func newTestServerWithBlob(t *testing.T, media blob.Store) *httptest.Server {
	t.Helper()
	h, cleanup := router.NewRouter(router.Options{
		Provider: authmem.NewProvider(),
		Blob:     media,
		Logger:   logger.NewNop(),
	})
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	t.Cleanup(cleanup)
	return ts
}

type dogPayload struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Breed    string `json:"breed"`
	ImageURL string `json:"image_url"`
	VideoURL string `json:"video_url"`
}

func TestHTTP_EndToEnd_AdminManagesCatalog(t *testing.T) {
	ts := newTestServer(t)

	// 1) La lista pública arranca con el catálogo semilla completo
	seed := listDogs(t, ts.URL)
	if len(seed) != 6 {
		t.Fatalf("expected 6 seed dogs, got %d", len(seed))
	}
	if seed[0].ID != "buddy" || seed[5].ID != "charlie" {
		t.Fatalf("expected seed order buddy..charlie, got %s..%s", seed[0].ID, seed[5].ID)
	}

	// 2) Crear perro sin sesión => 401
	{
		st, _ := doReq(t, ts.URL, "POST", "/dogs", "", map[string]any{
			"name": "Rocky", "breed": "Beagle",
		})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 creating dog anonymously, got %d", st)
		}
	}

	// 3) Un visitante registrado tampoco puede => 403
	visitorToken := signUp(t, ts.URL, "visitor@example.com", "secret1")
	{
		st, _ := doReq(t, ts.URL, "POST", "/dogs", visitorToken, map[string]any{
			"name": "Rocky", "breed": "Beagle",
		})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 creating dog as visitor, got %d", st)
		}
	}

	// 4) El admin seed entra y crea un perro
	adminToken := signIn(t, ts.URL, "admin@dogfarm.com", "admin123")
	created := createDog(t, ts.URL, adminToken, map[string]any{
		"name":  "Rocky",
		"breed": "Beagle",
		"age":   "2 years",
	})
	if created.ImageURL != "/assets/dog-placeholder.jpg" {
		t.Fatalf("dog without media must render the placeholder, got %q", created.ImageURL)
	}

	// 5) El nuevo aparece primero en la lista, delante de la semilla
	waitForDogs(t, ts.URL, func(ds []dogPayload) bool {
		return len(ds) == 7 && ds[0].ID == created.ID && ds[1].ID == "buddy"
	}, "new dog should lead the merged list")

	// 6) Detalle por id remoto y por nombre semilla (case-insensitive)
	{
		st, body := doReq(t, ts.URL, "GET", "/dogs/"+created.ID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 remote detail, got %d body=%s", st, string(body))
		}
		st, _ = doReq(t, ts.URL, "GET", "/dogs/LUNA", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 seed detail by name, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "GET", "/dogs/ghost", "", nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 for unknown dog, got %d", st)
		}
	}

	// 7) Subida de media: asocia la imagen y la sirve en /media
	{
		st, body := uploadMedia(t, ts.URL, adminToken, created.ID, "rocky.png", []byte("png-bytes"))
		if st != http.StatusOK {
			t.Fatalf("expected 200 media upload, got %d body=%s", st, string(body))
		}
		var updated dogPayload
		_ = json.Unmarshal(body, &updated)
		if updated.ImageURL == "" || updated.ImageURL == "/assets/dog-placeholder.jpg" {
			t.Fatalf("expected uploaded image url, got %q", updated.ImageURL)
		}

		st, media := doReq(t, ts.URL, "GET", updated.ImageURL, "", nil)
		if st != http.StatusOK || string(media) != "png-bytes" {
			t.Fatalf("expected media served back, got %d %q", st, string(media))
		}
	}

	// 8) Tipo de archivo no soportado => 400 y el registro queda igual
	{
		st, _ := uploadMedia(t, ts.URL, adminToken, created.ID, "rocky.gif", []byte("gif"))
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for unsupported type, got %d", st)
		}
	}

	// 9) Borrado admin: sale de la lista, la semilla queda intacta
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/dogs/"+created.ID, visitorToken, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 deleting as visitor, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "DELETE", "/dogs/"+created.ID, adminToken, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 deleting as admin, got %d", st)
		}
	}
	waitForDogs(t, ts.URL, func(ds []dogPayload) bool {
		return len(ds) == 6 && ds[0].ID == "buddy"
	}, "deleted dog should leave the list")

	// 10) Tras sign-out el token admin deja de servir
	{
		st, _ := doReq(t, ts.URL, "POST", "/auth/signout", adminToken, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 sign-out, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "POST", "/dogs", adminToken, map[string]any{
			"name": "Late", "breed": "Mix",
		})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 with signed-out token, got %d", st)
		}
	}
}

// failingBlobStore rechaza toda subida; simula el bucket caído.
type failingBlobStore struct{}

func (failingBlobStore) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	return errors.New("bucket unavailable")
}

func (failingBlobStore) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	return nil, "", blob.ErrNotFound
}

func (failingBlobStore) Delete(ctx context.Context, key string) error { return nil }
func (failingBlobStore) PublicURL(key string) string                  { return "/media/" + key }

func TestHTTP_MediaUploadFailure_LeavesDogUnchanged(t *testing.T) {
	ts := newTestServerWithBlob(t, failingBlobStore{})

	adminToken := signIn(t, ts.URL, "admin@dogfarm.com", "admin123")
	created := createDog(t, ts.URL, adminToken, map[string]any{
		"name":  "Rocky",
		"breed": "Beagle",
	})

	// la subida falla en el bucket => 502, sin retry
	st, body := uploadMedia(t, ts.URL, adminToken, created.ID, "rocky.png", []byte("png-bytes"))
	if st != http.StatusBadGateway {
		t.Fatalf("expected 502 when the bucket rejects the upload, got %d body=%s", st, string(body))
	}

	// el registro queda exactamente como estaba: sigue con el placeholder
	st, body = doReq(t, ts.URL, "GET", "/dogs/"+created.ID, "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 detail after failed upload, got %d", st)
	}
	var d dogPayload
	_ = json.Unmarshal(body, &d)
	if d.ImageURL != "/assets/dog-placeholder.jpg" {
		t.Fatalf("failed upload must leave image untouched, got %q", d.ImageURL)
	}
	if d.VideoURL != "" {
		t.Fatalf("failed upload must not set video url, got %q", d.VideoURL)
	}
}

func TestNewRouter_CleanupStopsCatalogRefresh(t *testing.T) {
	h, cleanup := router.NewRouter(router.Options{
		Provider: authmem.NewProvider(),
		Logger:   logger.NewNop(),
	})
	ts := httptest.NewServer(h)
	defer ts.Close()

	adminToken := signIn(t, ts.URL, "admin@dogfarm.com", "admin123")

	// el teardown debe retornar (corta el goroutine del catálogo)
	cleanup()

	// el alta sigue funcionando, pero ya no hay refresher escuchando:
	// la lista merged se queda con el último snapshot
	created := createDog(t, ts.URL, adminToken, map[string]any{
		"name":  "Rocky",
		"breed": "Beagle",
	})
	time.Sleep(50 * time.Millisecond)

	for _, d := range listDogs(t, ts.URL) {
		if d.ID == created.ID {
			t.Fatalf("catalog refreshed after cleanup; teardown did not stop the consumer")
		}
	}
}

func TestHTTP_Bookings(t *testing.T) {
	ts := newTestServer(t)

	// alta pública
	{
		st, body := doReq(t, ts.URL, "POST", "/bookings", "", map[string]any{
			"name":    "Ana Pérez",
			"email":   "ana@example.com",
			"phone":   "+91 98765 43210",
			"date":    "2026-10-02",
			"time":    "15:30",
			"message": "Queremos conocer a Luna",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 booking, got %d body=%s", st, string(body))
		}
	}

	// email inválido => 400 con el campo en el mensaje
	{
		st, body := doReq(t, ts.URL, "POST", "/bookings", "", map[string]any{
			"name":  "Ana",
			"email": "not-an-email",
			"phone": "123",
			"date":  "2026-10-02",
			"time":  "15:30",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for bad email, got %d body=%s", st, string(body))
		}
	}

	// el listado es solo para admin
	{
		st, _ := doReq(t, ts.URL, "GET", "/bookings", "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 listing bookings anonymously, got %d", st)
		}

		visitorToken := signUp(t, ts.URL, "visitor@example.com", "secret1")
		st, _ = doReq(t, ts.URL, "GET", "/bookings", visitorToken, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 listing bookings as visitor, got %d", st)
		}

		adminToken := signIn(t, ts.URL, "admin@dogfarm.com", "admin123")
		st, body := doReq(t, ts.URL, "GET", "/bookings", adminToken, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 listing bookings as admin, got %d", st)
		}
		var items []map[string]any
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 {
			t.Fatalf("expected 1 booking, got %d", len(items))
		}
	}
}

func TestHTTP_AuthFlows(t *testing.T) {
	ts := newTestServer(t)

	// password corta y email inválido => 400
	{
		st, _ := doReq(t, ts.URL, "POST", "/auth/signup", "", map[string]any{
			"email": "ana@example.com", "password": "12345",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 weak password, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "POST", "/auth/signup", "", map[string]any{
			"email": "not-an-email", "password": "secret1",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 invalid email, got %d", st)
		}
	}

	// email duplicado => 409 con el mensaje amigable
	{
		_ = signUp(t, ts.URL, "ana@example.com", "secret1")
		st, body := doReq(t, ts.URL, "POST", "/auth/signup", "", map[string]any{
			"email": "ana@example.com", "password": "secret1",
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 duplicate email, got %d", st)
		}
		if want := "This email is already registered. Please sign in instead."; !bytes.Contains(body, []byte(want)) {
			t.Fatalf("expected friendly conflict message, got %q", string(body))
		}
	}

	// credenciales malas => 401 con mensaje genérico
	{
		st, body := doReq(t, ts.URL, "POST", "/auth/signin", "", map[string]any{
			"email": "ana@example.com", "password": "wrong!",
		})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 bad credentials, got %d", st)
		}
		if !bytes.Contains(body, []byte("Invalid email or password")) {
			t.Fatalf("expected generic credentials message, got %q", string(body))
		}
	}

	// /auth/session: anónimo responde 200 sin identidad, nunca error
	{
		st, body := doReq(t, ts.URL, "GET", "/auth/session", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 anonymous session, got %d", st)
		}
		var who struct {
			Authenticated   bool `json:"authenticated"`
			IsAdministrator bool `json:"is_administrator"`
		}
		_ = json.Unmarshal(body, &who)
		if who.Authenticated || who.IsAdministrator {
			t.Fatalf("anonymous session must not be authenticated nor admin: %+v", who)
		}
	}

	// con el admin seed la sesión trae el flag admin resuelto
	{
		adminToken := signIn(t, ts.URL, "admin@dogfarm.com", "admin123")
		st, body := doReq(t, ts.URL, "GET", "/auth/session", adminToken, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 admin session, got %d", st)
		}
		var who struct {
			Authenticated   bool   `json:"authenticated"`
			Email           string `json:"email"`
			IsAdministrator bool   `json:"is_administrator"`
		}
		_ = json.Unmarshal(body, &who)
		if !who.Authenticated || !who.IsAdministrator {
			t.Fatalf("expected authenticated admin session, got %+v", who)
		}
		if who.Email != "admin@dogfarm.com" {
			t.Fatalf("expected admin email in session, got %q", who.Email)
		}
	}
}

func TestHTTP_SiteInfoAndHealth(t *testing.T) {
	ts := newTestServer(t)

	st, body := doReq(t, ts.URL, "GET", "/site/info", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 site info, got %d", st)
	}
	var info struct {
		Name           string `json:"name"`
		WhatsAppNumber string `json:"whatsapp_number"`
	}
	_ = json.Unmarshal(body, &info)
	if info.Name != "Dog Farm Himachal" || info.WhatsAppNumber != "919876543210" {
		t.Fatalf("unexpected site info %+v", info)
	}

	st, _ = doReq(t, ts.URL, "GET", "/health", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 health, got %d", st)
	}

	st, _ = doReq(t, ts.URL, "GET", "/metrics", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 metrics, got %d", st)
	}
}

// -------------------------
// Helpers
// -------------------------

func listDogs(t *testing.T, baseURL string) []dogPayload {
	t.Helper()

	st, body := doReq(t, baseURL, "GET", "/dogs", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 list dogs, got %d body=%s", st, string(body))
	}
	var out []dogPayload
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("unmarshal dogs: %v body=%s", err, string(body))
	}
	return out
}

// waitForDogs reintenta hasta que el catálogo refresque (el refresh por
// notificación corre en background).
func waitForDogs(t *testing.T, baseURL string, cond func([]dogPayload) bool, msg string) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond(listDogs(t, baseURL)) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting: %s", msg)
}

func createDog(t *testing.T, baseURL, token string, payload map[string]any) dogPayload {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/dogs", token, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create dog, got %d body=%s", st, string(body))
	}
	var d dogPayload
	_ = json.Unmarshal(body, &d)
	if d.ID == "" {
		t.Fatalf("create dog: missing id body=%s", string(body))
	}
	return d
}

func signIn(t *testing.T, baseURL, email, password string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/auth/signin", "", map[string]any{
		"email": email, "password": password,
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 sign-in, got %d body=%s", st, string(body))
	}
	return tokenFrom(t, body)
}

func signUp(t *testing.T, baseURL, email, password string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/auth/signup", "", map[string]any{
		"email": email, "password": password,
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 sign-up, got %d body=%s", st, string(body))
	}
	return tokenFrom(t, body)
}

func tokenFrom(t *testing.T, body []byte) string {
	t.Helper()

	var resp struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Token == "" {
		t.Fatalf("missing token body=%s", string(body))
	}
	return resp.Token
}

func uploadMedia(t *testing.T, baseURL, token, dogID, filename string, content []byte) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	_ = mw.Close()

	req, err := http.NewRequest("POST", baseURL+"/dogs/"+dogID+"/media", &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	return res.StatusCode, body
}

func doReq(t *testing.T, baseURL, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
