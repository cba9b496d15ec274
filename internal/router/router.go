package router

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"os"

	memblob "dogfarm/internal/adapters/blob/memory"
	mem "dogfarm/internal/adapters/storage/memory"
	pg "dogfarm/internal/adapters/storage/postgres"
	lite "dogfarm/internal/adapters/storage/sqlite"
	"dogfarm/internal/domain/accounts"
	"dogfarm/internal/domain/bookings"
	"dogfarm/internal/domain/dogs"
	"dogfarm/internal/domain/session"
	"dogfarm/internal/domain/site"
	"dogfarm/internal/middleware"
	"dogfarm/internal/platform/logger"
	"dogfarm/internal/platform/metrics"
	"dogfarm/internal/ports/auth"
	"dogfarm/internal/ports/blob"

	_ "dogfarm/docs" // spec OpenAPI generada (swag init)

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Provider auth.Provider // puede ser nil (modo dev, X-Debug-User-ID)

	// Opcional: si viene, usa esta DB. Si no, decide por env
	// (DB_DRIVER=postgres|sqlite + DB_DSN) o cae a in-memory.
	DB *sql.DB

	// Bucket de media. Nil => in-memory.
	Blob blob.Store

	Logger logger.Logger
}

// NewRouter arma el handler y devuelve además la función de teardown:
// corta el refresher del catálogo, la suscripción del registry y la DB
// abierta por env (una DB inyectada la cierra su dueño).
func NewRouter(opts Options) (http.Handler, func()) {
	log := opts.Logger
	if log == nil {
		log = logger.NewFromEnv()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)

	r.Use(middleware.AuthContext(opts.Provider))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		dogRepo     dogs.Repository
		bookingRepo bookings.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	var ownedDB *sql.DB
	driver := os.Getenv("DB_DRIVER")
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			var (
				opened *sql.DB
				err    error
			)
			switch driver {
			case "sqlite":
				opened, err = lite.Open(dsn)
			default:
				opened, err = pg.Open(dsn)
				driver = "postgres"
			}
			if err != nil {
				log.Warn("router: db open failed, falling back to memory",
					map[string]any{"driver": driver, "error": err.Error()})
			} else {
				db = opened
				ownedDB = opened
			}
		}
	}

	switch {
	case db != nil && driver == "sqlite":
		dogRepo = lite.NewDogsRepo(db)
		bookingRepo = lite.NewBookingsRepo(db)
	case db != nil:
		dogRepo = pg.NewDogsRepo(db)
		bookingRepo = pg.NewBookingsRepo(db)
	default:
		dogRepo = mem.NewDogsRepo()
		bookingRepo = mem.NewBookingsRepo()
	}

	media := opts.Blob
	if media == nil {
		media = memblob.NewStore()
	}

	// Services por módulo
	notifier := dogs.NewNotifier()
	dogsSvc := dogs.NewService(dogRepo, notifier)
	bookingsSvc := bookings.NewService(bookingRepo)
	accountsSvc := accounts.NewService(opts.Provider)

	// Catálogo merged (seed estático + registros del repo) refrescado
	// por notificaciones de cambio.
	catalog := dogs.NewCatalog(dogsSvc, log)
	catalog.Start(context.Background(), notifier)

	// Contextos de sesión por token, alimentados por eventos del provider.
	roles := session.NewRegistry(opts.Provider, log)

	// Rutas por módulo
	dogs.RegisterRoutes(r, dogsSvc, catalog, roles, media)
	bookings.RegisterRoutes(r, bookingsSvc, roles)
	accounts.RegisterRoutes(r, accountsSvc, roles)
	site.RegisterRoutes(r)

	// Media subida al bucket in-memory se sirve desde acá; con S3 las
	// URLs públicas apuntan directo al bucket y esta ruta no se usa.
	r.Get("/media/*", func(w http.ResponseWriter, req *http.Request) {
		key := chi.URLParam(req, "*")
		body, contentType, err := media.Get(req.Context(), key)
		if err != nil {
			http.Error(w, "media not found", http.StatusNotFound)
			return
		}
		defer body.Close()

		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		_, _ = io.Copy(w, body)
	})

	cleanup := func() {
		catalog.Close()
		roles.Close()
		if ownedDB != nil {
			_ = ownedDB.Close()
		}
	}

	return r, cleanup
}
