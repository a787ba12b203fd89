package router

import (
	"database/sql"
	"net/http"
	"time"

	"double-paws/docs"
	"double-paws/internal/adapters/doublepaws"
	nominatim "double-paws/internal/adapters/geocoding/nominatim"
	mem "double-paws/internal/adapters/storage/memory"
	pg "double-paws/internal/adapters/storage/postgres"
	"double-paws/internal/domain/availability"
	"double-paws/internal/domain/geocoding"
	"double-paws/internal/domain/pets"
	"double-paws/internal/domain/registration"
	"double-paws/internal/domain/sitters"
	"double-paws/internal/middleware"
	"double-paws/internal/platform/httpclient"
	"double-paws/internal/platform/logger"
	"double-paws/internal/platform/validate"
	"double-paws/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/handlers"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)
	Logger       logger.Logger     // nil => nop

	// Cliente del backend REST de Double Paws (BaseURL obligatorio).
	API *httpclient.Client

	// Provider de geocoding; si es nil se usa Nominatim con GeocodingClient.
	Geocoder        geocoding.Provider
	GeocodingClient *httpclient.Client
	GeocodingRate   float64
	GeocodeCache    geocoding.Cache // opcional
	Geocoding       geocoding.Options

	// Opcional: si viene, las sesiones del wizard van a Postgres. Si no, in-memory.
	DB       *sql.DB
	Notifier registration.Notifier // opcional

	SessionTTL   time.Duration
	ErrorDisplay time.Duration

	AllowedOrigins []string // vacío => sin CORS
}

// App expone el handler y lo que main necesita para tareas de fondo.
type App struct {
	Handler       http.Handler
	Registrations *registration.Service
}

func NewRouter(opts Options) http.Handler {
	return New(opts).Handler
}

func New(opts Options) App {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log))
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	docs.SwaggerInfo.BasePath = "/"
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	v := validate.MustNew()

	// Backend
	api := doublepaws.NewClient(opts.API)

	// Geocoding
	provider := opts.Geocoder
	if provider == nil {
		provider = nominatim.NewClient(opts.GeocodingClient, opts.GeocodingRate)
	}
	geoOpts := opts.Geocoding
	geoOpts.Log = log
	geoSvc := geocoding.NewService(provider, opts.GeocodeCache, geoOpts)

	// Sesiones del wizard
	var regRepo registration.Repository
	if opts.DB != nil {
		regRepo = pg.NewRegistrationsRepo(opts.DB)
	} else {
		regRepo = mem.NewRegistrationRepo()
	}

	// Services por módulo
	availabilitySvc := availability.NewService(api)
	sittersSvc := sitters.NewService(api)
	petsSvc := pets.NewService(doublepaws.NewPetsRepo(api))
	regSvc := registration.NewService(registration.Deps{
		Repo:         regRepo,
		Creator:      api,
		Notifier:     opts.Notifier,
		Resolver:     geoSvc,
		Log:          log,
		SessionTTL:   opts.SessionTTL,
		ErrorDisplay: opts.ErrorDisplay,
	})

	// Rutas por módulo
	sitters.RegisterRoutes(r, sittersSvc)
	availability.RegisterRoutes(r, availabilitySvc)
	pets.RegisterRoutes(r, petsSvc, v)
	registration.RegisterRoutes(r, regSvc, v)
	geocoding.RegisterRoutes(r, geoSvc, v)

	var h http.Handler = r
	if len(opts.AllowedOrigins) > 0 {
		h = handlers.CORS(
			handlers.AllowedOrigins(opts.AllowedOrigins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Authorization", "Content-Type", "X-Client-Session", "X-Debug-User-ID"}),
		)(r)
	}

	return App{Handler: h, Registrations: regSvc}
}
