package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"cabinets/internal/auth"
	"cabinets/internal/middleware"
	"cabinets/internal/registry"
	"cabinets/internal/service"
)

// RouterConfig carries what the router needs besides the services
type RouterConfig struct {
	Services       *service.Services
	Registry       *registry.Registry
	Verifier       auth.JWTVerifier
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter builds the HTTP handler.
// Order: CORS → RequestID → RealIP → logging → recovery → auth → routes
func NewRouter(cfg RouterConfig) http.Handler {
	cabinets := NewCabinetHandler(cfg.Services.Cabinets, cfg.Services.Navigation, cfg.Logger)
	tree := NewTreeHandler(cfg.Services.Cabinets, cfg.Logger)
	documents := NewDocumentCabinetHandler(cfg.Services.Memberships, cfg.Logger)
	acls := NewACLHandler(cfg.Services.Access, cfg.Logger)
	events := NewEventHandler(cfg.Services.Events, cfg.Logger)
	menus := NewMenuHandler(cfg.Services.Navigation, cfg.Logger)
	reg := NewRegistryHandler(cfg.Registry)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))

	r.Get("/health", HealthCheck)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Verifier, cfg.Logger))

		r.Route("/cabinets", func(r chi.Router) {
			r.Get("/", cabinets.ListCabinets)
			r.Get("/tree", tree.GetTree)
			r.Post("/create", cabinets.CreateCabinet)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", cabinets.GetCabinet)
				r.Post("/edit", cabinets.EditCabinet)
				r.Post("/move", cabinets.MoveCabinet)
				r.Post("/delete", cabinets.DeleteCabinet)
				r.Post("/children/create", cabinets.CreateChild)
				r.Get("/events", events.ListCabinetEvents)
				r.Get("/acls", acls.ListEntries)
				r.Post("/acls/grant", acls.Grant)
				r.Post("/acls/revoke", acls.Revoke)
			})
		})

		r.Route("/documents", func(r chi.Router) {
			r.Get("/search", documents.SearchDocuments)
			r.Post("/cabinets/add-multiple", documents.AddDocuments)
			r.Post("/cabinets/remove-multiple", documents.RemoveDocuments)
			r.Get("/{id}/cabinets/", documents.ListCabinets)
			r.Post("/{id}/cabinets/add", documents.AddDocument)
			r.Post("/{id}/cabinets/remove", documents.RemoveDocument)
		})

		r.Get("/menus/{name}", menus.ResolveMenu)
		r.Get("/permissions", reg.ListPermissions)
		r.Get("/events/types", reg.ListEventTypes)
	})

	if len(cfg.AllowedOrigins) == 0 {
		return r
	}

	// CORS wraps everything so OPTIONS pre-flight requests skip auth
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)
}
