package routes

import (
	"log/slog"
	"net/http"
	"strings"

	"games_hub/internal/controllers"
	"games_hub/internal/middleware"
	"games_hub/internal/services"
	"games_hub/internal/storage/mariadb"
	"games_hub/internal/storage/uploads"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Options are the optional parts of the router. A nil Auth leaves the admin
// API unmounted.
type Options struct {
	MediaPrefix string
	Auth        *middleware.AuthMiddleware
	Cors        []string
}

func SetupRouter(
	log *slog.Logger,
	storage *mariadb.Storage,
	media uploads.IUploads,
	views controllers.Renderer,
	opts Options,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	gameService := services.NewGameService(storage, log)
	contactService := services.NewContactService(storage, log)

	homeController := controllers.NewHomeController(gameService, log, media, views)
	contactController := controllers.NewContactController(contactService, log, views)
	healthController := controllers.NewHealthController(storage, log)

	r.Get("/", homeController.Home)

	r.Route("/contact", func(r chi.Router) {
		for path, h := range map[string]http.HandlerFunc{
			"/basic/": contactController.Basic,
			"/form/":  contactController.Form,
			"/model/": contactController.Model,
		} {
			r.Get(path, h)
			r.Post(path, h)
		}
		r.Get("/success/", contactController.Success)
	})

	r.Get("/healthz", healthController.Health)

	if local, ok := media.(*uploads.Uploads); ok {
		prefix := opts.MediaPrefix
		if !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
		r.Handle(prefix+"*", http.StripPrefix(prefix, http.FileServer(filesOnly{http.Dir(local.Dir())})))
	}

	if opts.Auth != nil {
		gameController := controllers.NewGameController(gameService, log, media)
		messageController := controllers.NewContactMessageController(contactService, log)

		r.Route("/admin/api", func(r chi.Router) {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins:   opts.Cors,
				AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
				AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
				AllowCredentials: true,
				MaxAge:           300,
			}))
			r.Use(opts.Auth.RequireAdmin)

			r.Route("/games", func(r chi.Router) {
				r.Get("/", gameController.GetAll)
				r.Post("/", gameController.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", gameController.GetByID)
					r.Put("/", gameController.Update)
					r.Delete("/", gameController.Delete)
					r.Patch("/order", gameController.UpdateOrder)
				})
			})

			r.Get("/contact-messages", messageController.GetAll)
		})
	} else {
		log.Info("admin api disabled: no sso address configured")
	}

	return r
}
