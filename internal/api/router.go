package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homigo-app/homigo-backend/internal/api/handlers"
	"github.com/homigo-app/homigo-backend/internal/api/httpx"
	"github.com/homigo-app/homigo-backend/internal/auth"
	"github.com/homigo-app/homigo-backend/internal/config"
	"github.com/homigo-app/homigo-backend/internal/metrics"
	"github.com/homigo-app/homigo-backend/internal/middleware"
	"github.com/homigo-app/homigo-backend/internal/services"
)

type RouterDeps struct {
	Cfg        config.Config
	Pool       *pgxpool.Pool
	TM         *auth.TokenManager
	UserSvc    *services.UserService
	ListingSvc *services.ListingService
	BookingSvc *services.BookingService
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RequestLog, middleware.Recover)
	r.Use(middleware.RateLimit(d.Cfg.RateRPS), middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	authMW := middleware.NewAuthMiddleware(d.TM)
	authH := handlers.NewAuthHandler(d.UserSvc)
	userH := handlers.NewUserHandler(d.UserSvc)
	listingH := handlers.NewListingHandler(d.ListingSvc)
	bookingH := handlers.NewBookingHandler(d.BookingSvc)
	uploadH := handlers.NewUploadHandler(d.Cfg.UploadDir, d.Cfg.PublicBaseURL)
	healthH := handlers.NewHealthHandler(d.Pool)

	r.Get("/health", healthH.Health)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthH.Health)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authH.Register)
			r.Post("/login", authH.Login)
			r.Post("/refresh", authH.Refresh)
			r.With(authMW.Auth).Post("/logout", authH.Logout)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", authH.Register)

			r.Group(func(r chi.Router) {
				r.Use(authMW.Auth)
				// literal routes before /{id}
				r.Get("/profile", userH.Profile)
				r.Put("/profile", userH.UpdateProfile)
				r.Put("/change-password", userH.ChangePassword)

				r.Get("/", userH.List)
				r.Get("/{id}", userH.Get)
				r.Put("/{id}", userH.Update)
				r.With(middleware.RequireAdmin).Delete("/{id}", userH.Delete)
			})
		})

		r.Route("/listings", func(r chi.Router) {
			r.Get("/", listingH.Search)
			r.Get("/host/{hostId}", listingH.ListByHost)
			r.Get("/{id}", listingH.Get)

			r.Group(func(r chi.Router) {
				r.Use(authMW.Auth)
				r.Post("/", listingH.Create)
				r.Put("/{id}", listingH.Update)
				r.Delete("/{id}", listingH.Delete)
			})
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Use(authMW.Auth)
			r.Post("/", bookingH.Create)
			r.With(middleware.RequireAdmin).Get("/", bookingH.ListAll)
			r.Get("/listing/{listingId}", bookingH.ListForListing)
			r.Put("/{id}/status", bookingH.UpdateStatus)
			r.Get("/{userId}", bookingH.ListForUser)
		})

		r.Route("/upload", func(r chi.Router) {
			r.Use(authMW.Auth)
			r.Post("/", uploadH.Images)
			r.Post("/profile", uploadH.ProfilePicture)
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			httpx.WriteError(w, http.StatusNotFound, "Route not found")
		})
	})

	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(d.Cfg.UploadDir)))
	r.Get("/uploads/*", func(w http.ResponseWriter, r *http.Request) {
		fileServer.ServeHTTP(w, r)
	})

	return r
}
