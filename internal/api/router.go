package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/heartwise/cardio-be/internal/api/handlers"
	"github.com/heartwise/cardio-be/internal/auth"
	"github.com/heartwise/cardio-be/internal/places"
	"github.com/heartwise/cardio-be/internal/predictor"
	"github.com/heartwise/cardio-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(tokens *auth.TokenManager, userService services.UserServiceProvider, predictionService services.PredictionServiceProvider, model predictor.Provider, placesClient places.Provider, uploadDir string) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, tokens, uploadDir)
	predictHandler := handlers.NewPredictHandler(userService, predictionService, model, placesClient)

	// Public endpoints
	r.Post("/register", userHandler.Register)
	r.Post("/login", userHandler.Login)

	// Uploaded profile pictures
	r.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(uploadDir))))

	// Protected endpoints
	r.Group(func(r chi.Router) {
		r.Use(tokens.Middleware())

		r.Get("/me", userHandler.GetMe)
		r.Post("/me/edit", userHandler.EditDetails)
		r.Post("/me/profile_picture", userHandler.ProfilePicture)
		r.Get("/me/predictions", predictHandler.History)

		r.Post("/predict/", predictHandler.Predict)
		r.Post("/find_nearby_hospitals/", predictHandler.FindNearbyHospitals)
	})

	return r
}
