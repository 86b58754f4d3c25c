package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/reactivities-app/backend/internal/assets"
	"github.com/reactivities-app/backend/internal/config"
	"github.com/reactivities-app/backend/internal/database"
	postgresrepo "github.com/reactivities-app/backend/internal/repository/postgres"
	"github.com/reactivities-app/backend/internal/service"
	"github.com/reactivities-app/backend/internal/transport/http/handlers"
	"github.com/reactivities-app/backend/internal/transport/http/middleware"
	"github.com/reactivities-app/backend/internal/transport/ws"
)

func main() {
	cfg := config.Load()

	// Database
	pool, err := database.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()
	log.Println("Connected to database")

	// Repositories
	userRepo := postgresrepo.NewUserRepo(pool)
	activityRepo := postgresrepo.NewActivityRepo(pool)
	commentRepo := postgresrepo.NewCommentRepo(pool)
	followRepo := postgresrepo.NewFollowRepo(pool)
	photoRepo := postgresrepo.NewPhotoRepo(pool)

	// Remote asset store
	var assetStore assets.Store = assets.Noop{}
	if cfg.AssetCloudName != "" {
		assetStore = assets.NewCloudinary(cfg.AssetCloudName, cfg.AssetAPIKey, cfg.AssetAPISecret)
	}

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret)
	activityService := service.NewActivityService(activityRepo)
	commentService := service.NewCommentService(commentRepo, activityRepo)
	profileService := service.NewProfileService(userRepo, followRepo, photoRepo, activityRepo, assetStore)

	// WebSocket hub for live comment streams
	hub := ws.NewHub()
	go hub.Run()
	commentService.SetNotifier(ws.NewHubNotifier(hub))

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	activityHandler := handlers.NewActivityHandler(activityService)
	commentHandler := handlers.NewCommentHandler(commentService)
	profileHandler := handlers.NewProfileHandler(profileService)

	// Middleware
	auth := middleware.Auth(cfg.JWTSecret)
	optionalAuth := middleware.OptionalAuth(cfg.JWTSecret)

	// Routes
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)

	// Activities (reads are open to anonymous browsing)
	mux.Handle("GET /api/v1/activities", optionalAuth(http.HandlerFunc(activityHandler.List)))
	mux.Handle("GET /api/v1/activities/{id}", optionalAuth(http.HandlerFunc(activityHandler.Get)))
	mux.Handle("POST /api/v1/activities", auth(http.HandlerFunc(activityHandler.Create)))
	mux.Handle("PUT /api/v1/activities/{id}", auth(http.HandlerFunc(activityHandler.Update)))
	mux.Handle("DELETE /api/v1/activities/{id}", auth(http.HandlerFunc(activityHandler.Delete)))
	mux.Handle("POST /api/v1/activities/{id}/attend", auth(http.HandlerFunc(activityHandler.ToggleAttendance)))

	// Comments
	mux.Handle("GET /api/v1/activities/{id}/comments", optionalAuth(http.HandlerFunc(commentHandler.List)))
	mux.Handle("POST /api/v1/activities/{id}/comments", auth(http.HandlerFunc(commentHandler.Add)))

	// Profiles
	mux.Handle("GET /api/v1/profiles/{id}", optionalAuth(http.HandlerFunc(profileHandler.Get)))
	mux.Handle("PUT /api/v1/profiles/me", auth(http.HandlerFunc(profileHandler.Edit)))
	mux.Handle("POST /api/v1/profiles/{id}/follow", auth(http.HandlerFunc(profileHandler.ToggleFollow)))
	mux.Handle("GET /api/v1/profiles/{id}/followers", optionalAuth(http.HandlerFunc(profileHandler.ListFollowers)))
	mux.Handle("GET /api/v1/profiles/{id}/following", optionalAuth(http.HandlerFunc(profileHandler.ListFollowing)))
	mux.Handle("GET /api/v1/profiles/{id}/activities", optionalAuth(http.HandlerFunc(profileHandler.ListActivities)))

	// Photos
	mux.Handle("GET /api/v1/profiles/{id}/photos", optionalAuth(http.HandlerFunc(profileHandler.ListPhotos)))
	mux.Handle("POST /api/v1/profiles/me/photos", auth(http.HandlerFunc(profileHandler.AddPhoto)))
	mux.Handle("DELETE /api/v1/profiles/me/photos/{photoId}", auth(http.HandlerFunc(profileHandler.DeletePhoto)))
	mux.Handle("PUT /api/v1/profiles/me/photos/{photoId}/main", auth(http.HandlerFunc(profileHandler.SetMainPhoto)))

	// Live comments
	mux.HandleFunc("GET /ws", ws.ServeWS(hub, cfg.JWTSecret))

	// Start server with CORS
	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("Starting server on %s", addr)
	log.Fatal(http.ListenAndServe(addr, middleware.CORS(mux)))
}
