package routes

import (
	"net/http"

	"github.com/navina/travelguide/internal/api/handlers"
	"github.com/navina/travelguide/internal/api/loaders"
	"github.com/navina/travelguide/internal/api/middleware"
	"github.com/navina/travelguide/internal/domain/repositories"
	"github.com/navina/travelguide/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	userHandler         *handlers.UserHandler
	poiHandler          *handlers.POIHandler
	tourHandler         *handlers.TourHandler
	conversationHandler *handlers.ConversationHandler
	sseHandler          *handlers.SSEHandler

	poiRepo  repositories.POIRepository
	tourRepo repositories.TourRepository

	cacheMiddleware *middleware.CacheMiddleware
	allowedOrigins  []string
	metrics         *observability.Metrics
}

// NewRouter creates a new router. cacheMiddleware may be nil.
func NewRouter(
	userHandler *handlers.UserHandler,
	poiHandler *handlers.POIHandler,
	tourHandler *handlers.TourHandler,
	conversationHandler *handlers.ConversationHandler,
	sseHandler *handlers.SSEHandler,
	poiRepo repositories.POIRepository,
	tourRepo repositories.TourRepository,
	cacheMiddleware *middleware.CacheMiddleware,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                 http.NewServeMux(),
		userHandler:         userHandler,
		poiHandler:          poiHandler,
		tourHandler:         tourHandler,
		conversationHandler: conversationHandler,
		sseHandler:          sseHandler,
		poiRepo:             poiRepo,
		tourRepo:            tourRepo,
		cacheMiddleware:     cacheMiddleware,
		allowedOrigins:      allowedOrigins,
		metrics:             metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Users
	r.mux.HandleFunc("POST /api/users", r.userHandler.CreateUser)
	r.mux.HandleFunc("GET /api/users/{id}", r.userHandler.GetUser)
	r.mux.HandleFunc("PUT /api/users/{id}/preferences", r.userHandler.UpdatePreferences)
	r.mux.HandleFunc("GET /api/users/{id}/conversations", r.userHandler.ConversationHistory)

	// Points of interest
	r.mux.HandleFunc("GET /api/pois", r.poiHandler.ListPOIs)
	r.mux.HandleFunc("GET /api/pois/nearby", r.poiHandler.NearbyPOIs)
	r.mux.HandleFunc("GET /api/pois/{id}", r.poiHandler.GetPOI)

	// Tours
	r.mux.HandleFunc("GET /api/tours/recommended", r.tourHandler.RecommendTours)
	r.mux.HandleFunc("GET /api/tours/{id}", r.tourHandler.GetTour)

	// Conversations
	r.mux.HandleFunc("POST /api/conversations", r.conversationHandler.StartConversation)
	r.mux.HandleFunc("GET /api/conversations/{id}", r.conversationHandler.GetConversation)
	r.mux.HandleFunc("POST /api/conversations/{id}/messages", r.conversationHandler.PostMessage)

	// Streams
	r.mux.HandleFunc("GET /api/stream/conversations/{id}", r.sseHandler.StreamConversation)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}
	handler = middleware.ETag(handler)
	handler = loaders.Middleware(r.poiRepo, r.tourRepo)(handler)

	// CORS sits inside observability so preflights are traced, and outside
	// the cache so cache hits still carry CORS headers.
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.LoggingMiddleware(handler)

	return handler
}
