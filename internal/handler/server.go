// Package handler implements the HTTP handlers for the Travel Desk API.
// All handlers are methods on Server; they decode JSON, resolve the acting
// user from the request context, call the service layer, and map domain
// errors to HTTP responses. No business rules live here.
package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jpcaldeira/travel-desk/backend/internal/domain"
	"github.com/jpcaldeira/travel-desk/backend/internal/middleware"
)

// TravelRequestServicer defines the business operations the travel request
// handlers depend on. Defining the interface here (in the consumer package)
// follows the Go convention: "accept interfaces, return concrete types".
// It lets handler tests inject a mock without touching the database.
type TravelRequestServicer interface {
	Create(ctx context.Context, tr domain.TravelRequest) (domain.TravelRequest, error)
	Get(ctx context.Context, publicID uuid.UUID, actingUserID string) (domain.TravelRequest, error)
	List(ctx context.Context, ownerID string, filter domain.ListFilter, page domain.PaginationParams) ([]domain.TravelRequest, int64, error)
	ChangeStatus(ctx context.Context, publicID uuid.UUID, target domain.Status, actingUserID string) (domain.TravelRequest, error)
	Delete(ctx context.Context, publicID uuid.UUID, actingUserID string) error
}

// ExportServicer defines the export operation the export handler depends on.
type ExportServicer interface {
	Export(ctx context.Context, ownerID string) ([]domain.ExportRow, error)
}

// Server holds the handler dependencies. Methods are split into
// domain-specific files (travelrequest.go, export.go, health.go) but all
// share this struct.
type Server struct {
	requests TravelRequestServicer
	export   ExportServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(requests TravelRequestServicer, export ExportServicer) *Server {
	return &Server{requests: requests, export: export}
}

// Routes returns the API router. Everything under /api requires the
// acting-user identity header; /healthz does not.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Route("/api/travel-requests", func(api chi.Router) {
		api.Use(middleware.RequireIdentity)
		api.Post("/", s.CreateTravelRequest)
		api.Get("/", s.ListTravelRequests)
		api.Get("/export", s.ExportTravelRequests)
		api.Get("/{publicID}", s.GetTravelRequest)
		api.Patch("/{publicID}/status", s.ChangeTravelRequestStatus)
		api.Delete("/{publicID}", s.DeleteTravelRequest)
	})

	return r
}
