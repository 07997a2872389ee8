package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jpcaldeira/travel-desk/backend/internal/domain"
	"github.com/jpcaldeira/travel-desk/backend/internal/middleware"
)

// dateFormat is the layout for the start_date / end_date query filters.
const dateFormat = "2006-01-02"

// CreateTravelRequest handles POST /api/travel-requests.
func (s *Server) CreateTravelRequest(w http.ResponseWriter, r *http.Request) {
	var body createTravelRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "request body must be valid JSON")
		return
	}

	tr, err := body.toDomain(middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, r, "CreateTravelRequest", err)
		return
	}

	created, err := s.requests.Create(r.Context(), tr)
	if err != nil {
		respondError(w, r, "CreateTravelRequest", err)
		return
	}

	writeJSON(w, http.StatusCreated, toResource(created))
}

// ListTravelRequests handles GET /api/travel-requests.
// Supports ?status=, ?destination=, ?start_date=, ?end_date= filters plus
// ?page= and ?limit= pagination (defaults: page=1, limit=20, max=100).
func (s *Server) ListTravelRequests(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		respondError(w, r, "ListTravelRequests", err)
		return
	}
	page := domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))

	items, total, err := s.requests.List(r.Context(), middleware.UserID(r.Context()), filter, page)
	if err != nil {
		respondError(w, r, "ListTravelRequests", err)
		return
	}

	data := make([]travelRequestResource, len(items))
	for i, tr := range items {
		data[i] = toResource(tr)
	}
	writeJSON(w, http.StatusOK, listResponse{
		Data: data,
		Pagination: pagination{
			Page:  page.Page,
			Limit: page.Limit,
			Total: total,
		},
	})
}

// GetTravelRequest handles GET /api/travel-requests/{publicID}.
func (s *Server) GetTravelRequest(w http.ResponseWriter, r *http.Request) {
	publicID, err := uuid.Parse(chi.URLParam(r, "publicID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "travel request not found")
		return
	}

	tr, err := s.requests.Get(r.Context(), publicID, middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, r, "GetTravelRequest", err)
		return
	}

	writeJSON(w, http.StatusOK, toResource(tr))
}

// ChangeTravelRequestStatus handles PATCH /api/travel-requests/{publicID}/status.
// The target status goes to the transition engine untouched: the engine, not
// the handler, owns target validity.
func (s *Server) ChangeTravelRequestStatus(w http.ResponseWriter, r *http.Request) {
	publicID, err := uuid.Parse(chi.URLParam(r, "publicID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "travel request not found")
		return
	}

	var body changeStatusBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "request body must be valid JSON")
		return
	}

	updated, err := s.requests.ChangeStatus(r.Context(), publicID, domain.Status(body.Status), middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, r, "ChangeTravelRequestStatus", err)
		return
	}

	writeJSON(w, http.StatusOK, toResource(updated))
}

// DeleteTravelRequest handles DELETE /api/travel-requests/{publicID}.
func (s *Server) DeleteTravelRequest(w http.ResponseWriter, r *http.Request) {
	publicID, err := uuid.Parse(chi.URLParam(r, "publicID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "travel request not found")
		return
	}

	if err := s.requests.Delete(r.Context(), publicID, middleware.UserID(r.Context())); err != nil {
		respondError(w, r, "DeleteTravelRequest", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- request/response shapes ------------------------------------------------

type createTravelRequestBody struct {
	OrderCode     string `json:"order_code"`
	RequestorName string `json:"requestor_name"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departure_date"`
	ReturnDate    string `json:"return_date"`
}

// toDomain converts the request body into a domain.TravelRequest owned by
// the acting user. Timestamp parsing failures surface as validation errors.
func (b createTravelRequestBody) toDomain(ownerID string) (domain.TravelRequest, error) {
	departure, err := parseTimestamp(b.DepartureDate)
	if err != nil {
		return domain.TravelRequest{}, fmt.Errorf("%w: departure_date must use the format %q", domain.ErrValidation, domain.TimestampFormat)
	}
	returnAt, err := parseTimestamp(b.ReturnDate)
	if err != nil {
		return domain.TravelRequest{}, fmt.Errorf("%w: return_date must use the format %q", domain.ErrValidation, domain.TimestampFormat)
	}

	return domain.TravelRequest{
		OwnerID:       ownerID,
		OrderCode:     b.OrderCode,
		RequestorName: b.RequestorName,
		Destination:   b.Destination,
		DepartureAt:   departure,
		ReturnAt:      returnAt,
	}, nil
}

type changeStatusBody struct {
	Status string `json:"status"`
}

// travelRequestResource is the serialized representation returned by create,
// show, list, and update alike. The shape is stable across all of them.
type travelRequestResource struct {
	Identify      string `json:"identify"`
	UserCode      string `json:"user_code"`
	OrderCode     string `json:"order_code"`
	RequestorName string `json:"requestor_name"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departure_date"`
	ReturnDate    string `json:"return_date"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

type listResponse struct {
	Data       []travelRequestResource `json:"data"`
	Pagination pagination              `json:"pagination"`
}

type pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// toResource converts a domain.TravelRequest into its API representation.
func toResource(tr domain.TravelRequest) travelRequestResource {
	return travelRequestResource{
		Identify:      tr.PublicID.String(),
		UserCode:      tr.OwnerID,
		OrderCode:     tr.OrderCode,
		RequestorName: tr.RequestorName,
		Destination:   tr.Destination,
		DepartureDate: tr.DepartureAt.Format(domain.TimestampFormat),
		ReturnDate:    tr.ReturnAt.Format(domain.TimestampFormat),
		Status:        tr.Status.String(),
		CreatedAt:     tr.CreatedAt.Format(domain.TimestampFormat),
		UpdatedAt:     tr.UpdatedAt.Format(domain.TimestampFormat),
	}
}

// parseTimestamp accepts the documented minute-precision layout, plus
// RFC 3339 and a bare date for convenience.
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{domain.TimestampFormat, time.RFC3339, dateFormat} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

// parseListFilter builds the domain filter from the query string.
func parseListFilter(r *http.Request) (domain.ListFilter, error) {
	var filter domain.ListFilter
	q := r.URL.Query()

	if raw := q.Get("status"); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			return domain.ListFilter{}, err
		}
		filter.Status = &status
	}

	filter.Destination = q.Get("destination")

	if raw := q.Get("start_date"); raw != "" {
		t, err := time.Parse(dateFormat, raw)
		if err != nil {
			return domain.ListFilter{}, fmt.Errorf("%w: start_date must use the format %q", domain.ErrValidation, dateFormat)
		}
		filter.StartDate = &t
	}
	if raw := q.Get("end_date"); raw != "" {
		t, err := time.Parse(dateFormat, raw)
		if err != nil {
			return domain.ListFilter{}, fmt.Errorf("%w: end_date must use the format %q", domain.ErrValidation, dateFormat)
		}
		filter.EndDate = &t
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return domain.ListFilter{}, fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}

	return filter, nil
}

// queryInt parses an integer query param, returning nil when absent or malformed.
func queryInt(r *http.Request, name string) *int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}
