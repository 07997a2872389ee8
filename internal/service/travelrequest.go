// Package service contains the business logic for the Travel Desk API.
// The status transition engine lives here: it is the single authority
// deciding whether a status change is legal. No SQL lives here: services
// depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jpcaldeira/travel-desk/backend/internal/domain"
	"github.com/jpcaldeira/travel-desk/backend/internal/metrics"
	"github.com/jpcaldeira/travel-desk/backend/internal/repo"
)

// Notifier receives a StatusChange event after a transition commits.
// Enqueue must be cheap; delivery happens asynchronously elsewhere.
type Notifier interface {
	Enqueue(ctx context.Context, ev domain.StatusChange) error
}

// TravelRequestService implements the travel request workflow: create,
// status transition, owner-scoped reads, and soft delete.
type TravelRequestService struct {
	repo     repo.TravelRequestRepo
	notifier Notifier
}

// NewTravelRequestService constructs the service. notifier may be nil, in
// which case transitions commit without emitting events (useful in tests).
func NewTravelRequestService(r repo.TravelRequestRepo, n Notifier) *TravelRequestService {
	return &TravelRequestService{repo: r, notifier: n}
}

// Create validates and persists a new travel request with status=requested.
func (s *TravelRequestService) Create(ctx context.Context, tr domain.TravelRequest) (domain.TravelRequest, error) {
	if err := validateNewRequest(tr); err != nil {
		return domain.TravelRequest{}, err
	}

	tr.Status = domain.StatusRequested
	created, err := s.repo.Create(ctx, tr)
	if err != nil {
		return domain.TravelRequest{}, fmt.Errorf("service.TravelRequestService.Create: %w", err)
	}
	return created, nil
}

// ChangeStatus applies the status transition rules, in order:
//
//  1. the owner may never change their own request's status;
//  2. the target must be approved or canceled;
//  3. the request must not already be in the target status;
//  4. canceled is terminal;
//  5. an approved request whose departure is already in the past cannot
//     be canceled.
//
// The ordering is part of the contract: when several rules would reject,
// the earliest one wins. On success the new status is persisted with a
// compare-and-swap (a concurrent transition surfaces as domain.ErrConflict)
// and a StatusChange event is queued for the owner. A failed enqueue is
// logged and swallowed; it never affects the outcome of the transition.
func (s *TravelRequestService) ChangeStatus(ctx context.Context, publicID uuid.UUID, target domain.Status, actingUserID string) (domain.TravelRequest, error) {
	tr, err := s.repo.GetByPublicID(ctx, publicID)
	if err != nil {
		return domain.TravelRequest{}, fmt.Errorf("service.TravelRequestService.ChangeStatus: %w", err)
	}

	// Raw targets go to the metric only when they are in the closed set;
	// anything else would let clients mint label values.
	targetLabel := "invalid"
	if target.Valid() {
		targetLabel = string(target)
	}

	if err := checkTransition(tr, target, actingUserID); err != nil {
		metrics.IncTransition(targetLabel, metrics.OutcomeRejected)
		return domain.TravelRequest{}, err
	}

	updated, err := s.repo.UpdateStatus(ctx, tr.ID, tr.Status, target)
	if err != nil {
		outcome := metrics.OutcomeError
		if errors.Is(err, domain.ErrConflict) {
			outcome = metrics.OutcomeConflict
		}
		metrics.IncTransition(targetLabel, outcome)
		return domain.TravelRequest{}, fmt.Errorf("service.TravelRequestService.ChangeStatus: %w", err)
	}
	metrics.IncTransition(targetLabel, metrics.OutcomeApplied)

	if s.notifier != nil {
		if err := s.notifier.Enqueue(ctx, domain.NewStatusChange(updated)); err != nil {
			slog.ErrorContext(ctx, "failed to enqueue status change notification",
				"public_id", updated.PublicID,
				"status", updated.Status,
				"error", err,
			)
		} else {
			metrics.IncNotification("enqueued")
		}
	}

	return updated, nil
}

// checkTransition runs the ordered guard list for a status change.
func checkTransition(tr domain.TravelRequest, target domain.Status, actingUserID string) error {
	if actingUserID == tr.OwnerID {
		return domain.ErrSelfApproval
	}
	if target != domain.StatusApproved && target != domain.StatusCanceled {
		return domain.ErrInvalidTargetStatus
	}
	if tr.Status == target {
		return domain.ErrAlreadyInStatus
	}
	if tr.Status.Terminal() {
		return domain.ErrTerminalStatus
	}
	if target == domain.StatusCanceled && tr.Status == domain.StatusApproved && tr.DepartureAt.Before(time.Now()) {
		return domain.ErrPastDeparture
	}
	return nil
}

// Get returns a single request. Visibility is owner-only: any other acting
// user receives domain.ErrForbidden.
func (s *TravelRequestService) Get(ctx context.Context, publicID uuid.UUID, actingUserID string) (domain.TravelRequest, error) {
	tr, err := s.repo.GetByPublicID(ctx, publicID)
	if err != nil {
		return domain.TravelRequest{}, fmt.Errorf("service.TravelRequestService.Get: %w", err)
	}
	if tr.OwnerID != actingUserID {
		return domain.TravelRequest{}, domain.ErrForbidden
	}
	return tr, nil
}

// List returns one page of the acting user's requests matching the filter,
// plus the total match count. Always returns a non-nil slice.
func (s *TravelRequestService) List(ctx context.Context, ownerID string, filter domain.ListFilter, page domain.PaginationParams) ([]domain.TravelRequest, int64, error) {
	items, total, err := s.repo.List(ctx, ownerID, filter, page)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TravelRequestService.List: %w", err)
	}
	if items == nil {
		items = []domain.TravelRequest{}
	}
	return items, total, nil
}

// Delete soft-deletes a request. The policy is self-service: only the owner
// may delete, and no notification is emitted.
func (s *TravelRequestService) Delete(ctx context.Context, publicID uuid.UUID, actingUserID string) error {
	tr, err := s.repo.GetByPublicID(ctx, publicID)
	if err != nil {
		return fmt.Errorf("service.TravelRequestService.Delete: %w", err)
	}
	if tr.OwnerID != actingUserID {
		return domain.ErrForbidden
	}
	if err := s.repo.SoftDelete(ctx, tr.ID); err != nil {
		return fmt.Errorf("service.TravelRequestService.Delete: %w", err)
	}
	return nil
}

// validateNewRequest enforces the creation-time field rules.
//   - Owner, order code, requestor name, and destination must be non-empty.
//   - Both dates must be set and return must not be before departure.
//   - The departure date (date portion) must not be before today.
func validateNewRequest(tr domain.TravelRequest) error {
	if strings.TrimSpace(tr.OwnerID) == "" {
		return fmt.Errorf("%w: owner is required", domain.ErrValidation)
	}
	if strings.TrimSpace(tr.OrderCode) == "" {
		return fmt.Errorf("%w: order_code is required", domain.ErrValidation)
	}
	if strings.TrimSpace(tr.RequestorName) == "" {
		return fmt.Errorf("%w: requestor_name is required", domain.ErrValidation)
	}
	if strings.TrimSpace(tr.Destination) == "" {
		return fmt.Errorf("%w: destination is required", domain.ErrValidation)
	}
	if tr.DepartureAt.IsZero() || tr.ReturnAt.IsZero() {
		return fmt.Errorf("%w: departure_date and return_date are required", domain.ErrValidation)
	}
	if tr.ReturnAt.Before(tr.DepartureAt) {
		return fmt.Errorf("%w: return_date must not be before departure_date", domain.ErrValidation)
	}
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if tr.DepartureAt.UTC().Before(today) {
		return fmt.Errorf("%w: departure_date must not be before today", domain.ErrValidation)
	}
	return nil
}
