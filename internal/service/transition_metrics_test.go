package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpcaldeira/travel-desk/backend/internal/domain"
	"github.com/jpcaldeira/travel-desk/backend/internal/metrics"
	"github.com/jpcaldeira/travel-desk/backend/internal/service"
)

// transitionCount reads the transition counter for one target/outcome pair
// from the default registry.
func transitionCount(t *testing.T, target, outcome string) float64 {
	t.Helper()

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != "traveldesk_status_transitions_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["target"] == target && labels["outcome"] == outcome {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

// A lost compare-and-swap and a broken database are different events: only
// the former may count as a conflict.
func TestChangeStatus_StorageErrorIsNotCountedAsConflict(t *testing.T) {
	metrics.Register()

	boom := errors.New("connection reset")
	r := repoWith(requestFixture())
	r.updateStatus = func(_ context.Context, _ int64, _, _ domain.Status) (domain.TravelRequest, error) {
		return domain.TravelRequest{}, boom
	}
	svc := service.NewTravelRequestService(r, nil)

	conflictBefore := transitionCount(t, "approved", metrics.OutcomeConflict)
	errorBefore := transitionCount(t, "approved", metrics.OutcomeError)

	_, err := svc.ChangeStatus(context.Background(), uuid.New(), domain.StatusApproved, approverID)

	require.ErrorIs(t, err, boom)
	assert.Equal(t, conflictBefore, transitionCount(t, "approved", metrics.OutcomeConflict))
	assert.Equal(t, errorBefore+1, transitionCount(t, "approved", metrics.OutcomeError))
}

func TestChangeStatus_LostSwapIsCountedAsConflict(t *testing.T) {
	metrics.Register()

	r := repoWith(requestFixture())
	r.updateStatus = func(_ context.Context, _ int64, _, _ domain.Status) (domain.TravelRequest, error) {
		return domain.TravelRequest{}, domain.ErrConflict
	}
	svc := service.NewTravelRequestService(r, nil)

	conflictBefore := transitionCount(t, "approved", metrics.OutcomeConflict)
	errorBefore := transitionCount(t, "approved", metrics.OutcomeError)

	_, err := svc.ChangeStatus(context.Background(), uuid.New(), domain.StatusApproved, approverID)

	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, conflictBefore+1, transitionCount(t, "approved", metrics.OutcomeConflict))
	assert.Equal(t, errorBefore, transitionCount(t, "approved", metrics.OutcomeError))
}
