package repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jpcaldeira/travel-desk/backend/internal/domain"
)

func TestBuildListWhere_OwnerScopeAlwaysPresent(t *testing.T) {
	where, args := buildListWhere("user-1", domain.ListFilter{})

	assert.Equal(t, "WHERE owner_id = @owner_id AND deleted_at IS NULL", where)
	assert.Equal(t, "user-1", args["owner_id"])
}

// Each date bound must apply to both trip dates on its own. Pairing the
// bounds per column instead would drop trips that cover the whole window.
func TestBuildListWhere_DateBoundsApplyIndependently(t *testing.T) {
	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)

	where, args := buildListWhere("user-1", domain.ListFilter{StartDate: &start, EndDate: &end})

	assert.Contains(t, where, "(departure_at::date >= @start_date OR return_at::date >= @start_date)")
	assert.Contains(t, where, "(departure_at::date <= @end_date OR return_at::date <= @end_date)")
	assert.NotContains(t, where, "@start_date AND departure_at::date <= @end_date")
	assert.Equal(t, start, args["start_date"])
	assert.Equal(t, end, args["end_date"])
}

func TestBuildListWhere_SingleBound(t *testing.T) {
	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	where, args := buildListWhere("user-1", domain.ListFilter{StartDate: &start})

	assert.Contains(t, where, "(departure_at::date >= @start_date OR return_at::date >= @start_date)")
	assert.NotContains(t, where, "@end_date")
	_, hasEnd := args["end_date"]
	assert.False(t, hasEnd)
}

func TestBuildListWhere_StatusAndDestination(t *testing.T) {
	status := domain.StatusApproved
	where, args := buildListWhere("user-1", domain.ListFilter{Status: &status, Destination: "Paris"})

	assert.Contains(t, where, "status = @status")
	assert.Contains(t, where, "destination ILIKE @destination")
	assert.Equal(t, "%Paris%", args["destination"])
}
