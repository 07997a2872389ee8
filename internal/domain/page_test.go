package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jpcaldeira/travel-desk/backend/internal/domain"
)

func intPtr(n int) *int { return &n }

func TestNewPaginationParams_Defaults(t *testing.T) {
	p := domain.NewPaginationParams(nil, nil)
	assert.Equal(t, domain.DefaultPage, p.Page)
	assert.Equal(t, domain.DefaultPageLimit, p.Limit)
	assert.Equal(t, 0, p.Offset())
}

func TestNewPaginationParams_CapsLimit(t *testing.T) {
	p := domain.NewPaginationParams(intPtr(3), intPtr(500))
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, domain.MaxPageLimit, p.Limit)
	assert.Equal(t, 2*domain.MaxPageLimit, p.Offset())
}

func TestNewPaginationParams_RejectsNonPositive(t *testing.T) {
	p := domain.NewPaginationParams(intPtr(0), intPtr(-5))
	assert.Equal(t, domain.DefaultPage, p.Page)
	assert.Equal(t, domain.DefaultPageLimit, p.Limit)
}
