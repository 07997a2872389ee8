package service

import (
	"context"
	"fmt"

	"github.com/jpcaldeira/travel-desk/backend/internal/domain"
	"github.com/jpcaldeira/travel-desk/backend/internal/repo"
)

// ExportService assembles a flat export of one user's travel requests.
// It reuses the same owner-scoped repo the workflow uses, so soft-deleted
// requests never appear in an export.
type ExportService struct {
	requests repo.TravelRequestRepo
}

// NewExportService constructs an ExportService backed by the provided repo.
func NewExportService(requests repo.TravelRequestRepo) *ExportService {
	return &ExportService{requests: requests}
}

// Export returns one ExportRow per non-deleted request of the owner,
// newest first. Always returns a non-nil slice.
func (s *ExportService) Export(ctx context.Context, ownerID string) ([]domain.ExportRow, error) {
	items, err := s.requests.ListAllByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := make([]domain.ExportRow, 0, len(items))
	for _, tr := range items {
		rows = append(rows, domain.NewExportRow(tr))
	}
	return rows, nil
}
