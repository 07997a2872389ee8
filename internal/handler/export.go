// export.go implements GET /api/travel-requests/export.
// Returns the acting user's travel requests as a flat table.
// Supports ?format=csv (default) or ?format=xlsx.
package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jpcaldeira/travel-desk/backend/internal/domain"
	"github.com/jpcaldeira/travel-desk/backend/internal/middleware"
)

// exportHeaders defines the column names of both export formats.
var exportHeaders = []string{
	"identify", "order_code", "requestor_name", "destination",
	"departure_date", "return_date", "status", "created_at",
}

// ExportTravelRequests streams the owner's non-deleted requests as CSV or XLSX.
func (s *Server) ExportTravelRequests(w http.ResponseWriter, r *http.Request) {
	rows, err := s.export.Export(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, r, "ExportTravelRequests", err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "csv":
		writeCSV(w, r, rows)
	case "xlsx":
		writeXLSX(w, r, rows)
	default:
		writeError(w, http.StatusUnprocessableEntity, "validation_error",
			fmt.Sprintf("unsupported export format %q", format))
	}
}

// writeCSV streams the rows as CSV.
func writeCSV(w http.ResponseWriter, r *http.Request, rows []domain.ExportRow) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", attachment("csv"))

	cw := csv.NewWriter(w)
	_ = cw.Write(exportHeaders)
	for _, row := range rows {
		_ = cw.Write(exportRecord(row))
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		respondError(w, r, "ExportTravelRequests", err)
	}
}

// writeXLSX renders the rows as a single-sheet workbook.
func writeXLSX(w http.ResponseWriter, r *http.Request, rows []domain.ExportRow) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Travel Requests"
	index, err := f.NewSheet(sheet)
	if err != nil {
		respondError(w, r, "ExportTravelRequests", err)
		return
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	for col, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for i, row := range rows {
		for col, value := range exportRecord(row) {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		end, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		_ = f.SetCellStyle(sheet, "A1", end, style)
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", attachment("xlsx"))
	if err := f.Write(w); err != nil {
		respondError(w, r, "ExportTravelRequests", err)
	}
}

// exportRecord flattens an ExportRow into the shared column order.
func exportRecord(row domain.ExportRow) []string {
	return []string{
		row.PublicID,
		row.OrderCode,
		row.RequestorName,
		row.Destination,
		row.DepartureAt,
		row.ReturnAt,
		row.Status,
		row.CreatedAt,
	}
}

func attachment(ext string) string {
	return fmt.Sprintf("attachment; filename=travel_requests_%s.%s",
		time.Now().UTC().Format("2006-01-02"), ext)
}
