package domain

// ExportRow is one flat line of a travel request export, with all
// timestamps pre-formatted using TimestampFormat. The handler layer renders
// rows as CSV or XLSX without any further conversion.
type ExportRow struct {
	PublicID      string `json:"identify"`
	OrderCode     string `json:"order_code"`
	RequestorName string `json:"requestor_name"`
	Destination   string `json:"destination"`
	DepartureAt   string `json:"departure_date"`
	ReturnAt      string `json:"return_date"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
}

// NewExportRow flattens a TravelRequest into an ExportRow.
func NewExportRow(tr TravelRequest) ExportRow {
	return ExportRow{
		PublicID:      tr.PublicID.String(),
		OrderCode:     tr.OrderCode,
		RequestorName: tr.RequestorName,
		Destination:   tr.Destination,
		DepartureAt:   tr.DepartureAt.Format(TimestampFormat),
		ReturnAt:      tr.ReturnAt.Format(TimestampFormat),
		Status:        tr.Status.String(),
		CreatedAt:     tr.CreatedAt.Format(TimestampFormat),
	}
}
