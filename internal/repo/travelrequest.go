// Package repo contains all database access logic for the Travel Desk API.
// No business logic lives here, only SQL and type mapping. The uniqueness
// constraint on order_code and the soft-delete filter are owned by this layer:
// uniqueness is enforced by a partial unique index, not a pre-check, so the
// check/insert race is closed at the storage level.
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/jpcaldeira/travel-desk/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgUniqueViolation is the SQLSTATE for a unique constraint violation.
const pgUniqueViolation = "23505"

// orderCodeIndex is the partial unique index guarding order_code among
// non-deleted rows. Its name appears in constraint violation errors.
const orderCodeIndex = "travel_requests_order_code_active"

// travelRequestColumns is the column list shared by every query that scans a
// full row. Keep it in sync with scanTravelRequest.
const travelRequestColumns = `id, public_id, owner_id, order_code, requestor_name,
		destination, departure_at, return_at, status, created_at, updated_at, deleted_at`

// TravelRequestRepo defines the persistence operations for travel requests.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the transition engine to be unit-tested with a mock.
type TravelRequestRepo interface {
	// Create inserts a new request with status=requested and returns the
	// persisted record (with DB-generated id, public_id, and timestamps).
	// Returns domain.ErrDuplicateOrderCode when the order code is already in
	// use by a non-deleted request.
	Create(ctx context.Context, tr domain.TravelRequest) (domain.TravelRequest, error)

	// GetByPublicID retrieves a single non-deleted request by its public UUID.
	// Returns domain.ErrNotFound if it does not exist or is soft-deleted.
	GetByPublicID(ctx context.Context, publicID uuid.UUID) (domain.TravelRequest, error)

	// List returns the owner's non-deleted requests matching the filter,
	// newest first, plus the total count across all pages.
	List(ctx context.Context, ownerID string, filter domain.ListFilter, page domain.PaginationParams) ([]domain.TravelRequest, int64, error)

	// ListAllByOwner returns every non-deleted request of the owner, newest
	// first, without pagination. Used by the export endpoint.
	ListAllByOwner(ctx context.Context, ownerID string) ([]domain.TravelRequest, error)

	// UpdateStatus performs a compare-and-swap from the expected current
	// status to the target and returns the updated record. Returns
	// domain.ErrConflict when the row no longer carries the expected status
	// (a concurrent transition won, or the row was deleted).
	UpdateStatus(ctx context.Context, id int64, from, to domain.Status) (domain.TravelRequest, error)

	// SoftDelete marks the request deleted. Returns domain.ErrNotFound when
	// the row does not exist or is already deleted.
	SoftDelete(ctx context.Context, id int64) error
}

// pgTravelRequestRepo is the Postgres implementation of TravelRequestRepo.
type pgTravelRequestRepo struct {
	db db
}

// NewTravelRequestRepo constructs a TravelRequestRepo backed by the provided
// db connection. In production pass *pgxpool.Pool; in tests pass a pgx.Tx for
// rollback isolation.
func NewTravelRequestRepo(db db) TravelRequestRepo {
	return &pgTravelRequestRepo{db: db}
}

// Create inserts a new request row and returns the full persisted record.
func (r *pgTravelRequestRepo) Create(ctx context.Context, tr domain.TravelRequest) (domain.TravelRequest, error) {
	const q = `
		INSERT INTO travel_requests
			(owner_id, order_code, requestor_name, destination, departure_at, return_at, status)
		VALUES
			(@owner_id, @order_code, @requestor_name, @destination, @departure_at, @return_at, @status)
		RETURNING ` + travelRequestColumns

	args := pgx.NamedArgs{
		"owner_id":       tr.OwnerID,
		"order_code":     tr.OrderCode,
		"requestor_name": tr.RequestorName,
		"destination":    tr.Destination,
		"departure_at":   tr.DepartureAt,
		"return_at":      tr.ReturnAt,
		"status":         domain.StatusRequested,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTravelRequest(row)
	if err != nil {
		if isOrderCodeViolation(err) {
			return domain.TravelRequest{}, fmt.Errorf("repo.TravelRequestRepo.Create: %w", domain.ErrDuplicateOrderCode)
		}
		return domain.TravelRequest{}, fmt.Errorf("repo.TravelRequestRepo.Create: %w", err)
	}
	return result, nil
}

// GetByPublicID retrieves a non-deleted request by its public UUID.
func (r *pgTravelRequestRepo) GetByPublicID(ctx context.Context, publicID uuid.UUID) (domain.TravelRequest, error) {
	const q = `
		SELECT ` + travelRequestColumns + `
		FROM travel_requests
		WHERE public_id = @public_id AND deleted_at IS NULL`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"public_id": publicID})
	result, err := scanTravelRequest(row)
	if err != nil {
		return domain.TravelRequest{}, fmt.Errorf("repo.TravelRequestRepo.GetByPublicID: %w", err)
	}
	return result, nil
}

// List returns one page of the owner's requests plus the total match count.
func (r *pgTravelRequestRepo) List(ctx context.Context, ownerID string, filter domain.ListFilter, page domain.PaginationParams) ([]domain.TravelRequest, int64, error) {
	where, args := buildListWhere(ownerID, filter)

	countQ := `SELECT count(*) FROM travel_requests ` + where
	var total int64
	if err := r.db.QueryRow(ctx, countQ, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TravelRequestRepo.List: count: %w", err)
	}

	args["limit"] = page.Limit
	args["offset"] = page.Offset()
	listQ := `SELECT ` + travelRequestColumns + ` FROM travel_requests ` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT @limit OFFSET @offset`

	items, err := r.queryMany(ctx, listQ, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TravelRequestRepo.List: %w", err)
	}
	return items, total, nil
}

// ListAllByOwner returns every non-deleted request of the owner, newest first.
func (r *pgTravelRequestRepo) ListAllByOwner(ctx context.Context, ownerID string) ([]domain.TravelRequest, error) {
	const q = `
		SELECT ` + travelRequestColumns + `
		FROM travel_requests
		WHERE owner_id = @owner_id AND deleted_at IS NULL
		ORDER BY created_at DESC, id DESC`

	items, err := r.queryMany(ctx, q, pgx.NamedArgs{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("repo.TravelRequestRepo.ListAllByOwner: %w", err)
	}
	return items, nil
}

// UpdateStatus swaps the status only when the row still carries the expected
// one. Zero rows affected means a concurrent writer got there first.
func (r *pgTravelRequestRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.Status) (domain.TravelRequest, error) {
	const q = `
		UPDATE travel_requests
		SET status = @to, updated_at = now()
		WHERE id = @id AND status = @from AND deleted_at IS NULL
		RETURNING ` + travelRequestColumns

	args := pgx.NamedArgs{"id": id, "from": from, "to": to}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTravelRequest(row)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.TravelRequest{}, fmt.Errorf("repo.TravelRequestRepo.UpdateStatus: %w", domain.ErrConflict)
		}
		return domain.TravelRequest{}, fmt.Errorf("repo.TravelRequestRepo.UpdateStatus: %w", err)
	}
	return result, nil
}

// SoftDelete stamps deleted_at on a not-yet-deleted row.
func (r *pgTravelRequestRepo) SoftDelete(ctx context.Context, id int64) error {
	const q = `
		UPDATE travel_requests
		SET deleted_at = now(), updated_at = now()
		WHERE id = @id AND deleted_at IS NULL`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TravelRequestRepo.SoftDelete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TravelRequestRepo.SoftDelete: %w", domain.ErrNotFound)
	}
	return nil
}

// queryMany runs a multi-row query and scans every row.
func (r *pgTravelRequestRepo) queryMany(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.TravelRequest, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.TravelRequest
	for rows.Next() {
		tr, err := scanTravelRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		items = append(items, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return items, nil
}

// buildListWhere assembles the WHERE clause for List from the owner scope and
// the optional filters. Each date bound applies independently to both trip
// dates (date portion): a row passes the start bound when departure OR return
// is on/after it, and the end bound when departure OR return is on/before it.
// A trip spanning the whole window therefore matches.
func buildListWhere(ownerID string, f domain.ListFilter) (string, pgx.NamedArgs) {
	conds := []string{"owner_id = @owner_id", "deleted_at IS NULL"}
	args := pgx.NamedArgs{"owner_id": ownerID}

	if f.Status != nil {
		conds = append(conds, "status = @status")
		args["status"] = *f.Status
	}
	if f.Destination != "" {
		conds = append(conds, "destination ILIKE @destination")
		args["destination"] = "%" + f.Destination + "%"
	}
	if f.StartDate != nil {
		conds = append(conds, "(departure_at::date >= @start_date OR return_at::date >= @start_date)")
		args["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		conds = append(conds, "(departure_at::date <= @end_date OR return_at::date <= @end_date)")
		args["end_date"] = *f.EndDate
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}

// isOrderCodeViolation reports whether err is the unique violation raised by
// the partial index on order_code.
func isOrderCodeViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgUniqueViolation && strings.Contains(pgErr.ConstraintName, orderCodeIndex)
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanTravelRequest
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTravelRequest maps a single database row into a domain.TravelRequest.
// It handles the UUID and nullable deleted_at conversions.
func scanTravelRequest(s scanner) (domain.TravelRequest, error) {
	var (
		tr        domain.TravelRequest
		publicID  pgtype.UUID
		status    string
		deletedAt pgtype.Timestamptz
	)

	err := s.Scan(&tr.ID, &publicID, &tr.OwnerID, &tr.OrderCode, &tr.RequestorName,
		&tr.Destination, &tr.DepartureAt, &tr.ReturnAt, &status, &tr.CreatedAt, &tr.UpdatedAt, &deletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TravelRequest{}, domain.ErrNotFound
		}
		return domain.TravelRequest{}, err
	}

	tr.PublicID = uuid.UUID(publicID.Bytes)
	tr.Status = domain.Status(status)
	if deletedAt.Valid {
		d := deletedAt.Time
		tr.DeletedAt = &d
	}

	return tr, nil
}
