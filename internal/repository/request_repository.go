package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/opencampus/records-api/internal/models"
)

const requestColumns = `id, user_id, student_name, request_type, status, reason, created_at, updated_at`

// RequestRepository persists document requests.
type RequestRepository struct {
	db *sqlx.DB
}

// NewRequestRepository creates a new instance of RequestRepository.
func NewRequestRepository(db *sqlx.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create inserts a pending request.
func (r *RequestRepository) Create(ctx context.Context, request *models.DocumentRequest) error {
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if request.CreatedAt.IsZero() {
		request.CreatedAt = now
	}
	request.UpdatedAt = now
	const query = `INSERT INTO requests (id, user_id, student_name, request_type, status, reason, created_at, updated_at)
        VALUES (:id, :user_id, :student_name, :request_type, :status, :reason, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, request); err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return nil
}

// FindByID returns a request by identifier.
func (r *RequestRepository) FindByID(ctx context.Context, id string) (*models.DocumentRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM requests WHERE id = $1 LIMIT 1`, requestColumns)
	var request models.DocumentRequest
	if err := r.db.GetContext(ctx, &request, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find request by id: %w", err)
	}
	return &request, nil
}

// Resolve applies a terminal status guarded on the row still being Pending.
// A blind overwrite would allow flip-flopping an already resolved request,
// so the current status participates in the predicate. Returns sql.ErrNoRows
// when nothing was updated.
func (r *RequestRepository) Resolve(ctx context.Context, id string, status models.RequestStatus) error {
	const query = `UPDATE requests SET status = $2, updated_at = $3 WHERE id = $1 AND status = 'Pending'`
	res, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("resolve request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("resolve request rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListByUser returns requests filed by one identity.
func (r *RequestRepository) ListByUser(ctx context.Context, userID string) ([]models.DocumentRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM requests WHERE user_id = $1 ORDER BY created_at DESC`, requestColumns)
	var requests []models.DocumentRequest
	if err := r.db.SelectContext(ctx, &requests, query, userID); err != nil {
		return nil, fmt.Errorf("list requests by user: %w", err)
	}
	return requests, nil
}

// ListByStatus returns requests in one lifecycle state.
func (r *RequestRepository) ListByStatus(ctx context.Context, status models.RequestStatus) ([]models.DocumentRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM requests WHERE status = $1 ORDER BY created_at DESC`, requestColumns)
	var requests []models.DocumentRequest
	if err := r.db.SelectContext(ctx, &requests, query, status); err != nil {
		return nil, fmt.Errorf("list requests by status: %w", err)
	}
	return requests, nil
}

// CountByStatus counts requests in one lifecycle state.
func (r *RequestRepository) CountByStatus(ctx context.Context, status models.RequestStatus) (int, error) {
	const query = `SELECT COUNT(*) FROM requests WHERE status = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, status); err != nil {
		return 0, fmt.Errorf("count requests by status: %w", err)
	}
	return total, nil
}
