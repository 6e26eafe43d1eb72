package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/opencampus/records-api/internal/models"
)

const profileColumns = `id, user_id, role, external_id, first_name, last_name, email, program, year_level, department, section, enrollment_status`

// ProfileRepository persists role-scoped profile records.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository creates a new instance of ProfileRepository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create inserts a profile row.
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	const query = `INSERT INTO profiles (id, user_id, role, external_id, first_name, last_name, email, program, year_level, department, section, enrollment_status)
        VALUES (:id, :user_id, :role, :external_id, :first_name, :last_name, :email, :program, :year_level, :department, :section, :enrollment_status)`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

// FindByUserID returns the profile attached to an identity.
func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM profiles WHERE user_id = $1 LIMIT 1`, profileColumns)
	var profile models.Profile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find profile by user id: %w", err)
	}
	return &profile, nil
}

// FindByID returns a profile by its own identifier.
func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM profiles WHERE id = $1 LIMIT 1`, profileColumns)
	var profile models.Profile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find profile by id: %w", err)
	}
	return &profile, nil
}

// ListByRole returns all profiles of one role family.
func (r *ProfileRepository) ListByRole(ctx context.Context, role models.UserRole) ([]models.Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM profiles WHERE role = $1 ORDER BY last_name, first_name`, profileColumns)
	var profiles []models.Profile
	if err := r.db.SelectContext(ctx, &profiles, query, role); err != nil {
		return nil, fmt.Errorf("list profiles by role: %w", err)
	}
	return profiles, nil
}

// ListByRoleAndProgram returns profiles of one role scoped to a program.
func (r *ProfileRepository) ListByRoleAndProgram(ctx context.Context, role models.UserRole, program string) ([]models.Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM profiles WHERE role = $1 AND program = $2 ORDER BY last_name, first_name`, profileColumns)
	var profiles []models.Profile
	if err := r.db.SelectContext(ctx, &profiles, query, role, program); err != nil {
		return nil, fmt.Errorf("list profiles by role and program: %w", err)
	}
	return profiles, nil
}

// UpdateStudent applies registrar edits to a student profile. The external
// ID and role are never touched.
func (r *ProfileRepository) UpdateStudent(ctx context.Context, profile *models.Profile) error {
	const query = `UPDATE profiles SET program = :program, year_level = :year_level, section = :section, enrollment_status = :enrollment_status WHERE id = :id AND role = 'Student'`
	res, err := r.db.NamedExecContext(ctx, query, profile)
	if err != nil {
		return fmt.Errorf("update student profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update student profile rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountByRole counts profiles of one role family.
func (r *ProfileRepository) CountByRole(ctx context.Context, role models.UserRole) (int, error) {
	const query = `SELECT COUNT(*) FROM profiles WHERE role = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, role); err != nil {
		return 0, fmt.Errorf("count profiles by role: %w", err)
	}
	return total, nil
}
