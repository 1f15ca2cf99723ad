package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/event-meal-checkin/internal/model"
	"github.com/fairyhunter13/event-meal-checkin/internal/service"
)

const claimColumns = `participant_id, name, team_name, mail_id, student_mentor,
	meal_type, to_char(claim_date, 'YYYY-MM-DD'), claimed_at`

// ClaimPoolInterface defines the database operations needed by ClaimRepository.
type ClaimPoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// ClaimRepository provides data access for meal claims using pgx.
// The meal_claims table carries UNIQUE(participant_id, meal_type, claim_date),
// so check-then-insert is atomic at the storage layer: concurrent inserts on
// the same triple yield exactly one row and unique-violation errors for the
// rest, regardless of how many service processes are running.
type ClaimRepository struct {
	pool ClaimPoolInterface
}

// NewClaimRepository creates a new ClaimRepository with the given pool.
func NewClaimRepository(pool *pgxpool.Pool) *ClaimRepository {
	return &ClaimRepository{pool: pool}
}

// NewClaimRepositoryWithPool creates a new ClaimRepository with a custom pool interface.
// This is primarily used for testing.
func NewClaimRepositoryWithPool(pool ClaimPoolInterface) *ClaimRepository {
	return &ClaimRepository{pool: pool}
}

// Insert stores a new claim. Returns service.ErrAlreadyClaimed if a claim
// already exists for the (participant, meal, date) triple; no row is written
// in that case.
func (r *ClaimRepository) Insert(ctx context.Context, claim *model.Claim) error {
	query := `INSERT INTO meal_claims
		(participant_id, name, team_name, mail_id, student_mentor, meal_type, claim_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	p := claim.Participant
	_, err := r.pool.Exec(ctx, query,
		p.ParticipantID, p.Name, p.TeamName, p.MailID, p.StudentMentor,
		claim.MealType, claim.Date)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrAlreadyClaimed
		}
		return fmt.Errorf("insert claim: %w", err)
	}
	return nil
}

// GetByTriple retrieves the claim for a (participant, meal, date) triple.
// Returns nil, nil if no claim exists (service layer handles this).
func (r *ClaimRepository) GetByTriple(ctx context.Context, participantID, mealType, date string) (*model.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM meal_claims
		WHERE participant_id = $1 AND meal_type = $2 AND claim_date = $3`

	var claim model.Claim
	err := r.pool.QueryRow(ctx, query, participantID, mealType, date).Scan(
		&claim.Participant.ParticipantID,
		&claim.Participant.Name,
		&claim.Participant.TeamName,
		&claim.Participant.MailID,
		&claim.Participant.StudentMentor,
		&claim.MealType,
		&claim.Date,
		&claim.ClaimedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get claim for %s/%s/%s: %w", participantID, mealType, date, err)
	}
	return &claim, nil
}

// Exists reports whether a claim exists for the triple. Pure lookup, no side effect.
func (r *ClaimRepository) Exists(ctx context.Context, participantID, mealType, date string) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM meal_claims
		WHERE participant_id = $1 AND meal_type = $2 AND claim_date = $3)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, participantID, mealType, date).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check claim for %s/%s/%s: %w", participantID, mealType, date, err)
	}
	return exists, nil
}

// Delete removes the claim matching the triple. Returns service.ErrClaimNotFound
// when no row matched: resetting an unclaimed meal is an error, not a silent no-op.
func (r *ClaimRepository) Delete(ctx context.Context, participantID, mealType, date string) error {
	query := `DELETE FROM meal_claims
		WHERE participant_id = $1 AND meal_type = $2 AND claim_date = $3`

	tag, err := r.pool.Exec(ctx, query, participantID, mealType, date)
	if err != nil {
		return fmt.Errorf("delete claim for %s/%s/%s: %w", participantID, mealType, date, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrClaimNotFound
	}
	return nil
}

// ListByFilter retrieves claims matching the filter, for reporting only.
// Zero-value filter fields are skipped; all set fields must match.
func (r *ClaimRepository) ListByFilter(ctx context.Context, filter model.ClaimFilter) ([]model.Claim, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.MealType != "" {
		conds = append(conds, "meal_type = "+arg(filter.MealType))
	}
	if len(filter.Teams) > 0 {
		conds = append(conds, "team_name = ANY("+arg(filter.Teams)+")")
	}
	if filter.Date != "" {
		conds = append(conds, "claim_date = "+arg(filter.Date))
	}
	if filter.Role != "" {
		conds = append(conds, "student_mentor = "+arg(filter.Role))
	}

	query := `SELECT ` + claimColumns + ` FROM meal_claims`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY claimed_at"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	defer rows.Close()

	claims := []model.Claim{}
	for rows.Next() {
		var claim model.Claim
		if err := rows.Scan(
			&claim.Participant.ParticipantID,
			&claim.Participant.Name,
			&claim.Participant.TeamName,
			&claim.Participant.MailID,
			&claim.Participant.StudentMentor,
			&claim.MealType,
			&claim.Date,
			&claim.ClaimedAt,
		); err != nil {
			return nil, fmt.Errorf("scan claim row: %w", err)
		}
		claims = append(claims, claim)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate claim rows: %w", err)
	}
	return claims, nil
}
