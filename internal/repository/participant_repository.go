package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/event-meal-checkin/internal/model"
)

// ParticipantPoolInterface defines the database operations needed by ParticipantRepository.
type ParticipantPoolInterface interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// ParticipantRepository provides read-only access to the externally managed
// participants table. This service never creates or updates participants.
type ParticipantRepository struct {
	pool ParticipantPoolInterface
}

// NewParticipantRepository creates a new ParticipantRepository with the given pool.
func NewParticipantRepository(pool *pgxpool.Pool) *ParticipantRepository {
	return &ParticipantRepository{pool: pool}
}

// NewParticipantRepositoryWithPool creates a new ParticipantRepository with a
// custom pool interface. This is primarily used for testing.
func NewParticipantRepositoryWithPool(pool ParticipantPoolInterface) *ParticipantRepository {
	return &ParticipantRepository{pool: pool}
}

const participantColumns = `participant_id, name, team_name, mail_id, student_mentor`

// GetByID retrieves a participant by ID.
// Returns nil, nil if the participant is not found (service layer handles this).
func (r *ParticipantRepository) GetByID(ctx context.Context, participantID string) (*model.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE participant_id = $1`

	var p model.Participant
	err := r.pool.QueryRow(ctx, query, participantID).Scan(
		&p.ParticipantID, &p.Name, &p.TeamName, &p.MailID, &p.StudentMentor)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get participant %s: %w", participantID, err)
	}
	return &p, nil
}

// Search retrieves up to limit participants whose name, team or mail matches
// the query case-insensitively. DISTINCT ON keeps one row per participant ID;
// the service layer ranks the result set further.
func (r *ParticipantRepository) Search(ctx context.Context, search string, limit int) ([]model.Participant, error) {
	query := `SELECT DISTINCT ON (participant_id) ` + participantColumns + `
		FROM participants
		WHERE name ILIKE $1 OR team_name ILIKE $1 OR mail_id ILIKE $1
		ORDER BY participant_id
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, "%"+search+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search participants %q: %w", search, err)
	}
	defer rows.Close()

	return scanParticipants(rows)
}

// DistinctTeams retrieves distinct team names matching the query case-insensitively.
// On success, returns an empty slice (not nil) when nothing matches.
func (r *ParticipantRepository) DistinctTeams(ctx context.Context, search string) ([]string, error) {
	query := `SELECT DISTINCT team_name FROM participants
		WHERE team_name ILIKE $1 ORDER BY team_name`

	rows, err := r.pool.Query(ctx, query, "%"+search+"%")
	if err != nil {
		return nil, fmt.Errorf("search teams %q: %w", search, err)
	}
	defer rows.Close()

	teams := []string{}
	for rows.Next() {
		var team string
		if err := rows.Scan(&team); err != nil {
			return nil, fmt.Errorf("scan team name: %w", err)
		}
		teams = append(teams, team)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate team rows: %w", err)
	}
	return teams, nil
}

// ListByFilter retrieves the participant roster narrowed by team and role.
// Empty filter values mean "no filter". Used by reporting to compute the
// unclaimed side of the demographics aggregate.
func (r *ParticipantRepository) ListByFilter(ctx context.Context, teams []string, role string) ([]model.Participant, error) {
	var (
		conds []string
		args  []any
	)
	if len(teams) > 0 {
		args = append(args, teams)
		conds = append(conds, fmt.Sprintf("team_name = ANY($%d)", len(args)))
	}
	if role != "" {
		args = append(args, role)
		conds = append(conds, fmt.Sprintf("student_mentor = $%d", len(args)))
	}

	query := `SELECT ` + participantColumns + ` FROM participants`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	return scanParticipants(rows)
}

func scanParticipants(rows pgx.Rows) ([]model.Participant, error) {
	participants := []model.Participant{}
	for rows.Next() {
		var p model.Participant
		if err := rows.Scan(&p.ParticipantID, &p.Name, &p.TeamName, &p.MailID, &p.StudentMentor); err != nil {
			return nil, fmt.Errorf("scan participant row: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participant rows: %w", err)
	}
	return participants, nil
}
