package service

import (
	"context"
	"fmt"

	"github.com/fairyhunter13/event-meal-checkin/internal/model"
)

// ClaimListerInterface is the read-only slice of the claim repository that
// reporting needs.
type ClaimListerInterface interface {
	ListByFilter(ctx context.Context, filter model.ClaimFilter) ([]model.Claim, error)
}

// ReportService computes dashboard aggregates over the claim ledger and the
// participant roster. It holds no write contract with either store.
type ReportService struct {
	claims       ClaimListerInterface
	participants ParticipantRepositoryInterface
}

// NewReportService creates a new ReportService with the given repositories.
func NewReportService(claims ClaimListerInterface, participants ParticipantRepositoryInterface) *ReportService {
	return &ReportService{claims: claims, participants: participants}
}

// Demographics returns the claims matching the filter together with the
// unclaimed side of the roster: participants (narrowed by the same team/role
// filters) that have no matching claim, split by Student/Mentor role.
func (s *ReportService) Demographics(ctx context.Context, filter model.ClaimFilter) (*model.DemographicsResponse, error) {
	claims, err := s.claims.ListByFilter(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}

	participants, err := s.participants.ListByFilter(ctx, filter.Teams, filter.Role)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	claimed := make(map[string]struct{}, len(claims))
	for _, claim := range claims {
		claimed[claim.Participant.ParticipantID] = struct{}{}
	}

	var unclaimed, students, mentors int
	for _, p := range participants {
		if _, ok := claimed[p.ParticipantID]; ok {
			continue
		}
		unclaimed++
		switch p.StudentMentor {
		case model.RoleStudent:
			students++
		case model.RoleMentor:
			mentors++
		}
	}

	return &model.DemographicsResponse{
		ClaimsData:            claims,
		TotalParticipants:     len(participants),
		UnclaimedParticipants: unclaimed,
		UnclaimedStudents:     students,
		UnclaimedMentors:      mentors,
	}, nil
}
