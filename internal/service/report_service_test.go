package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/event-meal-checkin/internal/model"
)

// mockClaimLister is a mock implementation of ClaimListerInterface.
type mockClaimLister struct {
	listByFilterFn func(ctx context.Context, filter model.ClaimFilter) ([]model.Claim, error)
}

func (m *mockClaimLister) ListByFilter(ctx context.Context, filter model.ClaimFilter) ([]model.Claim, error) {
	if m.listByFilterFn != nil {
		return m.listByFilterFn(ctx, filter)
	}
	return []model.Claim{}, nil
}

func alphaRoster() []model.Participant {
	return []model.Participant{
		{ParticipantID: "P1", Name: "Anita Rao", TeamName: "Alpha", StudentMentor: model.RoleStudent},
		{ParticipantID: "P2", Name: "Binod Kumar", TeamName: "Alpha", StudentMentor: model.RoleStudent},
		{ParticipantID: "P3", Name: "Chitra Menon", TeamName: "Alpha", StudentMentor: model.RoleMentor},
	}
}

func TestReportService_Demographics_FilterScenario(t *testing.T) {
	// Team Alpha, Breakfast, 2024-09-01: only P1 has claimed.
	var capturedFilter model.ClaimFilter
	claims := &mockClaimLister{
		listByFilterFn: func(ctx context.Context, filter model.ClaimFilter) ([]model.Claim, error) {
			capturedFilter = filter
			return []model.Claim{{
				Participant: model.Participant{ParticipantID: "P1", Name: "Anita Rao", TeamName: "Alpha", StudentMentor: model.RoleStudent},
				MealType:    model.MealBreakfast,
				Date:        "2024-09-01",
			}}, nil
		},
	}
	var capturedTeams []string
	var capturedRole string
	participants := &mockParticipantRepository{
		listByFilterFn: func(ctx context.Context, teams []string, role string) ([]model.Participant, error) {
			capturedTeams = teams
			capturedRole = role
			return alphaRoster(), nil
		},
	}

	svc := NewReportService(claims, participants)
	filter := model.ClaimFilter{MealType: model.MealBreakfast, Teams: []string{"Alpha"}, Date: "2024-09-01"}
	resp, err := svc.Demographics(context.Background(), filter)

	require.NoError(t, err)
	assert.Equal(t, filter, capturedFilter)
	assert.Equal(t, []string{"Alpha"}, capturedTeams)
	assert.Empty(t, capturedRole)

	require.Len(t, resp.ClaimsData, 1)
	assert.Equal(t, "P1", resp.ClaimsData[0].Participant.ParticipantID)
	assert.Equal(t, 3, resp.TotalParticipants)
	assert.Equal(t, 2, resp.UnclaimedParticipants)
	assert.Equal(t, 1, resp.UnclaimedStudents, "P2 is the only unclaimed Student on Alpha")
	assert.Equal(t, 1, resp.UnclaimedMentors, "P3 is the only unclaimed Mentor on Alpha")
}

func TestReportService_Demographics_NoClaims(t *testing.T) {
	participants := &mockParticipantRepository{
		listByFilterFn: func(ctx context.Context, teams []string, role string) ([]model.Participant, error) {
			return alphaRoster(), nil
		},
	}

	svc := NewReportService(&mockClaimLister{}, participants)
	resp, err := svc.Demographics(context.Background(), model.ClaimFilter{})

	require.NoError(t, err)
	assert.Empty(t, resp.ClaimsData)
	assert.Equal(t, 3, resp.TotalParticipants)
	assert.Equal(t, 3, resp.UnclaimedParticipants)
	assert.Equal(t, 2, resp.UnclaimedStudents)
	assert.Equal(t, 1, resp.UnclaimedMentors)
}

func TestReportService_Demographics_EveryoneClaimed(t *testing.T) {
	claims := &mockClaimLister{
		listByFilterFn: func(ctx context.Context, filter model.ClaimFilter) ([]model.Claim, error) {
			var out []model.Claim
			for _, p := range alphaRoster() {
				out = append(out, model.Claim{Participant: p, MealType: model.MealDinner, Date: "2024-09-01"})
			}
			return out, nil
		},
	}
	participants := &mockParticipantRepository{
		listByFilterFn: func(ctx context.Context, teams []string, role string) ([]model.Participant, error) {
			return alphaRoster(), nil
		},
	}

	svc := NewReportService(claims, participants)
	resp, err := svc.Demographics(context.Background(), model.ClaimFilter{MealType: model.MealDinner})

	require.NoError(t, err)
	assert.Equal(t, 0, resp.UnclaimedParticipants)
	assert.Equal(t, 0, resp.UnclaimedStudents)
	assert.Equal(t, 0, resp.UnclaimedMentors)
}

func TestReportService_Demographics_ClaimListError(t *testing.T) {
	dbErr := errors.New("database connection failed")
	claims := &mockClaimLister{
		listByFilterFn: func(ctx context.Context, filter model.ClaimFilter) ([]model.Claim, error) {
			return nil, dbErr
		},
	}

	svc := NewReportService(claims, &mockParticipantRepository{})
	resp, err := svc.Demographics(context.Background(), model.ClaimFilter{})

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, dbErr))
}

func TestReportService_Demographics_ParticipantListError(t *testing.T) {
	dbErr := errors.New("database connection failed")
	participants := &mockParticipantRepository{
		listByFilterFn: func(ctx context.Context, teams []string, role string) ([]model.Participant, error) {
			return nil, dbErr
		},
	}

	svc := NewReportService(&mockClaimLister{}, participants)
	resp, err := svc.Demographics(context.Background(), model.ClaimFilter{})

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, dbErr))
}
