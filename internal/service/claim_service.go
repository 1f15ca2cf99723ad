package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fairyhunter13/event-meal-checkin/internal/model"
)

// ClaimRepositoryInterface defines the interface for claim data access.
type ClaimRepositoryInterface interface {
	Insert(ctx context.Context, claim *model.Claim) error
	GetByTriple(ctx context.Context, participantID, mealType, date string) (*model.Claim, error)
	Exists(ctx context.Context, participantID, mealType, date string) (bool, error)
	Delete(ctx context.Context, participantID, mealType, date string) error
}

// ClaimService provides business logic for meal claim operations. Per
// (participant, meal, date) triple the state machine has two states,
// Unclaimed and Claimed; Claim and Reset are the only transitions, and the
// triple for a new date always starts Unclaimed.
type ClaimService struct {
	claims ClaimRepositoryInterface
	loc    *time.Location
	now    func() time.Time
}

// NewClaimService creates a new ClaimService. Claim dates are computed from
// wall clock in loc, so day rollover follows the event's local midnight.
func NewClaimService(claims ClaimRepositoryInterface, loc *time.Location) *ClaimService {
	return &ClaimService{claims: claims, loc: loc, now: time.Now}
}

// NewClaimServiceWithClock creates a ClaimService with a custom clock.
// Primarily used for testing.
func NewClaimServiceWithClock(claims ClaimRepositoryInterface, loc *time.Location, now func() time.Time) *ClaimService {
	return &ClaimService{claims: claims, loc: loc, now: now}
}

// today returns the current claim date in the configured timezone.
func (s *ClaimService) today() string {
	return s.now().In(s.loc).Format(model.ClaimDateFormat)
}

// Claim records a meal claim for the participant and returns the success
// message. The uniqueness decision is made by the storage layer's composite
// unique constraint, never by a pre-check, so concurrent attempts on the
// same triple produce exactly one success.
// Returns:
//   - ErrInvalidRequest if the participant or meal type is missing/unrecognized
//   - *AlreadyClaimedError (matches ErrAlreadyClaimed) naming the prior claimant
func (s *ClaimService) Claim(ctx context.Context, participant *model.Participant, mealType string) (string, error) {
	// Defense-in-depth: check even though handler validates
	if participant == nil || participant.ParticipantID == "" || !model.ValidMealType(mealType) {
		return "", ErrInvalidRequest
	}

	date := s.today()
	claim := &model.Claim{
		Participant: *participant, // snapshot: later participant edits must not alter this claim
		MealType:    mealType,
		Date:        date,
	}

	err := s.claims.Insert(ctx, claim)
	if err == nil {
		return fmt.Sprintf("%s claimed successfully", mealType), nil
	}
	if !errors.Is(err, ErrAlreadyClaimed) {
		return "", fmt.Errorf("insert claim: %w", err)
	}

	// Denial path: name whoever holds the claim. In the search flow that may
	// be how staff learn another station already processed this participant.
	name := participant.Name
	if prior, getErr := s.claims.GetByTriple(ctx, participant.ParticipantID, mealType, date); getErr == nil && prior != nil {
		name = prior.Participant.Name
	}
	return "", &AlreadyClaimedError{ClaimantName: name, MealType: mealType}
}

// Reset removes today's claim for the participant and meal.
// Returns ErrClaimNotFound when there is nothing to reset.
func (s *ClaimService) Reset(ctx context.Context, participantID, mealType string) error {
	if participantID == "" || !model.ValidMealType(mealType) {
		return ErrInvalidRequest
	}
	return s.claims.Delete(ctx, participantID, mealType, s.today())
}

// CheckStatus reports whether the participant has claimed the meal today.
func (s *ClaimService) CheckStatus(ctx context.Context, participantID, mealType string) (bool, error) {
	if participantID == "" || !model.ValidMealType(mealType) {
		return false, ErrInvalidRequest
	}
	return s.claims.Exists(ctx, participantID, mealType, s.today())
}
