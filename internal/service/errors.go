package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned when request data is invalid or incomplete
	ErrInvalidRequest = errors.New("invalid request")

	// ErrAlreadyClaimed is returned when a claim already exists for the
	// (participant, meal, date) triple
	ErrAlreadyClaimed = errors.New("meal already claimed")

	// ErrClaimNotFound is returned by reset when no claim exists for the triple
	ErrClaimNotFound = errors.New("meal claim not found")

	// ErrParticipantNotFound is returned when a participant ID resolves to nothing
	ErrParticipantNotFound = errors.New("participant not found")
)

// AlreadyClaimedError carries the prior claimant for user messaging. The QR
// flow always denies the same person twice, but in the search flow the name
// tells staff whether another station already processed the participant.
type AlreadyClaimedError struct {
	ClaimantName string
	MealType     string
}

func (e *AlreadyClaimedError) Error() string {
	return fmt.Sprintf("%s have already claimed %s for today", e.ClaimantName, e.MealType)
}

// Is makes errors.Is(err, ErrAlreadyClaimed) match.
func (e *AlreadyClaimedError) Is(target error) bool {
	return target == ErrAlreadyClaimed
}
