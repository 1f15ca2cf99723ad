// Package scanner adapts an optical code source to the claim service. The
// acquirer is an explicit rate-limited producer: it forwards at most one
// candidate code per debounce window per session. The ledger's uniqueness
// constraint stays authoritative, so a bypassed or buggy debounce can cause
// duplicate denials but never duplicate claims.
package scanner

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/event-meal-checkin/internal/model"
	"github.com/fairyhunter13/event-meal-checkin/internal/service"
)

// DefaultDebounce is the minimum interval between forwarded scans. Matches
// the two-second window handheld scanners need to stop re-reading the same badge.
const DefaultDebounce = 2 * time.Second

// CodeSource emits raw participant identifiers decoded from a scanner device.
// The channel is closed when the device goes away.
type CodeSource interface {
	Codes() <-chan string
}

// DirectoryResolver resolves a raw code to a participant record.
type DirectoryResolver interface {
	GetByID(ctx context.Context, participantID string) (*model.Participant, error)
}

// MealClaimer records a claim for a resolved participant.
type MealClaimer interface {
	Claim(ctx context.Context, participant *model.Participant, mealType string) (string, error)
}

// Acquirer drains a CodeSource for a single scanning session. Each session is
// bound to one meal type, mirroring a staffed station serving one meal window.
type Acquirer struct {
	directory DirectoryResolver
	claims    MealClaimer
	mealType  string
	debounce  time.Duration
	now       func() time.Time

	lastScan time.Time
}

// NewAcquirer creates an Acquirer for one scanning session.
// A non-positive debounce falls back to DefaultDebounce.
func NewAcquirer(directory DirectoryResolver, claims MealClaimer, mealType string, debounce time.Duration) *Acquirer {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Acquirer{
		directory: directory,
		claims:    claims,
		mealType:  mealType,
		debounce:  debounce,
		now:       time.Now,
	}
}

// Run consumes codes until the source closes or ctx is cancelled.
// Returns an error only for invalid session setup; per-scan failures are
// logged and the loop keeps serving the queue.
func (a *Acquirer) Run(ctx context.Context, source CodeSource) error {
	if !model.ValidMealType(a.mealType) {
		return service.ErrInvalidRequest
	}

	log.Info().Str("meal_type", a.mealType).Dur("debounce", a.debounce).Msg("scan session started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case code, ok := <-source.Codes():
			if !ok {
				log.Info().Str("meal_type", a.mealType).Msg("scan session ended")
				return nil
			}
			a.handle(ctx, code)
		}
	}
}

func (a *Acquirer) handle(ctx context.Context, code string) {
	if code == "" {
		return
	}

	now := a.now()
	if !a.lastScan.IsZero() && now.Sub(a.lastScan) < a.debounce {
		log.Debug().Str("code", code).Msg("scan dropped by debounce")
		return
	}
	a.lastScan = now

	participant, err := a.directory.GetByID(ctx, code)
	if err != nil {
		if errors.Is(err, service.ErrParticipantNotFound) {
			log.Warn().Str("code", code).Msg("scanned code matches no participant")
		} else {
			log.Error().Err(err).Str("code", code).Msg("failed to resolve scanned code")
		}
		return
	}

	message, err := a.claims.Claim(ctx, participant, a.mealType)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyClaimed) {
			log.Info().
				Str("participant_id", participant.ParticipantID).
				Str("meal_type", a.mealType).
				Msg(err.Error())
			return
		}
		log.Error().
			Err(err).
			Str("participant_id", participant.ParticipantID).
			Str("meal_type", a.mealType).
			Msg("failed to claim meal for scan")
		return
	}

	log.Info().
		Str("participant_id", participant.ParticipantID).
		Str("name", participant.Name).
		Msg(message)
}
