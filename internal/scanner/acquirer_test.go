package scanner

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/event-meal-checkin/internal/model"
	"github.com/fairyhunter13/event-meal-checkin/internal/service"
)

// fakeSource feeds a fixed code sequence and closes.
type fakeSource struct {
	codes chan string
}

func newFakeSource(codes ...string) *fakeSource {
	s := &fakeSource{codes: make(chan string, len(codes))}
	for _, code := range codes {
		s.codes <- code
	}
	close(s.codes)
	return s
}

func (s *fakeSource) Codes() <-chan string { return s.codes }

// fakeDirectory resolves any code starting with "P"; everything else is unknown.
type fakeDirectory struct{}

func (fakeDirectory) GetByID(ctx context.Context, participantID string) (*model.Participant, error) {
	if !strings.HasPrefix(participantID, "P") {
		return nil, service.ErrParticipantNotFound
	}
	return &model.Participant{ParticipantID: participantID, Name: "Anita Rao"}, nil
}

// fakeClaimer records every claim attempt.
type fakeClaimer struct {
	claims []string
	err    error
}

func (c *fakeClaimer) Claim(ctx context.Context, participant *model.Participant, mealType string) (string, error) {
	c.claims = append(c.claims, participant.ParticipantID+"/"+mealType)
	if c.err != nil {
		return "", c.err
	}
	return mealType + " claimed successfully", nil
}

// stepClock advances by step on every call, simulating human-paced scans.
func stepClock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(step)
		return current
	}
}

func TestAcquirer_ClaimsResolvedCodes(t *testing.T) {
	claimer := &fakeClaimer{}
	acq := NewAcquirer(fakeDirectory{}, claimer, model.MealLunch, time.Millisecond)
	acq.now = stepClock(time.Now(), time.Second)

	err := acq.Run(context.Background(), newFakeSource("P1", "P2"))

	require.NoError(t, err)
	assert.Equal(t, []string{"P1/Lunch", "P2/Lunch"}, claimer.claims)
}

func TestAcquirer_DebounceDropsRapidScans(t *testing.T) {
	claimer := &fakeClaimer{}
	acq := NewAcquirer(fakeDirectory{}, claimer, model.MealLunch, DefaultDebounce)
	// The badge sits in front of the camera: one decode every 100ms.
	acq.now = stepClock(time.Now(), 100*time.Millisecond)

	err := acq.Run(context.Background(), newFakeSource("P1", "P1", "P1", "P1"))

	require.NoError(t, err)
	assert.Equal(t, []string{"P1/Lunch"}, claimer.claims,
		"only the first scan inside the debounce window may go through")
}

func TestAcquirer_DebounceWindowReopens(t *testing.T) {
	claimer := &fakeClaimer{}
	acq := NewAcquirer(fakeDirectory{}, claimer, model.MealLunch, DefaultDebounce)
	acq.now = stepClock(time.Now(), 3*time.Second)

	err := acq.Run(context.Background(), newFakeSource("P1", "P2", "P3"))

	require.NoError(t, err)
	assert.Len(t, claimer.claims, 3, "scans spaced past the window all go through")
}

func TestAcquirer_UnknownCodeSkipped(t *testing.T) {
	claimer := &fakeClaimer{}
	acq := NewAcquirer(fakeDirectory{}, claimer, model.MealDinner, time.Millisecond)
	acq.now = stepClock(time.Now(), time.Second)

	err := acq.Run(context.Background(), newFakeSource("garbage", "P1"))

	require.NoError(t, err)
	assert.Equal(t, []string{"P1/Dinner"}, claimer.claims)
}

func TestAcquirer_DenialDoesNotStopSession(t *testing.T) {
	claimer := &fakeClaimer{err: &service.AlreadyClaimedError{ClaimantName: "Anita Rao", MealType: model.MealLunch}}
	acq := NewAcquirer(fakeDirectory{}, claimer, model.MealLunch, time.Millisecond)
	acq.now = stepClock(time.Now(), time.Second)

	err := acq.Run(context.Background(), newFakeSource("P1", "P2"))

	require.NoError(t, err)
	assert.Len(t, claimer.claims, 2, "denials are logged, not fatal")
}

func TestAcquirer_InvalidMealType(t *testing.T) {
	acq := NewAcquirer(fakeDirectory{}, &fakeClaimer{}, "Brunch", time.Millisecond)

	err := acq.Run(context.Background(), newFakeSource("P1"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrInvalidRequest))
}

func TestAcquirer_ContextCancellation(t *testing.T) {
	src := &fakeSource{codes: make(chan string)} // never closes, never emits
	acq := NewAcquirer(fakeDirectory{}, &fakeClaimer{}, model.MealLunch, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- acq.Run(ctx, src) }()

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("acquirer did not stop on context cancellation")
	}
}

func TestReaderSource_EmitsTrimmedLines(t *testing.T) {
	src := NewReaderSource(strings.NewReader("P1\n  P2  \n\nP3\n"))

	var got []string
	for code := range src.Codes() {
		got = append(got, code)
	}
	assert.Equal(t, []string{"P1", "P2", "P3"}, got, "blank lines are dropped, whitespace trimmed")
}
