package service

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sahilm/fuzzy"

	"github.com/fairyhunter13/event-meal-checkin/internal/model"
)

const (
	// directoryCacheSize bounds the by-ID lookup cache. The roster is
	// read-only for this service, so entries never need invalidation.
	directoryCacheSize = 4096

	// searchResultLimit caps participant search responses.
	searchResultLimit = 10

	// searchPrefilterLimit is how many ILIKE matches the repository returns
	// before fuzzy ranking trims them to searchResultLimit.
	searchPrefilterLimit = 50
)

// ParticipantRepositoryInterface defines the interface for participant data access.
type ParticipantRepositoryInterface interface {
	GetByID(ctx context.Context, participantID string) (*model.Participant, error)
	Search(ctx context.Context, search string, limit int) ([]model.Participant, error)
	DistinctTeams(ctx context.Context, search string) ([]string, error)
	ListByFilter(ctx context.Context, teams []string, role string) ([]model.Participant, error)
}

// participantSearchItems implements fuzzy.Source over search candidates.
type participantSearchItems []model.Participant

func (items participantSearchItems) Len() int { return len(items) }

func (items participantSearchItems) String(i int) string {
	p := items[i]
	return strings.ToLower(p.Name + " " + p.TeamName + " " + p.MailID)
}

// DirectoryService resolves and searches participants. The QR scan loop hits
// GetByID once per badge every debounce window, so lookups are cached; the
// roster is externally managed and treated as immutable for the event.
type DirectoryService struct {
	participants ParticipantRepositoryInterface
	cache        *lru.Cache
}

// NewDirectoryService creates a new DirectoryService with the given repository.
func NewDirectoryService(participants ParticipantRepositoryInterface) *DirectoryService {
	cache, _ := lru.New(directoryCacheSize)
	return &DirectoryService{participants: participants, cache: cache}
}

// GetByID resolves a participant by ID.
// Returns ErrParticipantNotFound if the ID resolves to nothing.
func (s *DirectoryService) GetByID(ctx context.Context, participantID string) (*model.Participant, error) {
	if participantID == "" {
		return nil, ErrInvalidRequest
	}

	if cached, ok := s.cache.Get(participantID); ok {
		p := cached.(model.Participant)
		return &p, nil
	}

	p, err := s.participants.GetByID(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("get participant: %w", err)
	}
	if p == nil {
		return nil, ErrParticipantNotFound
	}

	s.cache.Add(participantID, *p)
	return p, nil
}

// Search returns up to 10 participants matching the query case-insensitively
// over name, team and mail. The repository prefilters by substring; fuzzy
// matching then orders the candidates by relevance. Results are deduplicated
// by participant ID.
func (s *DirectoryService) Search(ctx context.Context, query string) ([]model.Participant, error) {
	if query == "" {
		return nil, ErrInvalidRequest
	}

	candidates, err := s.participants.Search(ctx, query, searchPrefilterLimit)
	if err != nil {
		return nil, fmt.Errorf("search participants: %w", err)
	}

	items := participantSearchItems(candidates)
	matches := fuzzy.FindFrom(strings.ToLower(query), items)

	results := make([]model.Participant, 0, searchResultLimit)
	seen := make(map[string]struct{}, searchResultLimit)
	add := func(p model.Participant) {
		if _, dup := seen[p.ParticipantID]; dup || len(results) >= searchResultLimit {
			return
		}
		seen[p.ParticipantID] = struct{}{}
		results = append(results, p)
	}

	for _, match := range matches {
		add(items[match.Index])
	}
	// ILIKE matched but the fuzzy scorer didn't: keep repository order.
	for _, p := range candidates {
		add(p)
	}
	return results, nil
}

// SearchTeams returns distinct team names matching the query case-insensitively.
func (s *DirectoryService) SearchTeams(ctx context.Context, query string) ([]string, error) {
	teams, err := s.participants.DistinctTeams(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search teams: %w", err)
	}
	return teams, nil
}
