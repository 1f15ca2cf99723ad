package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/event-meal-checkin/internal/model"
	"github.com/fairyhunter13/event-meal-checkin/internal/service"
)

// DirectoryServiceInterface defines the interface for participant lookups.
type DirectoryServiceInterface interface {
	GetByID(ctx context.Context, participantID string) (*model.Participant, error)
	Search(ctx context.Context, query string) ([]model.Participant, error)
	SearchTeams(ctx context.Context, query string) ([]string, error)
}

// ParticipantHandler handles HTTP requests for participant resolution and search.
type ParticipantHandler struct {
	service DirectoryServiceInterface
}

// NewParticipantHandler creates a new ParticipantHandler with the given service.
func NewParticipantHandler(svc DirectoryServiceInterface) *ParticipantHandler {
	return &ParticipantHandler{service: svc}
}

// GetParticipant handles GET /api/participants?id= requests. This is the QR
// path: the scanner resolves the decoded code to a full participant record
// before claiming.
func (h *ParticipantHandler) GetParticipant(c *fiber.Ctx) error {
	participantID := c.Query("id")
	if participantID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(model.MessageResponse{Message: "Participant ID is required"})
	}

	p, err := h.service.GetByID(c.Context(), participantID)
	if err != nil {
		if errors.Is(err, service.ErrParticipantNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(model.MessageResponse{Message: "Participant not found"})
		}
		log.Error().Err(err).Str("participant_id", participantID).Msg("failed to get participant")
		return c.Status(fiber.StatusInternalServerError).JSON(model.MessageResponse{Message: "Internal Server Error"})
	}
	return c.JSON(p)
}

// SearchParticipants handles GET /api/search/participants?query= requests.
func (h *ParticipantHandler) SearchParticipants(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(model.MessageResponse{Message: "search parameter is required"})
	}

	results, err := h.service.Search(c.Context(), query)
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("failed to search participants")
		return c.Status(fiber.StatusInternalServerError).JSON(model.MessageResponse{Message: "Internal Server Error"})
	}
	return c.JSON(results)
}

// SearchTeams handles GET /api/search/teams?query= requests.
func (h *ParticipantHandler) SearchTeams(c *fiber.Ctx) error {
	teams, err := h.service.SearchTeams(c.Context(), c.Query("query"))
	if err != nil {
		log.Error().Err(err).Msg("failed to search teams")
		return c.Status(fiber.StatusInternalServerError).JSON(model.MessageResponse{Message: "Internal Server Error"})
	}
	return c.JSON(teams)
}
