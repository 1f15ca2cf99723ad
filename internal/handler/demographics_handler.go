package handler

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/event-meal-checkin/internal/model"
)

// maxTeamFilter caps the team filter; the dashboard compares at most two teams.
const maxTeamFilter = 2

// ReportServiceInterface defines the interface for dashboard aggregation.
type ReportServiceInterface interface {
	Demographics(ctx context.Context, filter model.ClaimFilter) (*model.DemographicsResponse, error)
}

// DemographicsHandler handles HTTP requests for dashboard aggregates.
type DemographicsHandler struct {
	service ReportServiceInterface
}

// NewDemographicsHandler creates a new DemographicsHandler with the given service.
func NewDemographicsHandler(svc ReportServiceInterface) *DemographicsHandler {
	return &DemographicsHandler{service: svc}
}

// Demographics handles GET /api/demographics requests. Every filter is
// optional; "All" is treated the same as an absent filter.
func (h *DemographicsHandler) Demographics(c *fiber.Ctx) error {
	filter := model.ClaimFilter{Date: c.Query("date")}

	if mealType := c.Query("mealType"); mealType != "" && mealType != model.FilterAll {
		if !model.ValidMealType(mealType) {
			return c.Status(fiber.StatusBadRequest).JSON(model.MessageResponse{Message: "Unknown meal type: " + mealType})
		}
		filter.MealType = mealType
	}
	if role := c.Query("role"); role != "" && role != model.FilterAll {
		filter.Role = role
	}
	if team := c.Query("team"); team != "" && team != model.FilterAll {
		teams := strings.Split(team, ",")
		if len(teams) > maxTeamFilter {
			teams = teams[:maxTeamFilter]
		}
		filter.Teams = teams
	}

	resp, err := h.service.Demographics(c.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to aggregate demographics")
		return c.Status(fiber.StatusInternalServerError).JSON(model.MessageResponse{Message: "Internal Server Error"})
	}
	return c.JSON(resp)
}
