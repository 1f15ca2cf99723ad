package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/event-meal-checkin/internal/model"
	"github.com/fairyhunter13/event-meal-checkin/internal/service"
)

// MealServiceInterface defines the interface for meal claim business logic.
type MealServiceInterface interface {
	Claim(ctx context.Context, participant *model.Participant, mealType string) (string, error)
	Reset(ctx context.Context, participantID, mealType string) error
	CheckStatus(ctx context.Context, participantID, mealType string) (bool, error)
}

// MealHandler handles HTTP requests for claim, reset and status operations.
// The optical scan stations and the manual search view call these endpoints
// identically; the handler does not care which adapter produced the request.
type MealHandler struct {
	service   MealServiceInterface
	validator *validator.Validate
}

// NewMealHandler creates a new MealHandler with the given service and validator.
func NewMealHandler(svc MealServiceInterface, v *validator.Validate) *MealHandler {
	return &MealHandler{service: svc, validator: v}
}

// parseClaimRequest parses and validates the shared claim/reset body.
// Malformed or incomplete bodies get the boundary error message; a meal type
// outside Breakfast/Lunch/Dinner is called out separately.
func (h *MealHandler) parseClaimRequest(c *fiber.Ctx) (*model.ClaimMealRequest, string) {
	var req model.ClaimMealRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, "Participant and meal type are required"
	}
	if err := h.validator.Struct(req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			for _, fe := range ve {
				if fe.Field() == "MealType" && fe.Tag() == "mealtype" {
					return nil, "Unknown meal type: " + req.MealType
				}
			}
		}
		return nil, "Participant and meal type are required"
	}
	return &req, ""
}

// ClaimMeal handles POST /api/meals/claim requests.
func (h *MealHandler) ClaimMeal(c *fiber.Ctx) error {
	req, msg := h.parseClaimRequest(c)
	if req == nil {
		return c.Status(fiber.StatusBadRequest).JSON(model.MessageResponse{Message: msg})
	}

	message, err := h.service.Claim(c.Context(), req.Participant, req.MealType)
	if err != nil {
		var denied *service.AlreadyClaimedError
		if errors.As(err, &denied) {
			return c.Status(fiber.StatusBadRequest).JSON(model.MessageResponse{Message: denied.Error()})
		}
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(model.MessageResponse{Message: "Participant and meal type are required"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("participant_id", req.Participant.ParticipantID).
			Str("meal_type", req.MealType).
			Msg("failed to claim meal")
		return c.Status(fiber.StatusInternalServerError).JSON(model.MessageResponse{Message: "Internal Server Error"})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("participant_id", req.Participant.ParticipantID).
		Str("meal_type", req.MealType).
		Msg("meal claimed")

	return c.JSON(model.MessageResponse{Message: message})
}

// ResetMeal handles POST /api/meals/reset requests.
func (h *MealHandler) ResetMeal(c *fiber.Ctx) error {
	req, msg := h.parseClaimRequest(c)
	if req == nil {
		return c.Status(fiber.StatusBadRequest).JSON(model.MessageResponse{Message: msg})
	}

	if err := h.service.Reset(c.Context(), req.Participant.ParticipantID, req.MealType); err != nil {
		if errors.Is(err, service.ErrClaimNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(model.MessageResponse{Message: "No meal claim found to reset"})
		}
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(model.MessageResponse{Message: "Participant and meal type are required"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("participant_id", req.Participant.ParticipantID).
			Str("meal_type", req.MealType).
			Msg("failed to reset meal claim")
		return c.Status(fiber.StatusInternalServerError).JSON(model.MessageResponse{Message: "Internal Server Error"})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("participant_id", req.Participant.ParticipantID).
		Str("meal_type", req.MealType).
		Msg("meal claim reset")

	return c.JSON(model.MessageResponse{Message: "Meal claim reset successfully"})
}

// CheckStatus handles GET /api/meals/status requests. The manual search view
// uses this to decide whether to show the reset control, so a lookup failure
// degrades to claimed=false rather than an error page.
func (h *MealHandler) CheckStatus(c *fiber.Ctx) error {
	participantID := c.Query("participantId")
	mealType := c.Query("mealType")
	if participantID == "" || mealType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(model.MessageResponse{Message: "Participant ID and meal type are required"})
	}

	claimed, err := h.service.CheckStatus(c.Context(), participantID, mealType)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(model.MessageResponse{Message: "Unknown meal type: " + mealType})
		}
		log.Error().
			Err(err).
			Str("participant_id", participantID).
			Str("meal_type", mealType).
			Msg("failed to check claim status")
		return c.JSON(model.StatusResponse{Claimed: false})
	}
	return c.JSON(model.StatusResponse{Claimed: claimed})
}
