package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/emmaus-school/talent-api/internal/dto"
	"github.com/emmaus-school/talent-api/internal/ledger"
	"github.com/emmaus-school/talent-api/internal/service"
	"github.com/emmaus-school/talent-api/internal/utils"
)

// AttendanceHandler wires the attendance and activity HTTP routes.
type AttendanceHandler struct {
	attendance service.AttendanceService
	activities service.ActivityService
	logger     zerolog.Logger
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(attendance service.AttendanceService, activities service.ActivityService, logger zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		attendance: attendance,
		activities: activities,
		logger:     logger.With().Str("component", "attendance_handler").Logger(),
	}
}

// Register attaches attendance endpoints to the router group.
func (h *AttendanceHandler) Register(router fiber.Router) {
	router.Put("/attendance", h.setStatus)
	router.Delete("/attendance/:id", h.delete)
	router.Patch("/attendance/:id/comment", h.setComment)
	router.Put("/activities", h.toggleActivity)
}

func (h *AttendanceHandler) setStatus(c *fiber.Ctx) error {
	var payload dto.AttendanceSetRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.attendance.SetStatus(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attendance recorded", result)
}

func (h *AttendanceHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.attendance.Delete(c.Context(), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attendance deleted", nil)
}

func (h *AttendanceHandler) setComment(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.AttendanceCommentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.attendance.SetComment(c.Context(), id, payload); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "comment updated", nil)
}

func (h *AttendanceHandler) toggleActivity(c *fiber.Ctx) error {
	var payload dto.ActivityToggleRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.activities.Toggle(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "activity updated", result)
}

func (h *AttendanceHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case isValidationError(err),
		errors.Is(err, ledger.ErrInvalidDate),
		errors.Is(err, ledger.ErrInvalidStatus),
		errors.Is(err, ledger.ErrInvalidActivity):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrStudentNotFound),
		errors.Is(err, ledger.ErrAttendanceNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("attendance request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
