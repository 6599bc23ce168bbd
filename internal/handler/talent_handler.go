package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/emmaus-school/talent-api/internal/dto"
	"github.com/emmaus-school/talent-api/internal/ledger"
	"github.com/emmaus-school/talent-api/internal/repository"
	"github.com/emmaus-school/talent-api/internal/service"
	"github.com/emmaus-school/talent-api/internal/utils"
)

// TalentHandler wires adjustment, grant/transfer and history routes.
type TalentHandler struct {
	talents service.TalentService
	logger  zerolog.Logger
}

// NewTalentHandler constructs the handler.
func NewTalentHandler(talents service.TalentService, logger zerolog.Logger) *TalentHandler {
	return &TalentHandler{
		talents: talents,
		logger:  logger.With().Str("component", "talent_handler").Logger(),
	}
}

// Register attaches talent endpoints to the router group.
func (h *TalentHandler) Register(router fiber.Router) {
	router.Post("/talents/adjust", h.adjust)
	router.Post("/talents/grant", h.grantOrTransfer)
	router.Get("/talents/grant/remaining/:teacherId", h.remaining)
	router.Get("/talents/history/:kind/:id", h.history)
}

func (h *TalentHandler) adjust(c *fiber.Ctx) error {
	var payload dto.AdjustRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	results, err := h.talents.Adjust(c.Context(), payload, actorTeacherID(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "adjustment applied", results)
}

func (h *TalentHandler) grantOrTransfer(c *fiber.Ctx) error {
	var payload dto.GrantRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.talents.GrantOrTransfer(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	message := "talents granted"
	if result.Transfer {
		message = "talents transferred"
	}
	return utils.SendSuccess(c, message, result)
}

func (h *TalentHandler) remaining(c *fiber.Ctx) error {
	teacherID, err := parseUintParam(c, "teacherId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	remaining, err := h.talents.WeekGrantRemaining(c.Context(), teacherID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "remaining weekly grant", fiber.Map{"remaining": remaining})
}

func (h *TalentHandler) history(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page_size")
	}

	response, err := h.talents.History(c.Context(), c.Params("kind"), id, repository.HistoryFilter{Page: page, PageSize: pageSize})
	if err != nil {
		if errors.Is(err, service.ErrUnknownEntityKind) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "history retrieved", response)
}

func (h *TalentHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case isValidationError(err), errors.Is(err, ledger.ErrInvalidAmount):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrCapExceeded),
		errors.Is(err, ledger.ErrInsufficientTeacherBalance):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ledger.ErrStudentNotFound),
		errors.Is(err, ledger.ErrTeacherNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("talent request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
