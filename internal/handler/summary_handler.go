package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/emmaus-school/talent-api/internal/service"
	"github.com/emmaus-school/talent-api/internal/utils"
)

// SummaryHandler serves the cached class balance overview.
type SummaryHandler struct {
	summaries service.SummaryService
	logger    zerolog.Logger
}

// NewSummaryHandler constructs the handler.
func NewSummaryHandler(summaries service.SummaryService, logger zerolog.Logger) *SummaryHandler {
	return &SummaryHandler{
		summaries: summaries,
		logger:    logger.With().Str("component", "summary_handler").Logger(),
	}
}

// Register attaches summary endpoints to the router group.
func (h *SummaryHandler) Register(router fiber.Router) {
	router.Get("/summary/class/:class", h.classSummary)
}

func (h *SummaryHandler) classSummary(c *fiber.Ctx) error {
	class := strings.TrimSpace(c.Params("class"))
	if class == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "class is required")
	}

	summary, err := h.summaries.ClassSummary(c.Context(), class)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("class summary failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "class summary retrieved", summary)
}
