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

// PurchaseHandler wires the reward store routes.
type PurchaseHandler struct {
	purchases service.PurchaseService
	logger    zerolog.Logger
}

// NewPurchaseHandler constructs the handler.
func NewPurchaseHandler(purchases service.PurchaseService, logger zerolog.Logger) *PurchaseHandler {
	return &PurchaseHandler{
		purchases: purchases,
		logger:    logger.With().Str("component", "purchase_handler").Logger(),
	}
}

// Register attaches store endpoints to the router group.
func (h *PurchaseHandler) Register(router fiber.Router) {
	router.Get("/products", h.listProducts)
	router.Post("/purchases", h.purchase)
}

func (h *PurchaseHandler) listProducts(c *fiber.Ctx) error {
	onlyAvailable := c.QueryBool("available", false)

	products, err := h.purchases.Products(c.Context(), onlyAvailable)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("product listing failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "products retrieved", products)
}

func (h *PurchaseHandler) purchase(c *fiber.Ctx) error {
	var payload dto.PurchaseRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.purchases.Purchase(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, ledger.ErrInvalidQuantity):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, ledger.ErrInsufficientStock),
			errors.Is(err, ledger.ErrInsufficientBalance),
			errors.Is(err, ledger.ErrProductUnavailable):
			return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, ledger.ErrStudentNotFound),
			errors.Is(err, ledger.ErrProductNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("purchase failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
		}
	}

	return utils.SendCreated(c, "purchase recorded", result)
}
