package handler

import (
	"errors"

	"go-warehouse-inventory/internal/ledger"
	"go-warehouse-inventory/internal/model"
	"go-warehouse-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// respondError maps service errors onto HTTP responses. Rejections carry a
// kind so clients can tell field problems from stock or state problems.
func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	var (
		verr  *ledger.ValidationError
		stock *ledger.InsufficientStockError
		state *ledger.StateTransitionError
	)

	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Validation failed",
			"kind":   verr.Kind,
			"fields": verr.Fields,
		})

	case errors.As(err, &stock):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  stock.Error(),
			"kind":   "insufficient_stock",
			"detail": stock,
		})

	case errors.As(err, &state):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  state.Error(),
			"kind":   "state_transition",
			"detail": state,
		})

	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrTransactionNotFound),
		errors.Is(err, service.ErrLineNotFound),
		errors.Is(err, model.ErrHeaderNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": notFoundMessage(err)})

	case errors.Is(err, service.ErrDuplicateProduct),
		errors.Is(err, gorm.ErrDuplicatedKey):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": conflictMessage(err)})
	}

	log.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}

func notFoundMessage(err error) string {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "Not found"
	}
	return err.Error()
}

func conflictMessage(err error) string {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "Record already exists"
	}
	return err.Error()
}
