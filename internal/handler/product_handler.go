package handler

import (
	"go-warehouse-inventory/internal/repository"
	"go-warehouse-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ProductHandler struct {
	service service.ProductService
	reports service.ReportService
	log     *zap.Logger
}

func NewProductHandler(s service.ProductService, r service.ReportService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{service: s, reports: r, log: log}
}

// GetProducts lists products with their current stock
// Query params: category, unit, active, search, ordering
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	filter := repository.ProductFilter{
		Category: c.Query("category"),
		Unit:     c.Query("unit"),
		Active:   queryBool(c, "active"),
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
	}

	products, err := h.service.GetProducts(c.UserContext(), filter)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"count": len(products), "data": products})
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}

	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	product, err := h.service.CreateProduct(c.UserContext(), &req, actorFrom(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}

	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	product, err := h.service.UpdateProduct(c.UserContext(), id, &req, actorFrom(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

// DeleteProduct deactivates the product; its history stays.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}

	if err := h.service.DeactivateProduct(c.UserContext(), id, actorFrom(c)); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Product deactivated"})
}

func (h *ProductHandler) GetLowStock(c *fiber.Ctx) error {
	items, err := h.reports.LowStock(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"count": len(items), "data": items})
}

// GetMovements returns the product's history, newest first, with the
// balance after each line.
func (h *ProductHandler) GetMovements(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}

	entries, err := h.reports.ProductMovements(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"count": len(entries), "data": entries})
}
