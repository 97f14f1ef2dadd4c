package handler

import (
	"time"

	"go-warehouse-inventory/internal/repository"
	"go-warehouse-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type StockHandler struct {
	service       service.StockService
	summaryWindow int
	log           *zap.Logger
}

func NewStockHandler(s service.StockService, summaryWindowDays int, log *zap.Logger) *StockHandler {
	if summaryWindowDays <= 0 {
		summaryWindowDays = 30
	}
	return &StockHandler{service: s, summaryWindow: summaryWindowDays, log: log}
}

// GetTransactions lists headers
// Query params: type, status, created_by, search
func (h *StockHandler) GetTransactions(c *fiber.Ctx) error {
	filter := repository.TransactionFilter{
		Type:      c.Query("type"),
		Status:    c.Query("status"),
		CreatedBy: c.Query("created_by"),
		Search:    c.Query("search"),
	}

	headers, err := h.service.GetTransactions(c.UserContext(), filter)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"count": len(headers), "data": headers})
}

func (h *StockHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}

	header, err := h.service.GetTransaction(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(header)
}

// CreateTransaction records a header with its lines in one unit.
func (h *StockHandler) CreateTransaction(c *fiber.Ctx) error {
	var req service.TransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	header, err := h.service.CreateTransaction(c.UserContext(), &req, actorFrom(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Transaction recorded", "data": header})
}

// UpdateTransaction edits the header fields of a transaction that is not
// completed.
func (h *StockHandler) UpdateTransaction(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}

	var req service.HeaderRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	header, err := h.service.UpdateTransaction(c.UserContext(), id, &req, actorFrom(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Transaction updated", "data": header})
}

func (h *StockHandler) DeleteTransaction(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}

	if err := h.service.DeleteTransaction(c.UserContext(), id, actorFrom(c)); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Transaction deleted"})
}

func (h *StockHandler) CompleteTransaction(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}

	header, err := h.service.CompleteTransaction(c.UserContext(), id, actorFrom(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Transaction completed", "data": header})
}

func (h *StockHandler) CancelTransaction(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}

	header, err := h.service.CancelTransaction(c.UserContext(), id, actorFrom(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Transaction cancelled", "data": header})
}

func (h *StockHandler) AddLine(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}

	var req service.LineRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	line, err := h.service.AddLine(c.UserContext(), id, &req, actorFrom(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Line added", "data": line})
}

// GetSummary aggregates headers over a date range
// Query params: start_date, end_date (default: trailing summary window)
func (h *StockHandler) GetSummary(c *fiber.Ctx) error {
	from, err := queryDate(c, "start_date")
	if err != nil {
		return respondError(c, h.log, err)
	}
	to, err := queryDate(c, "end_date")
	if err != nil {
		return respondError(c, h.log, err)
	}

	end := time.Now().UTC()
	if to != nil {
		end = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	start := end.AddDate(0, 0, -h.summaryWindow)
	if from != nil {
		start = *from
	}

	summary, err := h.service.TransactionSummary(c.UserContext(), start, end)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(summary)
}

// GetLines lists stock lines
// Query params: transaction, product, type, category, location, search
func (h *StockHandler) GetLines(c *fiber.Ctx) error {
	headerID, err := queryUUID(c, "transaction")
	if err != nil {
		return respondError(c, h.log, err)
	}
	productID, err := queryUUID(c, "product")
	if err != nil {
		return respondError(c, h.log, err)
	}

	lines, err := h.service.GetLines(c.UserContext(), repository.LineFilter{
		HeaderID:  headerID,
		ProductID: productID,
		Type:      c.Query("type"),
		Category:  c.Query("category"),
		Location:  c.Query("location"),
		Search:    c.Query("search"),
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"count": len(lines), "data": lines})
}

func (h *StockHandler) GetLine(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}

	line, err := h.service.GetLine(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(line)
}

func (h *StockHandler) UpdateLine(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}

	var req service.LineRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	line, err := h.service.UpdateLine(c.UserContext(), id, &req, actorFrom(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Line updated", "data": line})
}

func (h *StockHandler) DeleteLine(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}

	if err := h.service.DeleteLine(c.UserContext(), id, actorFrom(c)); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Line deleted"})
}
