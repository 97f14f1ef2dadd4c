package handler

import (
	"go-warehouse-inventory/internal/ledger"
	"go-warehouse-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ReportHandler struct {
	service service.ReportService
	log     *zap.Logger
}

func NewReportHandler(s service.ReportService, log *zap.Logger) *ReportHandler {
	return &ReportHandler{service: s, log: log}
}

// GetInventory returns the current inventory snapshot
// Query params: category, stock_status (LOW, NORMAL, HIGH)
func (h *ReportHandler) GetInventory(c *fiber.Ctx) error {
	report, err := h.service.CurrentInventory(c.UserContext(), service.InventoryFilter{
		Category:    c.Query("category"),
		StockStatus: c.Query("stock_status"),
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(report)
}

// GetMovements returns movements in a date range with running balances
// Query params: start_date, end_date (required), product_code
func (h *ReportHandler) GetMovements(c *fiber.Ctx) error {
	from, err := queryDate(c, "start_date")
	if err != nil {
		return respondError(c, h.log, err)
	}
	to, err := queryDate(c, "end_date")
	if err != nil {
		return respondError(c, h.log, err)
	}

	missing := &ledger.ValidationError{Kind: ledger.KindField}
	if from == nil {
		missing.Add("start_date", "This field is required.")
	}
	if to == nil {
		missing.Add("end_date", "This field is required.")
	}
	if err := missing.OrNil(); err != nil {
		return respondError(c, h.log, err)
	}

	report, err := h.service.MovementReport(c.UserContext(), *from, *to, c.Query("product_code"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(report)
}
