package handler

import (
	"strconv"
	"strings"
	"time"

	"go-warehouse-inventory/internal/ledger"
	"go-warehouse-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// actorFrom reads the user set by RequireAuth.
func actorFrom(c *fiber.Ctx) service.Actor {
	var a service.Actor
	if v, ok := c.Locals("user_id").(string); ok {
		a.ID = v
	}
	if v, ok := c.Locals("user_name").(string); ok {
		a.Name = v
	}
	if v, ok := c.Locals("user_email").(string); ok {
		a.Email = v
	}
	return a
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, ledger.NewFieldError(name, "Must be a valid UUID.")
	}
	return id, nil
}

func queryUUID(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, ledger.NewFieldError(name, "Must be a valid UUID.")
	}
	return &id, nil
}

// queryDate parses a YYYY-MM-DD query value; nil when absent.
func queryDate(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, ledger.NewFieldError(name, "Use the YYYY-MM-DD format.")
	}
	return &t, nil
}

func queryBool(c *fiber.Ctx, name string) *bool {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

func queryDays(c *fiber.Ctx, name string, def int) int {
	days, err := strconv.Atoi(c.Query(name))
	if err != nil || days <= 0 {
		return def
	}
	return days
}

func invalidJSON(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
}
