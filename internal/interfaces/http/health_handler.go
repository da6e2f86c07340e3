package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger dependencia con chequeo de salud (pool de PostgreSQL, Redis).
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler estado del servicio.
type HealthHandler struct {
	checks map[string]Pinger
}

// NewHealthHandler construye el handler; checks puede ser nil.
func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Live GET /health: el proceso responde.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready GET /healthz: además verifica las dependencias.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := fiber.StatusOK
	result := fiber.Map{}
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			status = fiber.StatusServiceUnavailable
			result[name] = err.Error()
			continue
		}
		result[name] = "ok"
	}
	return c.Status(status).JSON(fiber.Map{"status": statusText(status), "checks": result})
}

func statusText(code int) string {
	if code == fiber.StatusOK {
		return "ok"
	}
	return "degraded"
}
