package handlers

import (
	"context"

	"github.com/gofiber/fiber/v3"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProbeHandler serves the Kubernetes liveness and readiness endpoints.
type ProbeHandler struct {
	checks map[string]Pinger
}

// NewProbeHandler creates a probe handler. Readiness pings every named check.
func NewProbeHandler(checks map[string]Pinger) *ProbeHandler {
	return &ProbeHandler{checks: checks}
}

// Liveness handles /healthz. It succeeds whenever the process can serve requests.
func (h *ProbeHandler) Liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// Readiness handles /readyz. It returns 503 when any check fails.
func (h *ProbeHandler) Readiness(c fiber.Ctx) error {
	results := make(map[string]string, len(h.checks))
	ready := true
	for name, check := range h.checks {
		if err := check.Ping(c.Context()); err != nil {
			results[name] = "unavailable"
			ready = false
			continue
		}
		results[name] = "ok"
	}

	if !ready {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "error",
			"checks": results,
		})
	}
	return c.JSON(fiber.Map{
		"status": "ok",
		"checks": results,
	})
}
