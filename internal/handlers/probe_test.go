package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"

	"searchbar/internal/config"
	"searchbar/internal/testutil"
)

func newBrandingConfig() *config.Config {
	return &config.Config{SiteTitle: "Library", SiteFooter: "Footer", BasePath: "/library"}
}

func TestProbes(t *testing.T) {
	store := testutil.NewMemoryStore()
	h := NewProbeHandler(map[string]Pinger{"database": store})

	app := fiber.New()
	app.Get("/healthz", h.Liveness)
	app.Get("/readyz", h.Readiness)

	tests := []struct {
		name     string
		path     string
		pingErr  error
		want     int
		wantBody string
	}{
		{"liveness", "/healthz", nil, fiber.StatusOK, `"status":"ok"`},
		{"ready", "/readyz", nil, fiber.StatusOK, `"database":"ok"`},
		{"database down", "/readyz", errors.New("connection refused"), fiber.StatusServiceUnavailable, `"database":"unavailable"`},
		{"liveness with database down", "/healthz", errors.New("connection refused"), fiber.StatusOK, `"status":"ok"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store.PingErr = tt.pingErr
			req, _ := http.NewRequest("GET", tt.path, nil)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
			body, _ := io.ReadAll(resp.Body)
			if !strings.Contains(string(body), tt.wantBody) {
				t.Errorf("body = %s, want it to contain %s", body, tt.wantBody)
			}
		})
	}
}

func TestMergeBranding(t *testing.T) {
	data := MergeBranding(fiber.Map{"Title": "Scores"}, newBrandingConfig())

	if data["Title"] != "Scores" {
		t.Errorf("Title = %v, want Scores", data["Title"])
	}
	if data["SiteTitle"] != "Library" || data["SiteFooter"] != "Footer" || data["BasePath"] != "/library" {
		t.Errorf("branding = %v", data)
	}
}
