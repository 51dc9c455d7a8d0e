package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ENV", "SERVER_ADDR", "BLOCK_CACHE_TTL", "DESTINATION_CHECK_INTERVAL", "ADMIN_EMAILS", "BASE_PATH"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.ServerAddr != ":3000" {
		t.Errorf("ServerAddr = %q, want %q", cfg.ServerAddr, ":3000")
	}
	if !cfg.IsDev() {
		t.Error("IsDev() should be true by default")
	}
	if cfg.BlockCacheTTL != time.Hour {
		t.Errorf("BlockCacheTTL = %v, want 1h", cfg.BlockCacheTTL)
	}
	if cfg.DestinationCheckInterval != 6*time.Hour {
		t.Errorf("DestinationCheckInterval = %v, want 6h", cfg.DestinationCheckInterval)
	}
	if len(cfg.AdminEmails) != 0 {
		t.Errorf("AdminEmails = %v, want empty", cfg.AdminEmails)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("BLOCK_CACHE_TTL", "90s")
	t.Setenv("DESTINATION_CHECK_INTERVAL", "not-a-duration")
	t.Setenv("ADMIN_EMAILS", " Alice@Example.org, ,bob@example.org")

	cfg := Load()
	if cfg.IsDev() {
		t.Error("IsDev() should be false in production")
	}
	if cfg.BlockCacheTTL != 90*time.Second {
		t.Errorf("BlockCacheTTL = %v, want 90s", cfg.BlockCacheTTL)
	}
	if cfg.DestinationCheckInterval != 6*time.Hour {
		t.Errorf("invalid duration should fall back, got %v", cfg.DestinationCheckInterval)
	}
	if len(cfg.AdminEmails) != 2 {
		t.Fatalf("AdminEmails = %v, want 2 entries", cfg.AdminEmails)
	}
}

func TestIsAdminEmail(t *testing.T) {
	cfg := &Config{AdminEmails: []string{"alice@example.org"}}

	tests := []struct {
		email string
		want  bool
	}{
		{"alice@example.org", true},
		{"ALICE@example.org", true},
		{"bob@example.org", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := cfg.IsAdminEmail(tt.email); got != tt.want {
				t.Errorf("IsAdminEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestIsOIDCEnabled(t *testing.T) {
	if (&Config{}).IsOIDCEnabled() {
		t.Error("empty config should not enable OIDC")
	}
	if !(&Config{OIDCIssuer: "https://id.example.org", OIDCClientID: "searchbar"}).IsOIDCEnabled() {
		t.Error("issuer and client ID should enable OIDC")
	}
}

func TestIsMTLSEnabled(t *testing.T) {
	if (&Config{TLSEnabled: true}).IsMTLSEnabled() {
		t.Error("TLS without CA should not enable mTLS")
	}
	if !(&Config{TLSEnabled: true, TLSCAFile: "ca.pem"}).IsMTLSEnabled() {
		t.Error("TLS with CA should enable mTLS")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadYAMLConfigFile(t *testing.T) {
	path := writeConfig(t, `
blocks:
  - slug: digital
    label: Digital collections
    search_page: https://new.digital.example/search
    search_facet_name: digital_collection
    search_facet: Prange
  - slug: scores
    search_param: q
pages:
  - path: /node/1
    alias: /scores
    title: Scores
    block: scores
`)

	cfg, err := LoadYAMLConfigFile(path)
	if err != nil {
		t.Fatalf("LoadYAMLConfigFile() error = %v", err)
	}
	if len(cfg.Blocks) != 2 || len(cfg.Pages) != 1 {
		t.Fatalf("got %d blocks, %d pages", len(cfg.Blocks), len(cfg.Pages))
	}

	digital := cfg.GetBlockBySlug("digital")
	if digital == nil {
		t.Fatal("GetBlockBySlug(digital) = nil")
	}
	if digital.SearchPage != "https://new.digital.example/search" || digital.SearchFacet != "Prange" {
		t.Errorf("inline configuration not decoded: %+v", digital.BlockConfiguration)
	}
	if cfg.GetBlockBySlug("missing") != nil {
		t.Error("GetBlockBySlug(missing) should be nil")
	}
	if cfg.Pages[0].Alias != "/scores" || cfg.Pages[0].Block != "scores" {
		t.Errorf("page = %+v", cfg.Pages[0])
	}
}

func TestLoadYAMLConfigFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"block without slug", "blocks:\n  - label: x\n"},
		{"duplicate slug", "blocks:\n  - slug: a\n  - slug: a\n"},
		{"page without path", "pages:\n  - title: x\n"},
		{"unknown block", "pages:\n  - path: /a\n    block: nope\n"},
		{"malformed yaml", "blocks: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadYAMLConfigFile(writeConfig(t, tt.content)); err == nil {
				t.Error("LoadYAMLConfigFile() should fail")
			}
		})
	}
}

func TestLoadYAMLConfigFile_Missing(t *testing.T) {
	cfg, err := LoadYAMLConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil || cfg != nil {
		t.Errorf("LoadYAMLConfigFile() = %v, %v; want nil, nil", cfg, err)
	}

	var nilCfg *YAMLConfig
	if nilCfg.GetBlockBySlug("x") != nil {
		t.Error("nil config should return nil block")
	}
}

func TestLoadYAMLConfigFile_Example(t *testing.T) {
	cfg, err := LoadYAMLConfigFile("../../config.example.yaml")
	if err != nil {
		t.Fatalf("LoadYAMLConfigFile() error = %v", err)
	}

	prange := cfg.GetBlockBySlug("prange")
	if prange == nil {
		t.Fatal("example config missing prange block")
	}
	if prange.SearchFacetName != "digital_collection" || prange.SearchFacet != "Prange" {
		t.Errorf("prange block = %+v", prange.BlockConfiguration)
	}
	if len(cfg.Pages) != 2 {
		t.Errorf("pages = %d, want 2", len(cfg.Pages))
	}
}
