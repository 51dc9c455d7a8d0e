package handlers

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"

	"searchbar/internal/cache"
	"searchbar/internal/config"
	"searchbar/internal/models"
	"searchbar/internal/searchbar"
	"searchbar/internal/testutil"
)

func newAdminApp(store *testutil.MemoryStore, blockCache *cache.BlockCache) *fiber.App {
	cfg := &config.Config{SiteTitle: "Library"}
	blocks := NewBlockHandler(store, blockCache, cfg)
	pages := NewPageHandler(store, cfg)

	app := newTestApp()
	app.Get("/admin/blocks", blocks.Index)
	app.Get("/admin/blocks/new", blocks.New)
	app.Post("/admin/blocks", blocks.Create)
	app.Get("/admin/blocks/:id/edit", blocks.Edit)
	app.Post("/admin/blocks/:id", blocks.Update)
	app.Post("/admin/blocks/:id/delete", blocks.Delete)
	app.Get("/admin/pages", pages.Index)
	app.Post("/admin/pages", pages.Create)
	app.Post("/admin/pages/:id/delete", pages.Delete)
	return app
}

func get(t *testing.T, app *fiber.App, path string) (*http.Response, string) {
	t.Helper()
	req, _ := http.NewRequest("GET", path, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func isRedirect(resp *http.Response) bool {
	return resp.StatusCode >= 300 && resp.StatusCode < 400
}

func TestBlockCreate(t *testing.T) {
	store := testutil.NewMemoryStore()
	app := newAdminApp(store, nil)

	resp := submit(t, app, "/admin/blocks", url.Values{"slug": {" Scores "}, "label": {"Scores"}})
	if !isRedirect(resp) {
		t.Fatalf("status = %d, want redirect", resp.StatusCode)
	}

	block, err := store.GetBlockBySlug(context.Background(), "scores")
	if err != nil {
		t.Fatalf("block not created: %v", err)
	}
	if want := "/admin/blocks/" + block.ID.String() + "/edit"; resp.Header.Get("Location") != want {
		t.Errorf("Location = %q, want %q", resp.Header.Get("Location"), want)
	}

	resp = submit(t, app, "/admin/blocks", url.Values{"slug": {"scores"}})
	if resp.StatusCode != fiber.StatusConflict {
		t.Errorf("duplicate slug status = %d, want 409", resp.StatusCode)
	}

	resp = submit(t, app, "/admin/blocks", url.Values{"slug": {"not a slug!"}})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("invalid slug status = %d, want 400", resp.StatusCode)
	}
}

func TestBlockEdit_PrefillsSearchParam(t *testing.T) {
	store := testutil.NewMemoryStore()
	block := store.AddBlock("scores", models.BlockConfiguration{SearchFacet: "Prange"})
	app := newAdminApp(store, nil)

	resp, body := get(t, app, "/admin/blocks/"+block.ID.String()+"/edit")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200: %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, `name="search_param" value="query"`) {
		t.Error("search_param input not pre-filled with query")
	}
	if !strings.Contains(body, `name="search_facet" value="Prange"`) {
		t.Error("search_facet input missing stored value")
	}

	stored, _ := store.GetBlockByID(context.Background(), block.ID)
	if stored.SearchParam != "" {
		t.Errorf("Edit changed stored SearchParam to %q", stored.SearchParam)
	}

	resp, _ = get(t, app, "/admin/blocks/not-a-uuid/edit")
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("invalid id status = %d, want 400", resp.StatusCode)
	}
}

func TestBlockUpdate_WritesFieldsUnchanged(t *testing.T) {
	store := testutil.NewMemoryStore()
	block := store.AddBlock("scores", models.BlockConfiguration{})

	storage := testutil.NewMemoryStorage()
	blockCache := cache.NewBlockCache(storage, time.Hour)
	blockCache.Set("scores", searchbar.Resolve(block.BlockConfiguration))

	app := newAdminApp(store, blockCache)

	resp := submit(t, app, "/admin/blocks/"+block.ID.String(), url.Values{
		"search_page":               {"https://new.digital.example/search"},
		"search_param":              {" q "},
		"search_facet_name":         {""},
		"search_facet":              {"Prange"},
		"search_custom_param":       {"sort"},
		"search_custom_param_value": {""},
		"search_placeholder":        {"Find a score"},
		"search_title":              {"Scores"},
	})
	if !isRedirect(resp) {
		t.Fatalf("status = %d, want redirect", resp.StatusCode)
	}

	got, _ := store.GetBlockByID(context.Background(), block.ID)
	want := models.BlockConfiguration{
		SearchPage:        "https://new.digital.example/search",
		SearchParam:       " q ",
		SearchFacet:       "Prange",
		SearchCustomParam: "sort",
		SearchPlaceholder: "Find a score",
		SearchTitle:       "Scores",
	}
	if got.BlockConfiguration != want {
		t.Errorf("stored configuration = %+v, want %+v", got.BlockConfiguration, want)
	}

	if storage.Len() != 0 {
		t.Error("cache entry not invalidated after update")
	}
}

func TestBlockDelete(t *testing.T) {
	store := testutil.NewMemoryStore()
	block := store.AddBlock("scores", models.BlockConfiguration{})
	store.AddPage("/scores", "", block)

	app := newAdminApp(store, nil)

	resp := submit(t, app, "/admin/blocks/"+block.ID.String()+"/delete", nil)
	if !isRedirect(resp) {
		t.Fatalf("status = %d, want redirect", resp.StatusCode)
	}

	page, err := store.GetPageByPath(context.Background(), "/scores")
	if err != nil {
		t.Fatalf("page removed with block: %v", err)
	}
	if page.HasBlock() {
		t.Error("page still carries deleted block")
	}

	resp = submit(t, app, "/admin/blocks/"+block.ID.String()+"/delete", nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", resp.StatusCode)
	}
}

func TestBlockIndex(t *testing.T) {
	store := testutil.NewMemoryStore()
	store.AddBlock("scores", models.BlockConfiguration{SearchPage: "/search"})
	app := newAdminApp(store, nil)

	resp, body := get(t, app, "/admin/blocks")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200: %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, "scores") || !strings.Contains(body, "/search") {
		t.Error("block list missing block")
	}
}

func TestPageCreate(t *testing.T) {
	store := testutil.NewMemoryStore()
	store.AddBlock("scores", models.BlockConfiguration{})
	app := newAdminApp(store, nil)

	tests := []struct {
		name       string
		form       url.Values
		wantStatus int
	}{
		{
			name:       "page with alias and block",
			form:       url.Values{"system_path": {"/node/1"}, "alias": {"/scores"}, "title": {"Scores"}, "block": {"scores"}},
			wantStatus: fiber.StatusSeeOther,
		},
		{
			name:       "duplicate path",
			form:       url.Values{"system_path": {"/node/1"}},
			wantStatus: fiber.StatusConflict,
		},
		{
			name:       "reserved path",
			form:       url.Values{"system_path": {"/admin/x"}},
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name:       "invalid alias",
			form:       url.Values{"system_path": {"/node/2"}, "alias": {"scores"}},
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name:       "unknown block",
			form:       url.Values{"system_path": {"/node/3"}, "block": {"missing"}},
			wantStatus: fiber.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := submit(t, app, "/admin/pages", tt.form)
			if tt.wantStatus == fiber.StatusSeeOther {
				if !isRedirect(resp) {
					t.Errorf("status = %d, want redirect", resp.StatusCode)
				}
				return
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}

	page, err := store.GetPageByPath(context.Background(), "/scores")
	if err != nil {
		t.Fatalf("GetPageByPath() error = %v", err)
	}
	if page.BlockSlug == nil || *page.BlockSlug != "scores" {
		t.Errorf("page block = %v, want scores", page.BlockSlug)
	}

	resp, body := get(t, app, "/admin/pages")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("index status = %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, "/node/1") {
		t.Error("page list missing created page")
	}

	resp = submit(t, app, "/admin/pages/"+page.ID.String()+"/delete", nil)
	if !isRedirect(resp) {
		t.Errorf("delete status = %d, want redirect", resp.StatusCode)
	}
	if _, err := store.GetPageByPath(context.Background(), "/node/1"); err == nil {
		t.Error("page not deleted")
	}
}
