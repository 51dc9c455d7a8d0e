package jobs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"searchbar/internal/models"
)

type fakeDestinationStore struct {
	blocks  []models.Block
	updates map[uuid.UUID]string
}

func (s *fakeDestinationStore) GetBlocksNeedingDestinationCheck(context.Context, time.Duration, int) ([]models.Block, error) {
	return s.blocks, nil
}

func (s *fakeDestinationStore) UpdateBlockDestinationStatus(_ context.Context, id uuid.UUID, status string, _ *string) error {
	s.updates[id] = status
	return nil
}

func allowAll(string) (bool, string) { return true, "" }

func newTestChecker(store DestinationStore) *DestinationChecker {
	h := NewDestinationChecker(store, time.Hour, time.Hour)
	h.validate = allowAll
	h.delay = 0
	return h
}

func TestCheckURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			w.WriteHeader(http.StatusOK)
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	h := newTestChecker(&fakeDestinationStore{})

	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"ok", srv.URL + "/search", models.DestinationHealthy, false},
		{"not found still reachable", srv.URL + "/missing", models.DestinationHealthy, false},
		{"server error", srv.URL + "/broken", models.DestinationUnhealthy, true},
		{"connection refused", "http://127.0.0.1:1/search", models.DestinationUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, errMsg := h.checkURL(context.Background(), tt.url)
			if status != tt.want {
				t.Errorf("checkURL() status = %q, want %q", status, tt.want)
			}
			if (errMsg != nil) != tt.wantErr {
				t.Errorf("checkURL() errMsg = %v, wantErr %v", errMsg, tt.wantErr)
			}
		})
	}
}

func TestCheckURL_BlockedBySSRFValidation(t *testing.T) {
	h := NewDestinationChecker(&fakeDestinationStore{}, time.Hour, time.Hour)

	status, errMsg := h.checkURL(context.Background(), "http://127.0.0.1/search")
	if status != models.DestinationUnhealthy {
		t.Errorf("status = %q, want %q", status, models.DestinationUnhealthy)
	}
	if errMsg == nil || *errMsg != "URL points to a private or reserved IP address" {
		t.Errorf("errMsg = %v", errMsg)
	}
}

func TestCheckAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	id := uuid.New()
	store := &fakeDestinationStore{
		blocks: []models.Block{{
			ID:                 id,
			Slug:               "external",
			BlockConfiguration: models.BlockConfiguration{SearchPage: srv.URL + "/search"},
		}},
		updates: map[uuid.UUID]string{},
	}

	newTestChecker(store).checkAll(context.Background())

	if store.updates[id] != models.DestinationHealthy {
		t.Errorf("status = %q, want %q", store.updates[id], models.DestinationHealthy)
	}
}

func TestDestinationURL(t *testing.T) {
	tests := []struct {
		searchPage string
		want       string
		wantOK     bool
	}{
		{"https://ex.org/s", "https://ex.org/s", true},
		{"HTTP://ex.org/s", "HTTP://ex.org/s", true},
		{"//ex.org/s", "https://ex.org/s", true},
		{"/search", "", false},
		{"search", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := destinationURL(tt.searchPage)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("destinationURL(%q) = %q, %v; want %q, %v", tt.searchPage, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestCheckAll_SchemeRelativeAndInternal(t *testing.T) {
	schemeRelative, internal := uuid.New(), uuid.New()
	store := &fakeDestinationStore{
		blocks: []models.Block{
			{ID: schemeRelative, Slug: "cdn", BlockConfiguration: models.BlockConfiguration{SearchPage: "//ex.org/s"}},
			{ID: internal, Slug: "local", BlockConfiguration: models.BlockConfiguration{SearchPage: "/search"}},
		},
		updates: map[uuid.UUID]string{},
	}

	var checked []string
	h := newTestChecker(store)
	h.validate = func(u string) (bool, string) {
		checked = append(checked, u)
		return false, "blocked"
	}
	h.checkAll(context.Background())

	if len(checked) != 1 || checked[0] != "https://ex.org/s" {
		t.Errorf("checked = %v, want [https://ex.org/s]", checked)
	}
	if store.updates[schemeRelative] != models.DestinationUnhealthy {
		t.Errorf("scheme-relative status = %q, want %q", store.updates[schemeRelative], models.DestinationUnhealthy)
	}
	if _, ok := store.updates[internal]; ok {
		t.Error("internal destination should not be checked")
	}
}

func TestStart_StopsOnCancel(t *testing.T) {
	store := &fakeDestinationStore{updates: map[uuid.UUID]string{}}
	h := newTestChecker(store)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start() did not return after cancel")
	}
}
