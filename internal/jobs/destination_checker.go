package jobs

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"searchbar/internal/models"
	"searchbar/internal/searchbar"
	"searchbar/internal/validation"
)

// DestinationStore is the persistence used by the destination checker.
type DestinationStore interface {
	GetBlocksNeedingDestinationCheck(ctx context.Context, maxAge time.Duration, limit int) ([]models.Block, error)
	UpdateBlockDestinationStatus(ctx context.Context, id uuid.UUID, status string, errorMsg *string) error
}

var siteURLs = searchbar.NewSiteURLs("")

// DestinationChecker periodically checks that absolute search destinations respond.
// Results are informational; redirects are never blocked on them.
type DestinationChecker struct {
	store    DestinationStore
	interval time.Duration
	maxAge   time.Duration
	delay    time.Duration
	client   *http.Client
	validate func(string) (bool, string)
}

// NewDestinationChecker creates a new destination checker.
func NewDestinationChecker(store DestinationStore, interval, maxAge time.Duration) *DestinationChecker {
	return &DestinationChecker{
		store:    store,
		interval: interval,
		maxAge:   maxAge,
		delay:    1 * time.Second,
		client: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return errors.New("too many redirects")
				}
				return nil
			},
		},
		validate: validation.ValidateURLForHealthCheck,
	}
}

// Start begins the background check loop. It returns when ctx is cancelled.
func (h *DestinationChecker) Start(ctx context.Context) {
	log.Printf("Destination checker started (interval: %v, maxAge: %v)", h.interval, h.maxAge)

	// Run immediately on start
	h.checkAll(ctx)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Destination checker stopped")
			return
		case <-ticker.C:
			h.checkAll(ctx)
		}
	}
}

// checkAll checks every block destination that is due.
func (h *DestinationChecker) checkAll(ctx context.Context) {
	blocks, err := h.store.GetBlocksNeedingDestinationCheck(ctx, h.maxAge, 50)
	if err != nil {
		log.Printf("Destination checker: failed to get blocks: %v", err)
		return
	}

	if len(blocks) == 0 {
		return
	}

	log.Printf("Destination checker: checking %d blocks", len(blocks))

	for _, block := range blocks {
		select {
		case <-ctx.Done():
			return
		default:
		}

		target, ok := destinationURL(block.SearchPage)
		if !ok {
			continue
		}

		status, errorMsg := h.checkURL(ctx, target)
		if err := h.store.UpdateBlockDestinationStatus(ctx, block.ID, status, errorMsg); err != nil {
			log.Printf("Destination checker: failed to update block %s: %v", block.Slug, err)
			continue
		}

		// Delay between checks to avoid overwhelming external servers
		time.Sleep(h.delay)
	}
}

// destinationURL returns the URL to check for a search page the builder
// redirects to as absolute. Scheme-relative destinations are checked over https.
func destinationURL(searchPage string) (string, bool) {
	if !siteURLs.IsAbsolute(searchPage) {
		return "", false
	}
	if strings.HasPrefix(searchPage, "//") {
		return "https:" + searchPage, true
	}
	return searchPage, true
}

// checkURL performs a HEAD request against a destination.
// URLs are validated first to prevent SSRF against internal networks.
func (h *DestinationChecker) checkURL(ctx context.Context, url string) (string, *string) {
	if valid, msg := h.validate(url); !valid {
		return models.DestinationUnhealthy, &msg
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		errMsg := "invalid URL: " + err.Error()
		return models.DestinationUnhealthy, &errMsg
	}

	req.Header.Set("User-Agent", "Searchbar-DestinationChecker/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		errMsg := "connection failed: " + err.Error()
		return models.DestinationUnknown, &errMsg
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		errMsg := "HTTP " + resp.Status
		return models.DestinationUnhealthy, &errMsg
	}
	return models.DestinationHealthy, nil
}
