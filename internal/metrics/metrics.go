package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"searchbar/internal/models"
)

var (
	searchRedirectDesc = prometheus.NewDesc(
		"searchbar_redirects_total",
		"Total search form redirects by block and destination kind",
		[]string{"block", "destination"},
		nil,
	)
)

// Store persists redirect counters.
type Store interface {
	IncrementSearchRedirect(ctx context.Context, blockSlug, destination string) error
	GetAllSearchRedirects(ctx context.Context) ([]models.SearchRedirect, error)
}

// RedirectCollector is a custom Prometheus collector that reads search redirect
// counts from the database on each scrape.
type RedirectCollector struct {
	store Store
}

// NewRedirectCollector creates a collector over store.
func NewRedirectCollector(store Store) *RedirectCollector {
	return &RedirectCollector{store: store}
}

// Describe sends the metric descriptor to the channel.
func (c *RedirectCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- searchRedirectDesc
}

// Collect queries the database for all redirect counts and emits them as counters.
func (c *RedirectCollector) Collect(ch chan<- prometheus.Metric) {
	redirects, err := c.store.GetAllSearchRedirects(context.Background())
	if err != nil {
		slog.Error("failed to collect search redirect metrics", "error", err)
		return
	}
	for _, r := range redirects {
		ch <- prometheus.MustNewConstMetric(
			searchRedirectDesc,
			prometheus.CounterValue,
			float64(r.Count),
			r.BlockSlug,
			r.Destination,
		)
	}
}

// Recorder provides async search redirect recording.
type Recorder struct {
	store Store
	wg    sync.WaitGroup
}

var (
	recorder     *Recorder
	recorderOnce sync.Once
)

// Init registers the custom collector and initializes the recorder.
// Must be called once at startup.
func Init(store Store) {
	recorderOnce.Do(func() {
		recorder = &Recorder{store: store}
		prometheus.MustRegister(NewRedirectCollector(store))
	})
}

// RecordSearchRedirect asynchronously records a redirect for a block.
func RecordSearchRedirect(blockSlug, destination string) {
	if recorder == nil {
		return
	}
	recorder.record(blockSlug, destination)
}

func (r *Recorder) record(blockSlug, destination string) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.store.IncrementSearchRedirect(context.Background(), blockSlug, destination); err != nil {
			slog.Error("failed to record search redirect", "block", blockSlug, "destination", destination, "error", err)
		}
	}()
}

// Wait blocks until in-flight recordings finish. Called on shutdown.
func Wait() {
	if recorder != nil {
		recorder.wg.Wait()
	}
}
