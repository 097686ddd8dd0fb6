package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/fortuna/athena/internal/cache"
	"github.com/fortuna/athena/internal/ingest/torvik"
	"github.com/fortuna/athena/internal/publisher"
	"github.com/fortuna/athena/internal/service"
	"github.com/fortuna/athena/internal/store"
)

// Orchestrator manages scheduled feed refreshes
type Orchestrator struct {
	db        *store.Database
	cache     *cache.RedisCache
	publisher *publisher.RedisStreamPublisher
	config    *Config
	ingester  *torvik.Ingester
	cancel    context.CancelFunc
}

// Config holds scheduler configuration
type Config struct {
	DailyRefreshHour   int           // Default: 5 (5 AM, after west-coast games land)
	EnableDailyRefresh bool          // Default: true
	MaxRetries         int           // Default: 3
	RetryDelay         time.Duration // Default: 30s
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() *Config {
	return &Config{
		DailyRefreshHour:   5,
		EnableDailyRefresh: true,
		MaxRetries:         3,
		RetryDelay:         30 * time.Second,
	}
}

// NewOrchestrator creates a new scheduler orchestrator
func NewOrchestrator(db *store.Database, c *cache.RedisCache, ingester *torvik.Ingester, config *Config) *Orchestrator {
	if config == nil {
		config = DefaultConfig()
	}

	var streamPublisher *publisher.RedisStreamPublisher
	if c != nil {
		streamPublisher = publisher.NewRedisStreamPublisher(c.Client())
	}

	return &Orchestrator{
		db:        db,
		cache:     c,
		publisher: streamPublisher,
		config:    config,
		ingester:  ingester,
	}
}

// Start begins scheduled refreshes and blocks until the context is cancelled.
func (o *Orchestrator) Start(ctx context.Context) {
	log.Println("╔════════════════════════════════════════╗")
	log.Println("║    Athena Scheduler Orchestrator       ║")
	log.Println("╚════════════════════════════════════════╝")
	log.Printf("Daily refresh: %v (at %02d:00)", o.config.EnableDailyRefresh, o.config.DailyRefreshHour)
	log.Println()

	ctx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	if o.config.EnableDailyRefresh {
		go o.runDailyRefresh(ctx)
	}

	<-ctx.Done()
	log.Println("Scheduler orchestrator stopping...")
}

// runDailyRefresh refreshes the current season's feeds once a day.
func (o *Orchestrator) runDailyRefresh(ctx context.Context) {
	log.Printf("→ Daily refresh scheduler started (runs at %02d:00 daily)", o.config.DailyRefreshHour)

	for {
		nextRun := nextRunAt(time.Now(), o.config.DailyRefreshHour)
		waitDuration := time.Until(nextRun)
		log.Printf("  Next refresh: %s (in %v)", nextRun.Format("2006-01-02 15:04:05"), waitDuration.Round(time.Second))

		select {
		case <-ctx.Done():
			log.Println("→ Daily refresh scheduler stopped")
			return
		case <-time.After(waitDuration):
			log.Println()
			log.Println("═══ Daily Refresh Starting ═══")
			o.refreshWithRetry(ctx, torvik.CurrentSeasonYear(time.Now()))
			log.Println("═══ Daily Refresh Complete ═══")
			log.Println()
		}
	}
}

// nextRunAt returns the next occurrence of the given hour, today if it is
// still ahead and tomorrow otherwise.
func nextRunAt(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if now.After(next) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

// refreshWithRetry runs a full refresh, retrying transient failures.
func (o *Orchestrator) refreshWithRetry(ctx context.Context, year int) {
	var err error
	for attempt := 1; attempt <= o.config.MaxRetries; attempt++ {
		if _, err = o.RefreshNow(ctx, year); err == nil {
			return
		}

		log.Printf("  ⚠️  Refresh attempt %d/%d failed: %v", attempt, o.config.MaxRetries, err)

		if attempt < o.config.MaxRetries {
			log.Printf("  Retrying in %v...", o.config.RetryDelay)
			select {
			case <-ctx.Done():
				return
			case <-time.After(o.config.RetryDelay):
			}
		}
	}

	log.Printf("  ❌ All %d refresh attempts failed for season %d", o.config.MaxRetries, year)
}

// RefreshNow pulls all feeds for a season, drops stale cache entries, and
// announces the refresh on the event stream. It also backs the POST /refresh
// endpoint.
func (o *Orchestrator) RefreshNow(ctx context.Context, year int) (torvik.IngestSummary, error) {
	startTime := time.Now()

	summary, err := o.ingester.IngestYear(ctx, year)
	if err != nil {
		return summary, err
	}

	if o.cache != nil {
		if err := o.cache.InvalidatePrefix(ctx, service.CachePrefix); err != nil {
			log.Printf("  ⚠️  Cache invalidation failed: %v", err)
		}
		if err := o.cache.Set(ctx, service.LastRefreshKey, time.Now().UTC().Format(time.RFC3339), 0); err != nil {
			log.Printf("  ⚠️  Failed to record refresh time: %v", err)
		}
	}

	if o.publisher != nil {
		event := publisher.RefreshEvent{
			Year:        summary.Year,
			GameLines:   summary.GameLines,
			SeasonLines: summary.SeasonLines,
			TeamResults: summary.TeamResults,
		}
		if err := o.publisher.PublishRefresh(ctx, event); err != nil {
			log.Printf("  ⚠️  Failed to publish refresh event: %v", err)
		}
	}

	log.Printf("✓ Season %d refresh complete in %v", year, time.Since(startTime).Round(time.Second))
	return summary, nil
}

// Stop gracefully stops the scheduler
func (o *Orchestrator) Stop() {
	log.Println("Stopping scheduler orchestrator...")

	if o.cancel != nil {
		o.cancel()
	}

	log.Println("✓ Scheduler orchestrator stopped")
}

// GetStatus returns current scheduler status
func (o *Orchestrator) GetStatus() map[string]interface{} {
	return map[string]interface{}{
		"daily_refresh_enabled": o.config.EnableDailyRefresh,
		"daily_refresh_hour":    o.config.DailyRefreshHour,
		"current_season":        torvik.CurrentSeasonYear(time.Now()),
	}
}
