package conversation

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Defaults for the conversation cleanup job.
const (
	DefaultRetention        = 24 * time.Hour
	DefaultCleanupInterval  = 10 * time.Minute
	DefaultMaxConversations = 10000
)

// CleanupConfig configures TTL and capacity eviction for the store.
type CleanupConfig struct {
	// Retention is how long an idle conversation survives.
	Retention time.Duration
	// CleanupInterval is how often the sweep runs.
	CleanupInterval time.Duration
	// MaxConversations caps the store size; the least recently updated
	// conversations are evicted first.
	MaxConversations int
	// OnSweep, when set, is invoked after every sweep with the number of
	// removed conversations and the number remaining.
	OnSweep func(removed, remaining int)
}

// DefaultCleanupConfig returns the default eviction policy.
func DefaultCleanupConfig() CleanupConfig {
	return CleanupConfig{
		Retention:        DefaultRetention,
		CleanupInterval:  DefaultCleanupInterval,
		MaxConversations: DefaultMaxConversations,
	}
}

// CleanupJob periodically evicts idle conversations from the store.
type CleanupJob struct {
	store  *Store
	config CleanupConfig

	mu      sync.Mutex
	running bool
	stop    chan struct{}
}

// NewCleanupJob creates a cleanup job. Non-positive config values fall back
// to defaults.
func NewCleanupJob(store *Store, config CleanupConfig) *CleanupJob {
	if config.Retention <= 0 {
		config.Retention = DefaultRetention
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultCleanupInterval
	}
	if config.MaxConversations <= 0 {
		config.MaxConversations = DefaultMaxConversations
	}
	return &CleanupJob{
		store:  store,
		config: config,
	}
}

// RunOnce performs a single sweep and returns the number of conversations
// removed.
func (j *CleanupJob) RunOnce(_ context.Context) int {
	cutoff := j.store.now().Add(-j.config.Retention)
	removed := j.store.deleteOlderThan(cutoff)
	removed += j.store.evictOverCapacity(j.config.MaxConversations)
	remaining := j.store.Len()
	if removed > 0 {
		slog.Info("conversation cleanup removed entries",
			"removed", removed,
			"remaining", remaining,
		)
	}
	if j.config.OnSweep != nil {
		j.config.OnSweep(removed, remaining)
	}
	return removed
}

// Start launches the periodic sweep. Starting an already running job is a
// no-op.
func (j *CleanupJob) Start(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.running {
		return
	}
	j.running = true
	j.stop = make(chan struct{})
	stop := j.stop

	go func() {
		ticker := time.NewTicker(j.config.CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				j.markStopped()
				return
			case <-stop:
				return
			case <-ticker.C:
				j.RunOnce(ctx)
			}
		}
	}()
}

// Stop halts the periodic sweep. Stopping a stopped job is a no-op.
func (j *CleanupJob) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.running {
		return
	}
	j.running = false
	close(j.stop)
}

// IsRunning reports whether the periodic sweep is active.
func (j *CleanupJob) IsRunning() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.running
}

func (j *CleanupJob) markStopped() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.running = false
}
