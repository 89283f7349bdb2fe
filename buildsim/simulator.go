// Package buildsim plays out the cosmetic build pipeline: a fixed stepwise
// progress sequence per platform ending in an inert downloadable payload.
// It is not a scheduler; it only preserves the visible state sequence
// pending -> building -> completed with monotonic progress.
package buildsim

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"

	"github.com/voiceforge/voiceforge/generator"
)

// Status is the lifecycle phase of one platform build.
type Status string

const (
	StatusPending   Status = "pending"
	StatusBuilding  Status = "building"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// progressSteps is the fixed progression every platform build walks through.
var progressSteps = []int{20, 40, 60, 80, 100}

var (
	// ErrBuildNotFound is returned for unknown build IDs.
	ErrBuildNotFound = errors.New("build not found")
	// ErrArtifactNotReady is returned when a download is requested before
	// the platform build completed.
	ErrArtifactNotReady = errors.New("artifact not ready")
)

// Clock abstracts time so the fixed delays are testable without waiting.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// PlatformStatus is the externally visible state of one platform build.
type PlatformStatus struct {
	Platform    string `json:"platform"`
	Status      Status `json:"status"`
	Progress    int    `json:"progress"`
	DownloadURL string `json:"downloadUrl,omitempty"`
}

// Snapshot is a point-in-time copy of a build, safe for callers to keep.
type Snapshot struct {
	ID        string           `json:"id"`
	AppID     string           `json:"appId"`
	AppName   string           `json:"appName"`
	Platforms []PlatformStatus `json:"platforms"`
	Done      bool             `json:"done"`
}

type build struct {
	mu        sync.Mutex
	id        string
	app       *generator.GeneratedApp
	platforms []*PlatformStatus
	cancel    context.CancelFunc
	pending   int
}

// Config configures the simulator.
type Config struct {
	// StepDelay is the fixed delay between progress steps.
	StepDelay time.Duration
	// MaxConcurrent caps platform builds running at once.
	MaxConcurrent int64
	// Capacity bounds the build registry; oldest builds are evicted.
	Capacity int
	// Clock overrides the system clock in tests.
	Clock Clock
}

// Simulator owns all simulated builds.
type Simulator struct {
	builds    *lru.Cache[string, *build]
	sem       *semaphore.Weighted
	stepDelay time.Duration
	clock     Clock
	root      context.Context
}

// NewSimulator creates a simulator whose builds run until ctx is canceled.
func NewSimulator(ctx context.Context, cfg Config) (*Simulator, error) {
	if cfg.StepDelay <= 0 {
		cfg.StepDelay = 600 * time.Millisecond
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 4
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = 1024
	}
	if cfg.Clock == nil {
		cfg.Clock = systemClock{}
	}
	cache, err := lru.New[string, *build](cfg.Capacity)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create build registry")
	}
	return &Simulator{
		builds:    cache,
		sem:       semaphore.NewWeighted(cfg.MaxConcurrent),
		stepDelay: cfg.StepDelay,
		clock:     cfg.Clock,
		root:      ctx,
	}, nil
}

// Start launches a simulated build for every platform of the app and returns
// the initial snapshot with all platforms pending.
func (s *Simulator) Start(app *generator.GeneratedApp) *Snapshot {
	ctx, cancel := context.WithCancel(s.root)
	b := &build{
		id:      shortuuid.New(),
		app:     app,
		cancel:  cancel,
		pending: len(app.Platforms),
	}
	for _, p := range app.Platforms {
		b.platforms = append(b.platforms, &PlatformStatus{
			Platform: p,
			Status:   StatusPending,
		})
	}
	s.builds.Add(b.id, b)

	for _, ps := range b.platforms {
		go s.runPlatform(ctx, b, ps)
	}
	return b.snapshot()
}

// Get returns the current snapshot of a build.
func (s *Simulator) Get(id string) (*Snapshot, error) {
	b, ok := s.builds.Get(id)
	if !ok {
		return nil, errors.Wrapf(ErrBuildNotFound, "id %s", id)
	}
	return b.snapshot(), nil
}

// Cancel aborts all in-flight platform builds of the given build; completed
// platforms keep their state, the rest are marked failed.
func (s *Simulator) Cancel(id string) error {
	b, ok := s.builds.Get(id)
	if !ok {
		return errors.Wrapf(ErrBuildNotFound, "id %s", id)
	}
	b.cancel()
	return nil
}

// Artifact returns the inert payload for a completed platform build: a text
// manifest of the generated files.
func (s *Simulator) Artifact(id, platform string) (string, error) {
	b, ok := s.builds.Get(id)
	if !ok {
		return "", errors.Wrapf(ErrBuildNotFound, "id %s", id)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ps := range b.platforms {
		if ps.Platform != platform {
			continue
		}
		if ps.Status != StatusCompleted {
			return "", errors.Wrapf(ErrArtifactNotReady, "platform %s is %s", platform, ps.Status)
		}
		return artifactManifest(b.app, platform), nil
	}
	return "", errors.Wrapf(ErrBuildNotFound, "platform %s", platform)
}

func (s *Simulator) runPlatform(ctx context.Context, b *build, ps *PlatformStatus) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		b.setFailed(ps)
		return
	}
	defer s.sem.Release(1)

	b.setStatus(ps, StatusBuilding)
	for _, progress := range progressSteps {
		if err := s.clock.Sleep(ctx, s.stepDelay); err != nil {
			b.setFailed(ps)
			return
		}
		b.setProgress(ps, progress)
	}
	b.complete(ps)
	slog.Debug("simulated build step sequence finished",
		"build", b.id,
		"platform", ps.Platform,
	)
}

func (b *build) setStatus(ps *PlatformStatus, status Status) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ps.Status = status
}

// setProgress enforces monotonic progress within one run.
func (b *build) setProgress(ps *PlatformStatus, progress int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if progress > ps.Progress {
		ps.Progress = progress
	}
}

func (b *build) complete(ps *PlatformStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ps.Status = StatusCompleted
	ps.Progress = 100
	ps.DownloadURL = fmt.Sprintf("/api/v1/builds/%s/artifacts/%s", b.id, ps.Platform)
	b.pending--
}

func (b *build) setFailed(ps *PlatformStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ps.Status == StatusCompleted {
		return
	}
	ps.Status = StatusFailed
	b.pending--
}

func (b *build) snapshot() *Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	snap := &Snapshot{
		ID:      b.id,
		AppID:   b.app.ID,
		AppName: b.app.Name,
		Done:    b.pending == 0,
	}
	for _, ps := range b.platforms {
		snap.Platforms = append(snap.Platforms, *ps)
	}
	return snap
}

func artifactManifest(app *generator.GeneratedApp, platform string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s build)\n\n", app.Name, platform)
	fmt.Fprintf(&sb, "Build command: %s\n\nFiles:\n", app.BuildCommand)
	for _, f := range app.Files {
		if strings.HasPrefix(f.Path, platform+"/") || strings.HasPrefix(f.Path, platform) {
			fmt.Fprintf(&sb, "  %s (%d bytes)\n", f.Path, len(f.Content))
		}
	}
	return sb.String()
}
