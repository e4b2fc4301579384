package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"delivertrack/internal/core/domain/model/kernel"
	"delivertrack/internal/core/domain/services"

	"github.com/robfig/cron/v3"
)

// DefaultSimulationInterval is the period between two simulated samples.
const DefaultSimulationInterval = 3 * time.Second

// SampleFunc receives every simulated sample.
type SampleFunc func(ctx context.Context, location kernel.Location) error

// LocationSimulationJob fabricates GPS samples for one order on a fixed interval.
// It owns its position: every tick moves the last emitted sample by a random step.
type LocationSimulationJob struct {
	orderID  kernel.ID
	interval time.Duration
	walk     *services.RandomWalk
	emit     SampleFunc
	clock    func() time.Time
	cron     *cron.Cron
	logger   *slog.Logger

	mu       sync.Mutex
	position kernel.Location
	stopped  bool
}

// NewLocationSimulationJob creates a job starting from start. A non-positive interval
// means DefaultSimulationInterval; a nil walk uses a randomly seeded one.
func NewLocationSimulationJob(
	orderID kernel.ID,
	start kernel.Location,
	interval time.Duration,
	walk *services.RandomWalk,
	emit SampleFunc,
	logger *slog.Logger,
) *LocationSimulationJob {
	if interval <= 0 {
		interval = DefaultSimulationInterval
	}
	if walk == nil {
		walk = services.NewRandomWalk(nil, services.DefaultStepSpan)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LocationSimulationJob{
		orderID:  orderID,
		interval: interval,
		walk:     walk,
		emit:     emit,
		clock:    time.Now,
		// A slow emit must not let ticks pile up behind it.
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "location_simulation_job", "orderId", orderID.String()),
		position: start,
	}
}

// Start schedules the job.
func (j *LocationSimulationJob) Start() error {
	_, err := j.cron.AddFunc(fmt.Sprintf("@every %s", j.interval), func() {
		ctx := context.Background()
		if err := j.Tick(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Location simulation tick failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Location simulation job started", "interval", j.interval.String())
	return nil
}

// Tick emits one sample. The position only advances when the sample was accepted.
// After Stop it does nothing.
func (j *LocationSimulationJob) Tick(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.stopped {
		return nil
	}

	next, err := j.walk.Next(j.position, j.clock())
	if err != nil {
		return err
	}
	if err = j.emit(ctx, next); err != nil {
		return err
	}
	j.position = next
	return nil
}

// Position returns the last accepted sample.
func (j *LocationSimulationJob) Position() kernel.Location {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.position
}

// Stop halts the timer and waits for an in-flight tick. No sample is emitted afterwards.
func (j *LocationSimulationJob) Stop() {
	<-j.cron.Stop().Done()

	j.mu.Lock()
	j.stopped = true
	j.mu.Unlock()

	j.logger.Info("Location simulation job stopped")
}
