package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"delivertrack/internal/core/application/usecases/commands"
	"delivertrack/internal/core/application/usecases/queries"
	"delivertrack/internal/core/domain/model/kernel"
	"delivertrack/internal/core/domain/model/session"
	"delivertrack/internal/pkg/errs"
)

type (
	// LocationRecorder stores a location sample; commands.UpdateLocationCommandHandler.
	LocationRecorder interface {
		Handle(ctx context.Context, cmd commands.UpdateLocationCommand) error
	}

	// SessionFinder resolves a delivery session; queries.GetDeliverySessionQueryHandler.
	SessionFinder interface {
		Handle(ctx context.Context, query queries.GetDeliverySessionQuery) (queries.DeliverySessionResponse, error)
	}

	// SimulationObserver is told about simulation activity.
	SimulationObserver interface {
		SimulationStarted()
		SimulationStopped()
		SampleSimulated()
	}
)

type nopSimulationObserver struct{}

func (nopSimulationObserver) SimulationStarted() {}
func (nopSimulationObserver) SimulationStopped() {}
func (nopSimulationObserver) SampleSimulated() {}

// SimulationManager runs at most one LocationSimulationJob per order.
type SimulationManager struct {
	recorder LocationRecorder
	sessions SessionFinder
	interval time.Duration
	observer SimulationObserver
	logger   *slog.Logger

	mu      sync.Mutex
	running map[string]*LocationSimulationJob
}

// NewSimulationManager creates a manager whose jobs sample every interval and record
// through recorder. observer may be nil.
func NewSimulationManager(
	recorder LocationRecorder,
	sessions SessionFinder,
	interval time.Duration,
	observer SimulationObserver,
	logger *slog.Logger,
) *SimulationManager {
	if observer == nil {
		observer = nopSimulationObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SimulationManager{
		recorder: recorder,
		sessions: sessions,
		interval: interval,
		observer: observer,
		logger:   logger,
		running:  make(map[string]*LocationSimulationJob),
	}
}

// Start begins simulating the order's partner from the session's current location.
// It reports false when a simulation for the order is already running.
//
// Returns errs.ErrObjectNotFound when the order has no delivery session and
// errs.ErrValueIsInvalid when the session has ended.
func (m *SimulationManager) Start(ctx context.Context, orderID kernel.ID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.running[orderID.String()]; ok {
		return false, nil
	}

	start, err := m.startingPoint(ctx, orderID)
	if err != nil {
		return false, err
	}

	job := NewLocationSimulationJob(orderID, start, m.interval, nil, m.sampleFunc(orderID), m.logger)
	if err = job.Start(); err != nil {
		return false, fmt.Errorf("failed to start location simulation for %s: %w", orderID, err)
	}

	m.running[orderID.String()] = job
	m.observer.SimulationStarted()
	return true, nil
}

func (m *SimulationManager) startingPoint(ctx context.Context, orderID kernel.ID) (kernel.Location, error) {
	query, err := queries.NewGetDeliverySessionQuery(orderID)
	if err != nil {
		return kernel.Location{}, err
	}
	s, err := m.sessions.Handle(ctx, query)
	if err != nil {
		return kernel.Location{}, err
	}
	if s.EndedAt != nil {
		return kernel.Location{}, errs.NewValueIsInvalidErrorWithCause(
			"orderId", fmt.Errorf("delivery session of %s has ended", orderID))
	}

	if s.CurrentLocation != nil {
		return kernel.LocationFromMillis(s.CurrentLocation.Lat, s.CurrentLocation.Lng, s.CurrentLocation.Timestamp)
	}
	return kernel.NewLocation(session.OriginLat, session.OriginLng, time.Now())
}

func (m *SimulationManager) sampleFunc(orderID kernel.ID) SampleFunc {
	return func(ctx context.Context, location kernel.Location) error {
		cmd, err := commands.NewUpdateLocationCommand(orderID, location)
		if err != nil {
			return err
		}
		if err = m.recorder.Handle(ctx, cmd); err != nil {
			return err
		}
		m.observer.SampleSimulated()
		return nil
	}
}

// IsRunning reports whether the order is being simulated.
func (m *SimulationManager) IsRunning(orderID kernel.ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.running[orderID.String()]
	return ok
}

// Stop stops the order's simulation and waits for its last tick. It reports false when
// none was running.
func (m *SimulationManager) Stop(orderID kernel.ID) bool {
	m.mu.Lock()
	job, ok := m.running[orderID.String()]
	delete(m.running, orderID.String())
	m.mu.Unlock()

	if !ok {
		return false
	}
	job.Stop()
	m.observer.SimulationStopped()
	return true
}

// StopAll stops every running simulation.
func (m *SimulationManager) StopAll() {
	m.mu.Lock()
	stopping := m.running
	m.running = make(map[string]*LocationSimulationJob)
	m.mu.Unlock()

	for _, job := range stopping {
		job.Stop()
		m.observer.SimulationStopped()
	}
}
