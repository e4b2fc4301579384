package jobs_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"delivertrack/internal/core/domain/model/kernel"
	"delivertrack/internal/core/domain/services"
	"delivertrack/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleSink struct {
	mu      sync.Mutex
	samples []kernel.Location
	err     error
}

func (s *sampleSink) emit(_ context.Context, location kernel.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.samples = append(s.samples, location)
	return nil
}

func (s *sampleSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.samples)
}

func newStart(t *testing.T) kernel.Location {
	t.Helper()
	loc, err := kernel.NewLocation(40.7128, -74.006, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	return loc
}

func Test_LocationSimulationJob_TickPerturbsPreviousSample(t *testing.T) {
	// Arrange
	start := newStart(t)
	sink := &sampleSink{}
	walk := services.NewRandomWalk(rand.New(rand.NewPCG(1, 2)), services.DefaultStepSpan)
	job := jobs.NewLocationSimulationJob(kernel.MustIDFromString("ord-3"), start, time.Second, walk, sink.emit, nil)

	// Act
	for range 5 {
		require.NoError(t, job.Tick(context.Background()))
	}

	// Assert
	require.Len(t, sink.samples, 5)
	prev := start
	for _, sample := range sink.samples {
		assert.GreaterOrEqual(t, sample.Lat()-prev.Lat(), -0.0005)
		assert.Less(t, sample.Lat()-prev.Lat(), 0.0005)
		assert.GreaterOrEqual(t, sample.Lng()-prev.Lng(), -0.0005)
		assert.Less(t, sample.Lng()-prev.Lng(), 0.0005)
		assert.False(t, sample.RecordedAt().Before(prev.RecordedAt()))
		prev = sample
	}
	assert.True(t, job.Position().IsEqual(prev))
}

func Test_LocationSimulationJob_RejectedSampleKeepsPosition(t *testing.T) {
	// Arrange
	start := newStart(t)
	sink := &sampleSink{err: errors.New("session not found")}
	job := jobs.NewLocationSimulationJob(kernel.MustIDFromString("ord-3"), start, time.Second, nil, sink.emit, nil)

	// Act
	err := job.Tick(context.Background())

	// Assert
	assert.Error(t, err)
	assert.True(t, job.Position().IsEqual(start))
}

func Test_LocationSimulationJob_EmitsOnScheduleUntilStopped(t *testing.T) {
	// Arrange
	sink := &sampleSink{}
	job := jobs.NewLocationSimulationJob(kernel.MustIDFromString("ord-3"), newStart(t), time.Second, nil, sink.emit, nil)

	// Act
	require.NoError(t, job.Start())
	assert.Eventually(t, func() bool { return sink.count() >= 1 }, 5*time.Second, 50*time.Millisecond)
	job.Stop()
	emitted := sink.count()

	// Assert
	require.NoError(t, job.Tick(context.Background()))
	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, emitted, sink.count())
}
