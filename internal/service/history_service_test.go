package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/nexus/internal/config"
	"github.com/dmehra2102/prod-golang-projects/nexus/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/nexus/pkg/metrics"
)

// blockingRepo holds the worker inside Create until release is closed.
type blockingRepo struct {
	started chan struct{}
	release chan struct{}
}

func (r *blockingRepo) Create(ctx context.Context, _ *domain.CalculationRecord) error {
	r.started <- struct{}{}
	<-r.release
	return nil
}

func (r *blockingRepo) Recent(context.Context, int) ([]domain.CalculationRecord, error) {
	return nil, nil
}

func (r *blockingRepo) BySession(context.Context, uuid.UUID) ([]domain.CalculationRecord, error) {
	return nil, nil
}

type failingRepo struct{}

func (failingRepo) Create(context.Context, *domain.CalculationRecord) error {
	return assert.AnError
}

func (failingRepo) Recent(context.Context, int) ([]domain.CalculationRecord, error) {
	return nil, assert.AnError
}

func (failingRepo) BySession(context.Context, uuid.UUID) ([]domain.CalculationRecord, error) {
	return nil, assert.AnError
}

func TestHistoryService_PersistsAndDrains(t *testing.T) {
	repo := newMemoryRepo()
	m := metrics.NewCollector("test", nil)
	svc := NewHistoryService(repo, config.HistoryConfig{BufferSize: 8, WriteTimeout: time.Second}, m, zap.NewNop())

	for range 3 {
		svc.Enqueue(&domain.CalculationRecord{Tool: domain.ToolGlasgow})
	}
	svc.Shutdown()

	assert.Len(t, repo.all(), 3)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.HistoryEntriesTotal))

	recent, err := svc.Recent(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestHistoryService_DropsWhenBufferFull(t *testing.T) {
	repo := &blockingRepo{started: make(chan struct{}, 1), release: make(chan struct{})}
	m := metrics.NewCollector("test", nil)
	svc := NewHistoryService(repo, config.HistoryConfig{BufferSize: 1}, m, zap.NewNop())

	svc.Enqueue(&domain.CalculationRecord{Tool: domain.ToolAPGAR})
	<-repo.started // worker busy with the first record

	svc.Enqueue(&domain.CalculationRecord{Tool: domain.ToolAPGAR}) // buffered
	svc.Enqueue(&domain.CalculationRecord{Tool: domain.ToolAPGAR}) // dropped

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HistoryBufferDropped))

	close(repo.release)
	svc.Shutdown()
}

func TestHistoryService_WriteErrorsCounted(t *testing.T) {
	m := metrics.NewCollector("test", nil)
	svc := NewHistoryService(failingRepo{}, config.HistoryConfig{BufferSize: 4}, m, zap.NewNop())

	svc.Enqueue(&domain.CalculationRecord{Tool: domain.ToolBMI})
	svc.Shutdown()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HistoryWriteErrors))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.HistoryEntriesTotal))
}

func TestHistoryService_Disabled(t *testing.T) {
	svc := NewHistoryService(nil, config.HistoryConfig{BufferSize: 4}, metrics.NewCollector("test", nil), zap.NewNop())

	assert.False(t, svc.Enabled())
	svc.Enqueue(&domain.CalculationRecord{Tool: domain.ToolBMI})

	_, err := svc.Recent(context.Background(), 10)
	assert.ErrorIs(t, err, ErrHistoryDisabled)
	_, err = svc.BySession(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrHistoryDisabled)
	assert.NoError(t, svc.Flush(context.Background()))

	svc.Shutdown()
	svc.Shutdown()
}

func TestHistoryService_EnqueueAfterShutdown(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewHistoryService(repo, config.HistoryConfig{BufferSize: 4}, metrics.NewCollector("test", nil), zap.NewNop())

	svc.Shutdown()
	assert.NotPanics(t, func() {
		svc.Enqueue(&domain.CalculationRecord{Tool: domain.ToolBMI})
	})
	assert.Empty(t, repo.all())
}

func TestHistoryService_FlushWaitsForQueuedRecords(t *testing.T) {
	repo := newMemoryRepo()
	m := metrics.NewCollector("test", nil)
	svc := NewHistoryService(repo, config.HistoryConfig{BufferSize: 8}, m, zap.NewNop())
	t.Cleanup(svc.Shutdown)

	session := uuid.New()
	for range 3 {
		svc.Enqueue(&domain.CalculationRecord{Tool: domain.ToolGlasgow, SessionID: &session})
	}
	svc.Enqueue(&domain.CalculationRecord{Tool: domain.ToolBMI})

	require.NoError(t, svc.Flush(context.Background()))
	assert.Len(t, repo.all(), 4)
	assert.Equal(t, 4.0, testutil.ToFloat64(m.HistoryEntriesTotal))

	records, err := svc.BySession(context.Background(), session)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	// The service keeps accepting records after a flush
	svc.Enqueue(&domain.CalculationRecord{Tool: domain.ToolAPGAR})
	require.NoError(t, svc.Flush(context.Background()))
	assert.Len(t, repo.all(), 5)
}

func TestHistoryService_FlushHonoursContext(t *testing.T) {
	repo := &blockingRepo{started: make(chan struct{}, 1), release: make(chan struct{})}
	svc := NewHistoryService(repo, config.HistoryConfig{BufferSize: 4}, metrics.NewCollector("test", nil), zap.NewNop())

	svc.Enqueue(&domain.CalculationRecord{Tool: domain.ToolAPGAR})
	<-repo.started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, svc.Flush(ctx), context.DeadlineExceeded)

	close(repo.release)
	require.NoError(t, svc.Flush(context.Background()))
	svc.Shutdown()
	assert.NoError(t, svc.Flush(context.Background()))
}
