package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/nexus/internal/config"
	"github.com/dmehra2102/prod-golang-projects/nexus/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/nexus/pkg/metrics"
)

type CalculationRepository interface {
	Create(ctx context.Context, rec *domain.CalculationRecord) error
	Recent(ctx context.Context, limit int) ([]domain.CalculationRecord, error)
	BySession(ctx context.Context, sessionID uuid.UUID) ([]domain.CalculationRecord, error)
}

// historyItem is either a record to persist or a flush marker, closed by
// the worker once every item queued before it has been handled.
type historyItem struct {
	rec     *domain.CalculationRecord
	flushed chan struct{}
}

const shutdownTimeout = 10 * time.Second

// HistoryService persists calculation records off the request path. A
// service built with a nil repository accepts records and discards them.
type HistoryService struct {
	repo         CalculationRepository
	log          *zap.Logger
	metrics      *metrics.Collector
	writeTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan historyItem
	done   chan struct{}
}

func NewHistoryService(repo CalculationRepository, cfg config.HistoryConfig, m *metrics.Collector, log *zap.Logger) *HistoryService {
	svc := &HistoryService{
		repo:         repo,
		log:          log,
		metrics:      m,
		writeTimeout: cfg.WriteTimeout,
		queue:        make(chan historyItem, max(cfg.BufferSize, 1)),
		done:         make(chan struct{}),
	}
	if svc.writeTimeout <= 0 {
		svc.writeTimeout = 5 * time.Second
	}

	if repo == nil {
		close(svc.done)
		return svc
	}
	go svc.worker()
	return svc
}

func (s *HistoryService) Enabled() bool {
	return s.repo != nil
}

// Enqueue hands rec to the background writer. A full buffer drops the
// record.
func (s *HistoryService) Enqueue(rec *domain.CalculationRecord) {
	if s.repo == nil {
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}

	select {
	case s.queue <- historyItem{rec: rec}:
	default:
		s.metrics.HistoryBufferDropped.Inc()
		s.log.Warn("history buffer full, dropping record",
			zap.String("tool", string(rec.Tool)),
		)
	}
}

func (s *HistoryService) Recent(ctx context.Context, limit int) ([]domain.CalculationRecord, error) {
	if s.repo == nil {
		return nil, ErrHistoryDisabled
	}
	return s.repo.Recent(ctx, limit)
}

// BySession lists a session's records oldest first. Records still queued
// are not included.
func (s *HistoryService) BySession(ctx context.Context, sessionID uuid.UUID) ([]domain.CalculationRecord, error) {
	if s.repo == nil {
		return nil, ErrHistoryDisabled
	}
	return s.repo.BySession(ctx, sessionID)
}

// Flush blocks until every record enqueued before the call has been
// written, or ctx is done.
func (s *HistoryService) Flush(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return s.waitDone(ctx)
	}
	flushed := make(chan struct{})
	select {
	case s.queue <- historyItem{flushed: flushed}:
		s.mu.RUnlock()
	case <-ctx.Done():
		s.mu.RUnlock()
		return ctx.Err()
	}

	select {
	case <-flushed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *HistoryService) waitDone(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting records and waits for the buffer to drain.
func (s *HistoryService) Shutdown() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()

	select {
	case <-s.done:
	case <-time.After(shutdownTimeout):
		s.log.Warn("history service shutdown timed out; some records may be lost")
	}
}

func (s *HistoryService) worker() {
	defer close(s.done)
	for item := range s.queue {
		if item.flushed != nil {
			close(item.flushed)
			continue
		}
		s.persist(item.rec)
	}
}

func (s *HistoryService) persist(rec *domain.CalculationRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
	defer cancel()

	if err := s.repo.Create(ctx, rec); err != nil {
		s.metrics.HistoryWriteErrors.Inc()
		s.log.Error("failed to persist calculation record",
			zap.String("tool", string(rec.Tool)),
			zap.Error(err),
		)
		return
	}
	s.metrics.HistoryEntriesTotal.Inc()
}
