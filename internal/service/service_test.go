package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/nexus/internal/config"
	"github.com/dmehra2102/prod-golang-projects/nexus/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/nexus/pkg/metrics"
)

// memoryRepo records every created row.
type memoryRepo struct {
	mu      sync.Mutex
	records []domain.CalculationRecord
	created chan struct{}
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{created: make(chan struct{}, 100)}
}

func (r *memoryRepo) Create(_ context.Context, rec *domain.CalculationRecord) error {
	r.mu.Lock()
	r.records = append(r.records, *rec)
	r.mu.Unlock()
	r.created <- struct{}{}
	return nil
}

func (r *memoryRepo) Recent(_ context.Context, limit int) ([]domain.CalculationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := min(limit, len(r.records))
	return append([]domain.CalculationRecord(nil), r.records[len(r.records)-n:]...), nil
}

func (r *memoryRepo) BySession(_ context.Context, sessionID uuid.UUID) ([]domain.CalculationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.CalculationRecord
	for _, rec := range r.records {
		if rec.SessionID != nil && *rec.SessionID == sessionID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memoryRepo) all() []domain.CalculationRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.CalculationRecord(nil), r.records...)
}

type fixture struct {
	metrics    *metrics.Collector
	sessions   *SessionStore
	history    *HistoryService
	scoring    *ScoringService
	dispatcher *Dispatcher
}

func newFixture(t *testing.T, repo CalculationRepository) *fixture {
	t.Helper()

	m := metrics.NewCollector("test", nil)
	sessions := NewSessionStore(config.SessionConfig{IdleTTL: time.Hour}, m, zap.NewNop())
	history := NewHistoryService(repo, config.HistoryConfig{BufferSize: 16}, m, zap.NewNop())
	t.Cleanup(history.Shutdown)

	scoringSvc := NewScoringService(sessions, history, m, zap.NewNop())
	return &fixture{
		metrics:    m,
		sessions:   sessions,
		history:    history,
		scoring:    scoringSvc,
		dispatcher: NewDispatcher(scoringSvc),
	}
}
