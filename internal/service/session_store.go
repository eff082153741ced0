package service

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/nexus/internal/config"
	"github.com/dmehra2102/prod-golang-projects/nexus/internal/report"
	"github.com/dmehra2102/prod-golang-projects/nexus/pkg/metrics"
)

type session struct {
	report   *report.Report
	lastSeen time.Time
}

// SessionStore keeps one report buffer per intervention session. Get
// counts as activity; sessions idle longer than the configured TTL are
// evicted by Sweep.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session

	idleTTL       time.Duration
	sweepInterval time.Duration
	archiveDir    string
	now           func() time.Time

	metrics *metrics.Collector
	log     *zap.Logger
}

func NewSessionStore(cfg config.SessionConfig, m *metrics.Collector, log *zap.Logger) *SessionStore {
	return &SessionStore{
		sessions:      make(map[uuid.UUID]*session),
		idleTTL:       cfg.IdleTTL,
		sweepInterval: cfg.SweepInterval,
		archiveDir:    cfg.ArchiveDir,
		now:           time.Now,
		metrics:       m,
		log:           log,
	}
}

func (s *SessionStore) Create() (uuid.UUID, *report.Report) {
	id := uuid.New()
	rep := report.New()

	s.mu.Lock()
	s.sessions[id] = &session{report: rep, lastSeen: s.now()}
	s.mu.Unlock()

	s.metrics.SessionsOpen.Inc()
	return id, rep
}

func (s *SessionStore) Get(id uuid.UUID) (*report.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.lastSeen = s.now()
	return sess.report, nil
}

// Delete closes a session, archiving its report first when an archive
// directory is configured.
func (s *SessionStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	s.metrics.SessionsOpen.Dec()
	s.archive(id, sess.report)
	return nil
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep evicts sessions idle for longer than the TTL and returns how many
// were removed.
func (s *SessionStore) Sweep() int {
	if s.idleTTL <= 0 {
		return 0
	}

	now := s.now()
	expired := make(map[uuid.UUID]*report.Report)

	s.mu.Lock()
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.idleTTL {
			expired[id] = sess.report
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for id, rep := range expired {
		s.metrics.SessionsOpen.Dec()
		s.metrics.SessionsEvicted.Inc()
		s.log.Info("evicted idle session", zap.String("session_id", id.String()))
		s.archive(id, rep)
	}
	return len(expired)
}

// Run sweeps on every interval until ctx is done.
func (s *SessionStore) Run(ctx context.Context) {
	if s.sweepInterval <= 0 {
		return
	}

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *SessionStore) archive(id uuid.UUID, rep *report.Report) {
	if s.archiveDir == "" || rep.Len() == 0 {
		return
	}

	path := filepath.Join(s.archiveDir, id.String()+".txt")
	if err := rep.SaveText(path); err != nil {
		s.log.Error("failed to archive session report",
			zap.String("session_id", id.String()),
			zap.Error(err),
		)
		return
	}
	s.log.Info("session report archived", zap.String("path", path))
}
