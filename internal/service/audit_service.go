package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"vetcita/internal/domain"
)

// AuditEntry is the caller-facing shape of an audit record.
type AuditEntry struct {
	UserID       uint
	UserRole     domain.Role
	Action       domain.AuditAction
	ResourceType string
	ResourceID   string
	RequestID    string
	IPAddress    string
	StatusCode   int
	Changes      string
}

type AuditRepository interface {
	Insert(ctx context.Context, log *domain.AuditLog) error
}

// AuditService writes audit records asynchronously through a buffered
// channel so request latency never waits on the audit table. Entries are
// dropped (and counted in the log) if the buffer is full; the trail is
// best-effort, not a ledger.
type AuditService struct {
	repo    AuditRepository
	log     *zap.Logger
	entries chan AuditEntry
	done    chan struct{}
}

func NewAuditService(repo AuditRepository, log *zap.Logger) *AuditService {
	s := &AuditService{
		repo:    repo,
		log:     log,
		entries: make(chan AuditEntry, 1024),
		done:    make(chan struct{}),
	}
	go s.worker()
	return s
}

func (s *AuditService) worker() {
	defer close(s.done)
	for e := range s.entries {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := s.repo.Insert(ctx, &domain.AuditLog{
			UserID:       e.UserID,
			UserRole:     e.UserRole,
			Action:       e.Action,
			ResourceType: e.ResourceType,
			ResourceID:   e.ResourceID,
			RequestID:    e.RequestID,
			IPAddress:    e.IPAddress,
			StatusCode:   e.StatusCode,
			Changes:      e.Changes,
		})
		cancel()
		if err != nil {
			s.log.Error("failed to write audit entry",
				zap.Error(err),
				zap.String("resource_type", e.ResourceType),
				zap.String("resource_id", e.ResourceID),
			)
		}
	}
}

// LogAsync enqueues an entry without blocking the caller.
func (s *AuditService) LogAsync(_ context.Context, e AuditEntry) {
	select {
	case s.entries <- e:
	default:
		s.log.Warn("audit buffer full, dropping entry",
			zap.String("resource_type", e.ResourceType),
			zap.String("action", string(e.Action)),
		)
	}
}

// Close drains the buffer and stops the worker.
func (s *AuditService) Close() {
	close(s.entries)
	<-s.done
}
