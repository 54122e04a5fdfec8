package usecase

import (
	"bytes"
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/rolegate/internal/access/domain"
	"github.com/allisson/rolegate/internal/access/store"
	apperrors "github.com/allisson/rolegate/internal/errors"
)

type sessionEntry struct {
	session *domain.Session
	store   *store.Store

	// fetchMu serializes fetch-and-replace so concurrent refreshes land in call order.
	fetchMu sync.Mutex
}

type sessionUseCase struct {
	source RoleSource
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*sessionEntry
}

// NewSessionUseCase creates a SessionUseCase backed by source.
func NewSessionUseCase(source RoleSource, logger *slog.Logger) SessionUseCase {
	return &sessionUseCase{
		source:   source,
		logger:   logger,
		sessions: make(map[uuid.UUID]*sessionEntry),
	}
}

func (s *sessionUseCase) Open(ctx context.Context, identity string) (*domain.Session, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate session id")
	}

	entry := &sessionEntry{
		session: &domain.Session{
			ID:        id,
			Identity:  identity,
			CreatedAt: time.Now().UTC(),
		},
		store: store.New(),
	}

	s.mu.Lock()
	s.sessions[id] = entry
	s.mu.Unlock()

	s.load(ctx, entry)

	s.logger.Info("session opened",
		slog.String("session_id", id.String()),
		slog.Int("roles", entry.store.Current().Len()),
	)
	return entry.session, nil
}

func (s *sessionUseCase) Get(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error) {
	entry, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return entry.session, nil
}

func (s *sessionUseCase) Store(ctx context.Context, sessionID uuid.UUID) (*store.Store, error) {
	entry, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return entry.store, nil
}

func (s *sessionUseCase) Refresh(ctx context.Context, sessionID uuid.UUID) (domain.RoleSet, error) {
	entry, err := s.lookup(sessionID)
	if err != nil {
		return domain.RoleSet{}, err
	}

	s.load(ctx, entry)
	return entry.store.Current(), nil
}

func (s *sessionUseCase) Close(ctx context.Context, sessionID uuid.UUID) error {
	s.mu.Lock()
	entry, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if !ok {
		return domain.ErrSessionNotFound
	}

	s.teardown(entry)
	s.logger.Info("session closed", slog.String("session_id", sessionID.String()))
	return nil
}

func (s *sessionUseCase) List(ctx context.Context) []*domain.Session {
	s.mu.RLock()
	sessions := make([]*domain.Session, 0, len(s.sessions))
	for _, entry := range s.sessions {
		sessions = append(sessions, entry.session)
	}
	s.mu.RUnlock()

	slices.SortFunc(sessions, func(a, b *domain.Session) int {
		return bytes.Compare(a.ID[:], b.ID[:])
	})
	return sessions
}

func (s *sessionUseCase) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *sessionUseCase) Shutdown(ctx context.Context) {
	s.mu.Lock()
	entries := s.sessions
	s.sessions = make(map[uuid.UUID]*sessionEntry)
	s.mu.Unlock()

	for _, entry := range entries {
		s.teardown(entry)
	}
	if len(entries) > 0 {
		s.logger.Info("sessions closed on shutdown", slog.Int("count", len(entries)))
	}
}

func (s *sessionUseCase) lookup(sessionID uuid.UUID) (*sessionEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return entry, nil
}

// load fetches the identity's roles and replaces the store wholesale. On any source
// error the store is replaced with the empty set.
func (s *sessionUseCase) load(ctx context.Context, entry *sessionEntry) {
	entry.fetchMu.Lock()
	defer entry.fetchMu.Unlock()

	roles, err := s.source.FetchRoles(ctx, entry.session.Identity)
	if err != nil {
		s.logger.Error("failed to fetch roles, continuing with no roles",
			slog.String("session_id", entry.session.ID.String()),
			slog.Any("error", err),
		)
		entry.store.Reset()
		return
	}
	entry.store.Replace(roles)
}

func (s *sessionUseCase) teardown(entry *sessionEntry) {
	entry.store.Reset()
	entry.store.Close()
}
