package services

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/observability"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/search"
	"go.uber.org/zap"
)

// ControllerFactory monta o controlador de uma nova sessão
type ControllerFactory func(ctx context.Context) *search.Controller

// Session é uma vitrine montada: um controlador com seu estado visível
type Session struct {
	ID         string
	Controller *search.Controller
	CreatedAt  time.Time
}

// sessionEntry representa uma sessão na lista LRU
type sessionEntry struct {
	session    *Session
	expiration time.Time
}

// SessionService mantém as sessões em memória num LRU com TTL deslizante.
// Sessões removidas por capacidade, expiração ou Delete têm o controlador fechado.
type SessionService struct {
	capacity int
	ttl      time.Duration
	factory  ControllerFactory
	logger   *zap.Logger
	metrics  *observability.Metrics
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*list.Element
	lruList  *list.List
}

// NewSessionService cria o serviço de sessões
func NewSessionService(factory ControllerFactory, capacity int, ttl time.Duration, logger *zap.Logger, metrics *observability.Metrics) *SessionService {
	if capacity < 1 {
		capacity = 1000
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	return &SessionService{
		capacity: capacity,
		ttl:      ttl,
		factory:  factory,
		logger:   logger.Named("sessions"),
		metrics:  metrics,
		now:      time.Now,
		sessions: make(map[string]*list.Element),
		lruList:  list.New(),
	}
}

// Create monta um controlador e registra a sessão
func (s *SessionService) Create(ctx context.Context) *Session {
	session := &Session{
		ID:         uuid.NewString(),
		Controller: s.factory(ctx),
		CreatedAt:  s.now(),
	}

	s.mu.Lock()
	var evicted []*Session
	if s.lruList.Len() >= s.capacity {
		if oldest := s.lruList.Front(); oldest != nil {
			evicted = append(evicted, s.removeElement(oldest))
		}
	}
	element := s.lruList.PushBack(&sessionEntry{session: session, expiration: s.now().Add(s.ttl)})
	s.sessions[session.ID] = element
	size := s.lruList.Len()
	s.mu.Unlock()

	s.closeAll(evicted, "capacidade")
	s.metrics.SetActiveSessions(size)

	return session
}

// Get retorna uma sessão ativa e renova sua expiração
func (s *SessionService) Get(id string) (*Session, error) {
	s.mu.Lock()
	element, found := s.sessions[id]
	if !found {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}

	entry := element.Value.(*sessionEntry)
	now := s.now()
	if now.After(entry.expiration) {
		expired := s.removeElement(element)
		size := s.lruList.Len()
		s.mu.Unlock()

		s.closeAll([]*Session{expired}, "expiração")
		s.metrics.SetActiveSessions(size)
		return nil, ErrSessionNotFound
	}

	entry.expiration = now.Add(s.ttl)
	s.lruList.MoveToBack(element)
	s.mu.Unlock()

	return entry.session, nil
}

// Delete desmonta uma sessão
func (s *SessionService) Delete(id string) error {
	s.mu.Lock()
	element, found := s.sessions[id]
	if !found {
		s.mu.Unlock()
		return ErrSessionNotFound
	}
	removed := s.removeElement(element)
	size := s.lruList.Len()
	s.mu.Unlock()

	removed.Controller.Close()
	s.metrics.SetActiveSessions(size)
	return nil
}

// Len retorna o número de sessões em memória
func (s *SessionService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lruList.Len()
}

// CleanupExpired remove todas as sessões expiradas
func (s *SessionService) CleanupExpired() int {
	s.mu.Lock()
	now := s.now()
	var expired []*Session

	var next *list.Element
	for element := s.lruList.Front(); element != nil; element = next {
		next = element.Next()
		if now.After(element.Value.(*sessionEntry).expiration) {
			expired = append(expired, s.removeElement(element))
		}
	}
	size := s.lruList.Len()
	s.mu.Unlock()

	s.closeAll(expired, "expiração")
	if len(expired) > 0 {
		s.metrics.SetActiveSessions(size)
	}
	return len(expired)
}

// StartCleanupRoutine inicia a limpeza periódica, encerrada quando ctx termina
func (s *SessionService) StartCleanupRoutine(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := s.CleanupExpired(); removed > 0 {
					s.logger.Debug("sessões expiradas removidas", zap.Int("removed", removed))
				}
			}
		}
	}()
}

// Close desmonta todas as sessões
func (s *SessionService) Close() {
	s.mu.Lock()
	var all []*Session
	for element := s.lruList.Front(); element != nil; element = element.Next() {
		all = append(all, element.Value.(*sessionEntry).session)
	}
	s.sessions = make(map[string]*list.Element)
	s.lruList.Init()
	s.mu.Unlock()

	s.closeAll(all, "encerramento")
	s.metrics.SetActiveSessions(0)
}

// removeElement remove um elemento da lista e do mapa (deve ser chamado com lock)
func (s *SessionService) removeElement(element *list.Element) *Session {
	s.lruList.Remove(element)
	entry := element.Value.(*sessionEntry)
	delete(s.sessions, entry.session.ID)
	return entry.session
}

func (s *SessionService) closeAll(sessions []*Session, reason string) {
	for _, session := range sessions {
		session.Controller.Close()
		s.logger.Debug("sessão removida", zap.String("session", session.ID), zap.String("reason", reason))
	}
}
