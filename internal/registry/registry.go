package registry

import (
	"errors"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-gym/internal/mines"
)

var (
	ErrNotFound        = errors.New("environment not found")
	ErrTooManySessions = errors.New("too many environments")
)

// Registry owns every hosted environment. Each environment is wrapped in a
// [Session] that serialises access to it.
type Registry struct {
	log         *logrus.Logger
	maxSessions int
	now         func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// New creates a registry holding at most maxSessions environments; zero
// means unlimited.
func New(log *logrus.Logger, maxSessions int) *Registry {
	return &Registry{
		log:         log,
		maxSessions: maxSessions,
		now:         time.Now,
		sessions:    make(map[uuid.UUID]*Session),
	}
}

func (r *Registry) Create(params mines.GameParams, rnd *rand.Rand) (*Session, error) {
	env, err := mines.NewEnv(params, rnd)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxSessions > 0 && len(r.sessions) >= r.maxSessions {
		return nil, ErrTooManySessions
	}

	s := &Session{
		ID:        uuid.New(),
		CreatedAt: r.now().UTC(),
		env:       env,
		now:       r.now,
	}
	r.sessions[s.ID] = s

	r.log.WithFields(logrus.Fields{
		"env_id": s.ID,
		"params": params.String(),
	}).Info("environment created")

	return s, nil
}

func (r *Registry) Get(id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (r *Registry) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(r.sessions, id)

	r.log.WithField("env_id", id).Info("environment deleted")
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// List returns the sessions ordered by creation time.
func (r *Registry) List() []*Session {
	r.mu.RLock()
	list := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		list = append(list, s)
	}
	r.mu.RUnlock()

	slices.SortFunc(list, func(a, b *Session) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return list
}
