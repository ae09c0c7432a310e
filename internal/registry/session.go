package registry

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vancomm/minesweeper-gym/internal/mines"
)

// Episode summarises one finished play-through of an environment.
type Episode struct {
	EnvID       uuid.UUID
	Params      mines.GameParams
	Steps       int
	TotalReward int
	Success     bool
	Board       mines.Board
	StartedAt   time.Time
	EndedAt     time.Time
}

type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	now func() time.Time

	mu        sync.Mutex
	env       *mines.Env
	steps     int
	reward    int
	startedAt time.Time
}

type Snapshot struct {
	ID          uuid.UUID        `json:"env_id"`
	Params      mines.GameParams `json:"params"`
	Status      string           `json:"status"`
	Board       mines.Board      `json:"board,omitempty"`
	Steps       int              `json:"steps"`
	TotalReward int              `json:"total_reward"`
	CreatedAt   int64            `json:"created_at"`
	StartedAt   *int64           `json:"started_at,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:          s.ID,
		Params:      s.env.GameParams,
		Status:      s.env.Status().String(),
		Steps:       s.steps,
		TotalReward: s.reward,
		CreatedAt:   s.CreatedAt.UnixMilli(),
	}
	if board, err := s.env.Board(); err == nil {
		snap.Board = board
	}
	if !s.startedAt.IsZero() {
		started := s.startedAt.UnixMilli()
		snap.StartedAt = &started
	}
	return snap
}

func (s *Session) Reset() mines.Board {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.steps, s.reward = 0, 0
	s.startedAt = s.now().UTC()
	return s.env.Reset()
}

// Step applies a linear action. The returned episode is non-nil only when
// the step ended the episode.
func (s *Session) Step(action int) (mines.StepResult, *Episode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.env.Step(action)
	if err != nil {
		return res, nil, err
	}
	return res, s.record(res), nil
}

func (s *Session) StepXY(x, y int) (mines.StepResult, *Episode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.env.StepXY(x, y)
	if err != nil {
		return res, nil, err
	}
	return res, s.record(res), nil
}

func (s *Session) Board() (mines.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.env.Board()
}

func (s *Session) record(res mines.StepResult) *Episode {
	s.steps++
	s.reward += res.Reward
	if !res.Terminal {
		return nil
	}
	return &Episode{
		EnvID:       s.ID,
		Params:      s.env.GameParams,
		Steps:       s.steps,
		TotalReward: s.reward,
		Success:     res.Outcome != nil && res.Outcome.Success,
		Board:       res.Board.Clone(),
		StartedAt:   s.startedAt,
		EndedAt:     s.now().UTC(),
	}
}
