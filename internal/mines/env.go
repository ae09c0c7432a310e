package mines

import (
	"fmt"
	"hash/maphash"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

const (
	StepReward          = -1
	FailReward          = -20
	SuccessReward       = 20
	InvalidActionReward = -5
)

type Status int

const (
	Unstarted Status = iota
	Active
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case Unstarted:
		return "unstarted"
	case Active:
		return "active"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

func (s Status) Terminal() bool {
	return s != Active
}

// Outcome is attached to a step result only when the episode ends.
type Outcome struct {
	Success bool `json:"success"`
}

type StepResult struct {
	Board    Board    `json:"board"`
	Reward   int      `json:"reward"`
	Terminal bool     `json:"terminal"`
	Outcome  *Outcome `json:"outcome,omitempty"`
}

// Env is a single-owner Minesweeper environment. It is not safe for
// concurrent use; give every simultaneous game its own Env.
type Env struct {
	GameParams

	board    Board
	mines    map[Point]struct{}
	mineList []Point
	terminal bool
	status   Status
	rnd      *rand.Rand
}

func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func randomRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

// NewEnv creates an environment that needs a [Env.Reset] before the first
// step. A nil r falls back to a randomly seeded source.
func NewEnv(params GameParams, r *rand.Rand) (*Env, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if r == nil {
		r = randomRand()
	}
	env := &Env{
		GameParams: params,
		terminal:   true,
		status:     Unstarted,
		rnd:        r,
	}
	return env, nil
}

func (e *Env) Status() Status {
	return e.status
}

func (e *Env) Terminal() bool {
	return e.terminal
}

// Reset discards the previous episode, places a fresh set of mines and
// returns the all-undug board.
func (e *Env) Reset() Board {
	e.board = newBoard(e.Width, e.Height)

	e.mines = make(map[Point]struct{}, e.MineCount)
	e.mineList = make([]Point, 0, e.MineCount)
	for range e.MineCount {
		p := Point{e.rnd.IntN(e.Width), e.rnd.IntN(e.Height)}
		for e.isMine(p.X, p.Y) {
			p = Point{e.rnd.IntN(e.Width), e.rnd.IntN(e.Height)}
		}
		e.mines[p] = struct{}{}
		e.mineList = append(e.mineList, p)
	}

	e.terminal = false
	e.status = Active

	Log.WithFields(logrus.Fields{
		"params": e.GameParams.String(),
	}).Debug("reset")

	return e.board.Clone()
}

// Step decodes a linear action as y = action / Height, x = action % Width.
// The decode only round-trips for square boards; it is kept as is because
// existing agents are trained against it.
func (e *Env) Step(action int) (StepResult, error) {
	if e.terminal {
		return StepResult{}, ErrInvalidState
	}
	if action < 0 {
		return StepResult{}, fmt.Errorf("%w: action %d", ErrOutOfBounds, action)
	}
	return e.StepXY(action%e.Width, action/e.Height)
}

func (e *Env) StepXY(x, y int) (StepResult, error) {
	if e.terminal {
		return StepResult{}, ErrInvalidState
	}
	cell, err := e.cell(x, y)
	if err != nil {
		return StepResult{}, err
	}

	if cell.Dug() {
		Log.WithFields(logrus.Fields{"x": x, "y": y}).Debug("invalid action")
		return StepResult{
			Board:  e.board.Clone(),
			Reward: StepReward + InvalidActionReward,
		}, nil
	}

	return e.Dig(x, y)
}

// Dig reveals the cell at x, y, flood filling zero-count regions.
func (e *Env) Dig(x, y int) (StepResult, error) {
	if e.terminal {
		return StepResult{}, ErrInvalidState
	}
	if _, err := e.cell(x, y); err != nil {
		return StepResult{}, err
	}

	reward := StepReward

	if e.isMine(x, y) {
		e.board[y][x] = Mine
		e.terminal = true
		e.status = Lost
		Log.WithFields(logrus.Fields{"x": x, "y": y}).Debug("mine hit")
		return StepResult{
			Board:    e.board.Clone(),
			Reward:   reward + FailReward,
			Terminal: true,
			Outcome:  &Outcome{Success: false},
		}, nil
	}

	toReveal := []Point{{x, y}}
	for len(toReveal) > 0 {
		p := toReveal[len(toReveal)-1]
		toReveal = toReveal[:len(toReveal)-1]

		if e.board[p.Y][p.X].Dug() {
			continue
		}

		value := e.adjacentMines(p.X, p.Y)
		e.board[p.Y][p.X] = CellState(value)

		if value == 0 {
			e.forEachNeighbour(p.X, p.Y, func(i, j int) {
				toReveal = append(toReveal, Point{i, j})
			})
		}
	}

	result := StepResult{Reward: reward}
	if e.onlyMinesLeft() {
		e.terminal = true
		e.status = Won
		result.Reward += SuccessReward
		result.Terminal = true
		result.Outcome = &Outcome{Success: true}
		Log.Debug("only mines left")
	}
	result.Board = e.board.Clone()

	return result, nil
}

func (e *Env) Board() (Board, error) {
	if e.board == nil {
		return nil, ErrNotInitialized
	}
	return e.board.Clone(), nil
}

// AdjacentMines counts mines among the up to 8 neighbours of x, y.
func (e *Env) AdjacentMines(x, y int) (int, error) {
	if _, err := e.cell(x, y); err != nil {
		return 0, err
	}
	return e.adjacentMines(x, y), nil
}

func (e *Env) OnlyMinesLeft() (bool, error) {
	if e.board == nil {
		return false, ErrNotInitialized
	}
	return e.onlyMinesLeft(), nil
}

// Mines returns a copy of the current mine layout in placement order.
func (e *Env) Mines() []Point {
	if e.mineList == nil {
		return nil
	}
	return append([]Point(nil), e.mineList...)
}

// UndugCells lists every cell that a step would not penalise as invalid.
func (e *Env) UndugCells() []Point {
	var cells []Point
	for y, row := range e.board {
		for x, cell := range row {
			if !cell.Dug() {
				cells = append(cells, Point{x, y})
			}
		}
	}
	return cells
}

func (e *Env) cell(x, y int) (CellState, error) {
	if e.board == nil {
		return Undug, ErrNotInitialized
	}
	if !e.ValidatePosition(x, y) {
		return Undug, fmt.Errorf("%w: %s on %dx%d board",
			ErrOutOfBounds, Point{x, y}, e.Width, e.Height)
	}
	return e.board[y][x], nil
}

func (e *Env) isMine(x, y int) bool {
	_, ok := e.mines[Point{x, y}]
	return ok
}

func (e *Env) forEachNeighbour(x, y int, f func(i, j int)) {
	for j := y - 1; j <= y+1; j++ {
		if j < 0 || j >= e.Height {
			continue
		}
		for i := x - 1; i <= x+1; i++ {
			if (i == x && j == y) || i < 0 || i >= e.Width {
				continue
			}
			f(i, j)
		}
	}
}

func (e *Env) adjacentMines(x, y int) (n int) {
	e.forEachNeighbour(x, y, func(i, j int) {
		if e.isMine(i, j) {
			n++
		}
	})
	return
}

func (e *Env) onlyMinesLeft() bool {
	for y := range e.Height {
		for x := range e.Width {
			if !e.board[y][x].Dug() && !e.isMine(x, y) {
				return false
			}
		}
	}
	return true
}
