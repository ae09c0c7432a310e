package mines

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Log.SetLevel(logrus.DebugLevel)
	Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	m.Run()
}

// layout resets env and replaces its random mines with the given ones.
func layout(t *testing.T, env *Env, mines ...Point) {
	t.Helper()
	env.Reset()
	env.mines = make(map[Point]struct{}, len(mines))
	env.mineList = nil
	for _, p := range mines {
		env.mines[p] = struct{}{}
		env.mineList = append(env.mineList, p)
	}
}

func newTestEnv(t *testing.T, w, h, m int) *Env {
	t.Helper()
	env, err := NewEnv(GameParams{Width: w, Height: h, MineCount: m}, NewRand(1))
	require.NoError(t, err)
	return env
}

func TestNewEnvValidatesParams(t *testing.T) {
	tests := []struct {
		name   string
		params GameParams
		ok     bool
	}{
		{"9x9(10)", GameParams{9, 9, 10}, true},
		{"1x1(0)", GameParams{1, 1, 0}, true},
		{"3x3(8)", GameParams{3, 3, 8}, true},
		{"3x3(9)", GameParams{3, 3, 9}, false},
		{"negative mines", GameParams{3, 3, -1}, false},
		{"zero width", GameParams{0, 3, 0}, false},
		{"zero height", GameParams{3, 0, 0}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewEnv(test.params, nil)
			if test.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidParams)
			}
		})
	}
}

func TestStepBeforeReset(t *testing.T) {
	env := newTestEnv(t, 3, 3, 1)

	assert.Equal(t, Unstarted, env.Status())
	assert.True(t, env.Terminal())

	_, err := env.Step(0)
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = env.StepXY(0, 0)
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = env.Dig(0, 0)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestReadBeforeReset(t *testing.T) {
	env := newTestEnv(t, 3, 3, 1)

	_, err := env.Board()
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = env.AdjacentMines(1, 1)
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = env.OnlyMinesLeft()
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.Nil(t, env.Mines())
}

func TestResetBoard(t *testing.T) {
	env := newTestEnv(t, 4, 3, 2)
	board := env.Reset()

	require.Len(t, board, 3)
	for _, row := range board {
		require.Len(t, row, 4)
		for _, cell := range row {
			assert.Equal(t, Undug, cell)
		}
	}
	assert.Equal(t, Active, env.Status())
	assert.False(t, env.Terminal())
}

func TestResetMineCardinality(t *testing.T) {
	tests := []GameParams{
		{9, 9, 10},
		{16, 16, 99},
		{30, 16, 170},
		{3, 3, 8},
		{5, 2, 0},
	}

	for _, params := range tests {
		t.Run(params.String(), func(t *testing.T) {
			env, err := NewEnv(params, NewRand(7))
			require.NoError(t, err)

			for range 20 {
				env.Reset()
				mines := env.Mines()
				assert.Len(t, mines, params.MineCount)

				seen := make(map[Point]bool)
				for _, p := range mines {
					assert.True(t, params.ValidatePosition(p.X, p.Y), "mine %s out of bounds", p)
					assert.False(t, seen[p], "duplicate mine %s", p)
					seen[p] = true
				}
			}
		})
	}
}

func TestResetIsDeterministicForSeed(t *testing.T) {
	params := GameParams{9, 9, 10}
	a, err := NewEnv(params, NewRand(42))
	require.NoError(t, err)
	b, err := NewEnv(params, NewRand(42))
	require.NoError(t, err)

	a.Reset()
	b.Reset()
	assert.Equal(t, a.Mines(), b.Mines())
}

func TestAdjacentMines(t *testing.T) {
	env := newTestEnv(t, 3, 3, 2)
	layout(t, env, Point{0, 0}, Point{2, 2})

	want := [][]int{
		{0, 1, 0},
		{1, 2, 1},
		{0, 1, 0},
	}
	for y, row := range want {
		for x, n := range row {
			got, err := env.AdjacentMines(x, y)
			require.NoError(t, err)
			assert.Equal(t, n, got, "at %d:%d", x, y)

			again, err := env.AdjacentMines(x, y)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		}
	}

	_, err := env.AdjacentMines(3, 0)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestDigWinsInOneFlood(t *testing.T) {
	env := newTestEnv(t, 3, 3, 1)
	layout(t, env, Point{2, 2})

	res, err := env.StepXY(0, 0)
	require.NoError(t, err)

	assert.Equal(t, StepReward+SuccessReward, res.Reward)
	assert.Equal(t, 19, res.Reward)
	assert.True(t, res.Terminal)
	require.NotNil(t, res.Outcome)
	assert.True(t, res.Outcome.Success)
	assert.Equal(t, Won, env.Status())

	assert.Equal(t, Board{
		{0, 0, 0},
		{0, 1, 1},
		{0, 1, Undug},
	}, res.Board)

	_, err = env.StepXY(1, 1)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestDigMine(t *testing.T) {
	env := newTestEnv(t, 3, 3, 1)
	layout(t, env, Point{2, 2})

	res, err := env.StepXY(2, 2)
	require.NoError(t, err)

	assert.Equal(t, -21, res.Reward)
	assert.True(t, res.Terminal)
	require.NotNil(t, res.Outcome)
	assert.False(t, res.Outcome.Success)
	assert.Equal(t, Lost, env.Status())

	assert.Equal(t, Mine, res.Board[2][2])
	assert.Equal(t, 8, res.Board.Undug(), "no flood fill on a mine")

	_, err = env.Step(0)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestInvalidAction(t *testing.T) {
	env := newTestEnv(t, 3, 3, 2)
	layout(t, env, Point{2, 2}, Point{0, 2})

	first, err := env.StepXY(1, 1)
	require.NoError(t, err)
	assert.Equal(t, StepReward, first.Reward)
	assert.False(t, first.Terminal)
	assert.Nil(t, first.Outcome)
	assert.Equal(t, CellState(2), first.Board[1][1])

	again, err := env.StepXY(1, 1)
	require.NoError(t, err)
	assert.Equal(t, -6, again.Reward)
	assert.False(t, again.Terminal)
	assert.Nil(t, again.Outcome)
	assert.Equal(t, first.Board, again.Board)
	assert.Equal(t, Active, env.Status())
}

func TestFloodFillStopsAtNumbers(t *testing.T) {
	// mines fill column 2, so the fill from the left must stop at column 1
	env := newTestEnv(t, 5, 4, 4)
	layout(t, env, Point{2, 0}, Point{2, 1}, Point{2, 2}, Point{2, 3})

	res, err := env.StepXY(0, 0)
	require.NoError(t, err)
	assert.False(t, res.Terminal)
	assert.Equal(t, StepReward, res.Reward)

	for y := range 4 {
		assert.Equal(t, CellState(0), res.Board[y][0])
		assert.NotEqual(t, Undug, res.Board[y][1])
		for x := 2; x < 5; x++ {
			assert.Equal(t, Undug, res.Board[y][x], "at %d:%d", x, y)
		}
	}
	assert.Equal(t, CellState(2), res.Board[0][1])
	assert.Equal(t, CellState(3), res.Board[1][1])
}

func TestFloodFillCoverage(t *testing.T) {
	params := GameParams{16, 16, 40}
	env, err := NewEnv(params, NewRand(3))
	require.NoError(t, err)

	for range 50 {
		env.Reset()
		var start *Point
		for y := range params.Height {
			for x := range params.Width {
				if n, _ := env.AdjacentMines(x, y); n == 0 && !env.isMine(x, y) && start == nil {
					start = &Point{x, y}
				}
			}
		}
		if start == nil {
			continue
		}

		res, err := env.StepXY(start.X, start.Y)
		require.NoError(t, err)

		for y, row := range res.Board {
			for x, cell := range row {
				if cell == Undug {
					continue
				}
				assert.False(t, env.isMine(x, y), "mine revealed at %d:%d", x, y)
				n, _ := env.AdjacentMines(x, y)
				assert.Equal(t, CellState(n), cell)
				if n == 0 {
					env.forEachNeighbour(x, y, func(i, j int) {
						assert.NotEqual(t, Undug, res.Board[j][i],
							"zero cell %d:%d left neighbour %d:%d undug", x, y, i, j)
					})
				}
			}
		}
	}
}

func TestWinAcrossSteps(t *testing.T) {
	env := newTestEnv(t, 2, 2, 1)
	layout(t, env, Point{0, 0})

	var total int
	for _, p := range []Point{{1, 0}, {0, 1}} {
		res, err := env.StepXY(p.X, p.Y)
		require.NoError(t, err)
		assert.False(t, res.Terminal)
		total += res.Reward
	}
	ok, err := env.OnlyMinesLeft()
	require.NoError(t, err)
	assert.False(t, ok)

	res, err := env.StepXY(1, 1)
	require.NoError(t, err)
	assert.True(t, res.Terminal)
	assert.Equal(t, StepReward+SuccessReward, res.Reward)
	require.NotNil(t, res.Outcome)
	assert.True(t, res.Outcome.Success)
	total += res.Reward
	assert.Equal(t, 17, total)

	ok, err = env.OnlyMinesLeft()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStepDecodesAction(t *testing.T) {
	env := newTestEnv(t, 3, 3, 1)
	layout(t, env, Point{2, 2})

	// 7 -> y = 7 / 3 = 2, x = 7 % 3 = 1
	res, err := env.Step(7)
	require.NoError(t, err)
	assert.Equal(t, CellState(1), res.Board[2][1])
	assert.Equal(t, 8, res.Board.Undug())

	_, err = env.Step(9)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = env.Step(-1)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestStepDecodeNonSquare(t *testing.T) {
	// width 4, height 2: action 5 -> y = 5 / 2 = 2, x = 5 % 4 = 1, off board
	env := newTestEnv(t, 4, 2, 0)
	env.Reset()

	_, err := env.Step(5)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	// action 3 -> y = 1, x = 3
	res, err := env.Step(3)
	require.NoError(t, err)
	assert.True(t, res.Terminal, "no mines, one dig clears the board")
}

func TestSnapshotsAreCopies(t *testing.T) {
	env := newTestEnv(t, 3, 3, 2)
	layout(t, env, Point{2, 2}, Point{0, 2})

	res, err := env.StepXY(1, 2)
	require.NoError(t, err)
	assert.Equal(t, CellState(2), res.Board[2][1])
	assert.Equal(t, 8, res.Board.Undug())

	res.Board[0][0] = Mine
	board, err := env.Board()
	require.NoError(t, err)
	assert.Equal(t, Undug, board[0][0], "caller mutation leaked into env")

	// (1, 0) has no mined neighbours and floods the top two rows
	next, err := env.StepXY(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, next.Board.Undug())

	assert.Equal(t, Undug, res.Board[1][1], "env mutation leaked into snapshot")
	assert.Equal(t, Undug, res.Board[0][1])
	assert.Equal(t, Undug, board[1][1])
}

func TestResetAfterTerminal(t *testing.T) {
	env := newTestEnv(t, 3, 3, 1)
	layout(t, env, Point{2, 2})

	_, err := env.StepXY(2, 2)
	require.NoError(t, err)
	assert.Equal(t, Lost, env.Status())

	board := env.Reset()
	assert.Equal(t, 9, board.Undug())
	assert.Equal(t, Active, env.Status())
	assert.Len(t, env.Mines(), 1)
}

func TestUndugCells(t *testing.T) {
	env := newTestEnv(t, 3, 3, 2)
	layout(t, env, Point{2, 2}, Point{0, 2})

	assert.Len(t, env.UndugCells(), 9)
	_, err := env.StepXY(1, 1)
	require.NoError(t, err)
	cells := env.UndugCells()
	assert.Len(t, cells, 8)
	assert.NotContains(t, cells, Point{1, 1})
}
