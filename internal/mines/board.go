package mines

import (
	"fmt"
	"strconv"
	"strings"
)

type CellState int8

const (
	Undug CellState = -1
	Mine  CellState = 9
	// 0-8 for a dug cell with given number of mined neighbours
)

func (s CellState) Dug() bool {
	return s != Undug
}

func (s CellState) String() string {
	if 0 <= s && s <= Mine {
		return " " + strconv.Itoa(int(s))
	}
	return strconv.Itoa(int(s))
}

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Board is indexed as board[y][x].
type Board [][]CellState

func newBoard(width, height int) Board {
	b := make(Board, height)
	for y := range b {
		row := make([]CellState, width)
		for x := range row {
			row[x] = Undug
		}
		b[y] = row
	}
	return b
}

// Clone returns a deep copy that shares no rows with b.
func (b Board) Clone() Board {
	if b == nil {
		return nil
	}
	c := make(Board, len(b))
	for y, row := range b {
		c[y] = append([]CellState(nil), row...)
	}
	return c
}

// Board implements [fmt.Stringer]
func (b Board) String() string {
	var sb strings.Builder
	for _, row := range b {
		for _, cell := range row {
			sb.WriteString(cell.String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (b Board) Undug() (count int) {
	for _, row := range b {
		for _, cell := range row {
			if cell == Undug {
				count++
			}
		}
	}
	return
}
