package mines

import (
	"fmt"
	"strings"
)

type GameParams struct {
	Width     int `json:"width"`
	Height    int `json:"height"`
	MineCount int `json:"mine_count"`
}

func (p GameParams) Unpack() (w int, h int, mc int) {
	return p.Width, p.Height, p.MineCount
}

// GameParams implements [fmt.Stringer]
func (p GameParams) String() string {
	return fmt.Sprintf("%d:%d:%d", p.Width, p.Height, p.MineCount)
}

// ParseParams reads parameters in the "width:height:mines" form produced by
// [GameParams.String].
func ParseParams(s string) (*GameParams, error) {
	p := &GameParams{}
	n, err := fmt.Sscanf(
		strings.ReplaceAll(s, ":", " "), "%d %d %d",
		&p.Width, &p.Height, &p.MineCount,
	)
	if n != 3 || err != nil {
		return nil, fmt.Errorf("could not parse game params %q: %w", s, ErrInvalidParams)
	}
	return p, p.Validate()
}

// Validate rejects parameters that cannot produce a playable board. A mine
// count of width*height or more would never finish placing mines.
func (p GameParams) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: board must be at least 1x1, got %dx%d",
			ErrInvalidParams, p.Width, p.Height)
	}
	if p.MineCount < 0 || p.MineCount >= p.Width*p.Height {
		return fmt.Errorf("%w: mine count must be in [0, %d), got %d",
			ErrInvalidParams, p.Width*p.Height, p.MineCount)
	}
	return nil
}

func (p GameParams) ValidatePosition(x, y int) bool {
	return 0 <= x && x < p.Width && 0 <= y && y < p.Height
}

func (p GameParams) ActionSpace() int {
	return p.Width * p.Height
}
