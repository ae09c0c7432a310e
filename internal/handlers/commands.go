package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/vancomm/minesweeper-gym/internal/mines"
	"github.com/vancomm/minesweeper-gym/internal/registry"
)

// Maps known commands to number of arguments
var commandNargs = map[string]int{
	"r": 0, // reset
	"s": 1, // step by linear action
	"d": 2, // dig x y
	"p": 0, // print board
}

type command struct {
	name string
	args []int
}

func parseCommand(line string) (command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return command{}, errors.New("empty command")
	}
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return command{}, errors.New("unknown command")
	}
	if nargs != len(parts)-1 {
		return command{}, errors.New("invalid number of arguments")
	}
	c := command{name: parts[0], args: make([]int, nargs)}
	for i, s := range parts[1:] {
		n, err := strconv.Atoi(s)
		if err != nil {
			return command{}, errors.New("arguments must be ints")
		}
		c.args[i] = n
	}
	return c, nil
}

type commandReply struct {
	Command  string         `json:"command"`
	Status   string         `json:"status,omitempty"`
	Board    mines.Board    `json:"board,omitempty"`
	Reward   *int           `json:"reward,omitempty"`
	Terminal bool           `json:"terminal"`
	Outcome  *mines.Outcome `json:"outcome,omitempty"`
	Episode  *EpisodeDTO    `json:"episode,omitempty"`
	Text     string         `json:"text,omitempty"`
	Error    string         `json:"error,omitempty"`
}

func executeCommand(s *registry.Session, line string) (commandReply, *registry.Episode) {
	reply := commandReply{Command: strings.TrimSpace(line)}

	c, err := parseCommand(line)
	if err != nil {
		reply.Error = err.Error()
		return reply, nil
	}

	var (
		res mines.StepResult
		ep  *registry.Episode
	)
	switch c.name {
	case "r":
		reply.Board = s.Reset()
	case "p":
		board, err := s.Board()
		if err != nil {
			reply.Error = err.Error()
		} else {
			reply.Text = board.String()
		}
	case "s":
		res, ep, err = s.Step(c.args[0])
	case "d":
		res, ep, err = s.StepXY(c.args[0], c.args[1])
	}

	snap := s.Snapshot()
	reply.Status = snap.Status
	reply.Terminal = snap.Status != mines.Active.String()

	if c.name == "s" || c.name == "d" {
		if err != nil {
			reply.Error = err.Error()
			return reply, nil
		}
		reward := res.Reward
		reply.Board = res.Board
		reply.Reward = &reward
		reply.Terminal = res.Terminal
		reply.Outcome = res.Outcome
		reply.Episode = NewEpisodeDTO(ep)
	}

	return reply, ep
}
