// Command play runs a uniformly random agent against the environment and
// prints a summary of every episode.
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-gym/internal/logging"
	"github.com/vancomm/minesweeper-gym/internal/mines"
)

var log = logrus.New()

func main() {
	var (
		params     = mines.GameParams{Width: 9, Height: 9, MineCount: 10}
		paramsStr  string
		seed       uint64
		episodes   int
		printState bool
		verbose    bool
	)
	flag.StringVar(&paramsStr, "params", params.String(), "board as width:height:mines")
	flag.Uint64Var(&seed, "seed", 0, "random seed, 0 for a random one")
	flag.IntVar(&episodes, "episodes", 1, "number of episodes to play")
	flag.BoolVar(&printState, "print", false, "print the board after every step")
	flag.BoolVar(&verbose, "v", false, "debug logging")
	flag.Parse()

	if err := logging.Setup(log, logging.Options{Development: verbose}); err != nil {
		log.Fatal(err)
	}
	if err := logging.Setup(mines.Log, logging.Options{Development: verbose}); err != nil {
		log.Fatal(err)
	}

	p, err := mines.ParseParams(paramsStr)
	if err != nil {
		log.Fatal(err)
	}

	var envRand, agentRand *rand.Rand
	if seed != 0 {
		envRand = mines.NewRand(seed)
		agentRand = rand.New(rand.NewPCG(seed, ^seed))
	} else {
		agentRand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	env, err := mines.NewEnv(*p, envRand)
	if err != nil {
		log.Fatal(err)
	}

	var wins int
	for i := range episodes {
		sum, err := play(env, agentRand, printState)
		if err != nil {
			log.Fatal(err)
		}
		if sum.success {
			wins++
		}
		fmt.Fprintf(os.Stdout, "episode %d: steps=%d reward=%d success=%t\n",
			i+1, sum.steps, sum.reward, sum.success)
	}

	log.WithFields(logrus.Fields{
		"params":   p.String(),
		"episodes": episodes,
		"wins":     wins,
	}).Info("done")
}

type summary struct {
	steps, reward int
	success       bool
}

// play runs one episode picking uniformly among undug cells.
func play(env *mines.Env, r *rand.Rand, printState bool) (summary, error) {
	var sum summary

	board := env.Reset()
	if printState {
		fmt.Printf("Num Mines: %d\n%s\n", env.MineCount, board)
	}

	for !env.Terminal() {
		cells := env.UndugCells()
		cell := cells[r.IntN(len(cells))]

		res, err := env.StepXY(cell.X, cell.Y)
		if err != nil {
			return sum, err
		}
		sum.steps++
		sum.reward += res.Reward
		if res.Outcome != nil {
			sum.success = res.Outcome.Success
		}
		if printState {
			fmt.Printf("dig %s reward=%d\n%s\n", cell, res.Reward, res.Board)
		}
	}

	return sum, nil
}
