package handlers

import (
	"fmt"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-gym/internal/mines"
	"github.com/vancomm/minesweeper-gym/internal/registry"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

type CreateEnvDTO struct {
	Width     int     `schema:"width,required"`
	Height    int     `schema:"height,required"`
	MineCount int     `schema:"mine_count,required"`
	Seed      *uint64 `schema:"seed"`
}

func ParseCreateEnvDTO(src map[string][]string) (CreateEnvDTO, error) {
	var dto CreateEnvDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return dto, fmt.Errorf("%w: %w", mines.ErrInvalidParams, err)
	}
	return dto, nil
}

func (dto CreateEnvDTO) Params() mines.GameParams {
	return mines.GameParams{
		Width:     dto.Width,
		Height:    dto.Height,
		MineCount: dto.MineCount,
	}
}

// StepDTO holds either a linear action or an explicit x, y pair.
type StepDTO struct {
	Action *int `schema:"action"`
	X      *int `schema:"x"`
	Y      *int `schema:"y"`
}

func ParseStepDTO(src map[string][]string) (StepDTO, error) {
	var dto StepDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return dto, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if dto.Action != nil {
		if dto.X != nil || dto.Y != nil {
			return dto, fmt.Errorf("%w: step takes either action or x and y, not both", ErrBadRequest)
		}
		return dto, nil
	}
	if dto.X == nil || dto.Y == nil {
		return dto, fmt.Errorf("%w: step needs either action or both x and y", ErrBadRequest)
	}
	return dto, nil
}

type EpisodeDTO struct {
	Steps       int   `json:"steps"`
	TotalReward int   `json:"total_reward"`
	Success     bool  `json:"success"`
	StartedAt   int64 `json:"started_at"`
	EndedAt     int64 `json:"ended_at"`
}

func NewEpisodeDTO(ep *registry.Episode) *EpisodeDTO {
	if ep == nil {
		return nil
	}
	return &EpisodeDTO{
		Steps:       ep.Steps,
		TotalReward: ep.TotalReward,
		Success:     ep.Success,
		StartedAt:   ep.StartedAt.UnixMilli(),
		EndedAt:     ep.EndedAt.UnixMilli(),
	}
}

type StepResponseDTO struct {
	mines.StepResult
	Status  string      `json:"status"`
	Episode *EpisodeDTO `json:"episode,omitempty"`
}

type ResetResponseDTO struct {
	Board  mines.Board `json:"board"`
	Status string      `json:"status"`
}
