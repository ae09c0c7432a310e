package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/vancomm/minesweeper-gym/internal/mines"
	"github.com/vancomm/minesweeper-gym/internal/repository"
)

var ErrNoEpisodeLog = errors.New("episode log is not configured")

type EpisodeFilterDTO struct {
	EnvID     *string `schema:"env_id"`
	Width     *int    `schema:"width"`
	Height    *int    `schema:"height"`
	MineCount *int    `schema:"mine_count"`
	Success   *bool   `schema:"success"`
	Limit     int     `schema:"limit"`
}

func ParseEpisodeFilter(src map[string][]string) (repository.EpisodeFilter, error) {
	var dto EpisodeFilterDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return repository.EpisodeFilter{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	filter := repository.EpisodeFilter{
		EnvID:   dto.EnvID,
		Success: dto.Success,
		Limit:   dto.Limit,
	}
	switch {
	case dto.Width != nil && dto.Height != nil && dto.MineCount != nil:
		filter.GameParams = &mines.GameParams{
			Width:     *dto.Width,
			Height:    *dto.Height,
			MineCount: *dto.MineCount,
		}
	case dto.Width != nil || dto.Height != nil || dto.MineCount != nil:
		return filter, fmt.Errorf("%w: width, height and mine_count go together", ErrBadRequest)
	}
	return filter, nil
}

func (h EnvHandler) ListEpisodes(w http.ResponseWriter, r *http.Request) {
	if h.episodes == nil {
		sendStatusJSON(w, h.log, http.StatusServiceUnavailable, wrapError(ErrNoEpisodeLog))
		return
	}
	filter, err := ParseEpisodeFilter(r.URL.Query())
	if err != nil {
		sendError(w, h.log, err)
		return
	}
	episodes, err := h.episodes.ListEpisodes(r.Context(), filter)
	if err != nil {
		sendError(w, h.log, err)
		return
	}
	sendJSONOrLog(w, h.log, episodes)
}

func (h EnvHandler) EpisodeStats(w http.ResponseWriter, r *http.Request) {
	if h.episodes == nil {
		sendStatusJSON(w, h.log, http.StatusServiceUnavailable, wrapError(ErrNoEpisodeLog))
		return
	}
	filter, err := ParseEpisodeFilter(r.URL.Query())
	if err != nil {
		sendError(w, h.log, err)
		return
	}
	stats, err := h.episodes.GetEpisodeStats(r.Context(), filter)
	if err != nil {
		sendError(w, h.log, err)
		return
	}
	sendJSONOrLog(w, h.log, stats)
}
