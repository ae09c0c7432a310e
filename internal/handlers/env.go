package handlers

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-gym/internal/config"
	"github.com/vancomm/minesweeper-gym/internal/mines"
	"github.com/vancomm/minesweeper-gym/internal/registry"
	"github.com/vancomm/minesweeper-gym/internal/repository"
)

// EpisodeStore persists finished episodes. A nil store disables the
// episode log.
type EpisodeStore interface {
	InsertEpisode(context.Context, *registry.Episode) (*repository.Episode, error)
	ListEpisodes(context.Context, repository.EpisodeFilter) ([]repository.Episode, error)
	GetEpisodeStats(context.Context, repository.EpisodeFilter) ([]repository.EpisodeStats, error)
}

type EnvHandler struct {
	log      *logrus.Logger
	registry *registry.Registry
	episodes EpisodeStore
	ws       *config.WebSocket
}

func NewEnvHandler(
	log *logrus.Logger,
	reg *registry.Registry,
	episodes EpisodeStore,
	ws *config.WebSocket,
) *EnvHandler {
	return &EnvHandler{
		log:      log,
		registry: reg,
		episodes: episodes,
		ws:       ws,
	}
}

func (h EnvHandler) session(r *http.Request) (*registry.Session, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", registry.ErrNotFound, err)
	}
	return h.registry.Get(id)
}

// recordEpisode stores a finished episode. Storage failures never fail the
// step that produced the episode.
func (h EnvHandler) recordEpisode(ctx context.Context, ep *registry.Episode) {
	if ep == nil {
		return
	}
	log := h.log.WithFields(logrus.Fields{
		"env_id":       ep.EnvID,
		"steps":        ep.Steps,
		"total_reward": ep.TotalReward,
		"success":      ep.Success,
	})
	log.Info("episode finished")

	if h.episodes == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if _, err := h.episodes.InsertEpisode(ctx, ep); err != nil {
		log.WithError(err).Error("unable to record episode")
	}
}

func (h EnvHandler) Create(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseCreateEnvDTO(r.URL.Query())
	if err != nil {
		sendError(w, h.log, err)
		return
	}

	var rnd *rand.Rand
	if dto.Seed != nil {
		rnd = mines.NewRand(*dto.Seed)
	}

	s, err := h.registry.Create(dto.Params(), rnd)
	if err != nil {
		sendError(w, h.log, err)
		return
	}

	sendStatusJSON(w, h.log, http.StatusCreated, s.Snapshot())
}

func (h EnvHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions := h.registry.List()
	snaps := make([]registry.Snapshot, 0, len(sessions))
	for _, s := range sessions {
		snap := s.Snapshot()
		snap.Board = nil
		snaps = append(snaps, snap)
	}
	sendJSONOrLog(w, h.log, snaps)
}

func (h EnvHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		sendError(w, h.log, err)
		return
	}
	sendJSONOrLog(w, h.log, s.Snapshot())
}

func (h EnvHandler) Delete(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		sendError(w, h.log, err)
		return
	}
	if err := h.registry.Delete(s.ID); err != nil {
		sendError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h EnvHandler) Reset(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		sendError(w, h.log, err)
		return
	}

	board := s.Reset()

	sendJSONOrLog(w, h.log, ResetResponseDTO{
		Board:  board,
		Status: mines.Active.String(),
	})
}

func (h EnvHandler) Step(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		sendError(w, h.log, err)
		return
	}

	dto, err := ParseStepDTO(r.URL.Query())
	if err != nil {
		sendError(w, h.log, err)
		return
	}

	var (
		res mines.StepResult
		ep  *registry.Episode
	)
	if dto.Action != nil {
		res, ep, err = s.Step(*dto.Action)
	} else {
		res, ep, err = s.StepXY(*dto.X, *dto.Y)
	}
	if err != nil {
		sendError(w, h.log, err)
		return
	}

	h.recordEpisode(r.Context(), ep)

	sendJSONOrLog(w, h.log, StepResponseDTO{
		StepResult: res,
		Status:     s.Snapshot().Status,
		Episode:    NewEpisodeDTO(ep),
	})
}

// Render writes the board as plain text, one row per line.
func (h EnvHandler) Render(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		sendError(w, h.log, err)
		return
	}
	board, err := s.Board()
	if err != nil {
		sendError(w, h.log, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(board.String())); err != nil {
		h.log.WithError(err).Error("unable to send board")
	}
}
