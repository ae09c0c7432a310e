package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vancomm/minesweeper-gym/internal/mines"
	"github.com/vancomm/minesweeper-gym/internal/registry"
)

var ErrInvalidEpisode = errors.New("episode violates table constraints")

type Episode struct {
	EpisodeID   int64       `json:"episode_id" db:"episode_id"`
	EnvID       string      `json:"env_id" db:"env_id"`
	Width       int         `json:"width" db:"width"`
	Height      int         `json:"height" db:"height"`
	MineCount   int         `json:"mine_count" db:"mine_count"`
	Steps       int         `json:"steps" db:"steps"`
	TotalReward int         `json:"total_reward" db:"total_reward"`
	Success     bool        `json:"success" db:"success"`
	Board       mines.Board `json:"board" db:"board"`
	StartedAt   time.Time   `json:"started_at" db:"started_at"`
	EndedAt     time.Time   `json:"ended_at" db:"ended_at"`
}

const episodeColumns = `
	episode_id, env_id::text AS env_id, width, height, mine_count,
	steps, total_reward, success, board, started_at, ended_at`

func (q *Queries) InsertEpisode(ctx context.Context, ep *registry.Episode) (*Episode, error) {
	board, err := json.Marshal(ep.Board)
	if err != nil {
		return nil, fmt.Errorf("unable to encode board: %w", err)
	}

	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO episode (
			env_id, width, height, mine_count, steps, total_reward, success,
			board, started_at, ended_at
		)
		VALUES (
			@env_id, @width, @height, @mine_count, @steps, @total_reward, @success,
			@board, @started_at, @ended_at
		)
		RETURNING `+episodeColumns,
		pgx.NamedArgs{
			"env_id":       ep.EnvID.String(),
			"width":        ep.Params.Width,
			"height":       ep.Params.Height,
			"mine_count":   ep.Params.MineCount,
			"steps":        ep.Steps,
			"total_reward": ep.TotalReward,
			"success":      ep.Success,
			"board":        board,
			"started_at":   ep.StartedAt,
			"ended_at":     ep.EndedAt,
		},
	)
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Episode])
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidEpisode, pgErr.ConstraintName)
		}
		return nil, err
	}
	return row, nil
}

type EpisodeFilter struct {
	EnvID      *string
	GameParams *mines.GameParams
	Success    *bool
	Limit      int
}

const DefaultLimit = 50

func (f EpisodeFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.EnvID != nil {
		clauses = append(clauses, "env_id = @env_id")
		args["env_id"] = *f.EnvID
	}
	if f.GameParams != nil {
		clauses = append(
			clauses,
			"width = @width",
			"height = @height",
			"mine_count = @mine_count",
		)
		args["width"] = f.GameParams.Width
		args["height"] = f.GameParams.Height
		args["mine_count"] = f.GameParams.MineCount
	}
	if f.Success != nil {
		clauses = append(clauses, "success = @success")
		args["success"] = *f.Success
	}
	return strings.Join(clauses, " AND "), args
}

func (f EpisodeFilter) limit() int {
	if f.Limit <= 0 || f.Limit > 1000 {
		return DefaultLimit
	}
	return f.Limit
}

func (q *Queries) ListEpisodes(ctx context.Context, filter EpisodeFilter) ([]Episode, error) {
	query := "SELECT " + episodeColumns + " FROM episode"
	where, args := filter.WhereClause()
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY ended_at DESC LIMIT @limit"
	args["limit"] = filter.limit()

	rows, _ := q.db.Query(ctx, query, args)
	return pgx.CollectRows(rows, pgx.RowToStructByName[Episode])
}

type EpisodeStats struct {
	Width      int     `json:"width" db:"width"`
	Height     int     `json:"height" db:"height"`
	MineCount  int     `json:"mine_count" db:"mine_count"`
	Episodes   int64   `json:"episodes" db:"episodes"`
	Wins       int64   `json:"wins" db:"wins"`
	MeanReward float64 `json:"mean_reward" db:"mean_reward"`
	MeanSteps  float64 `json:"mean_steps" db:"mean_steps"`
}

// GetEpisodeStats aggregates finished episodes per board configuration.
func (q *Queries) GetEpisodeStats(ctx context.Context, filter EpisodeFilter) ([]EpisodeStats, error) {
	query := `
	SELECT
		width,
		height,
		mine_count,
		count(*) AS episodes,
		count(*) FILTER (WHERE success) AS wins,
		avg(total_reward)::float8 AS mean_reward,
		avg(steps)::float8 AS mean_steps
	FROM episode`
	where, args := filter.WhereClause()
	if where != "" {
		query += " WHERE " + where
	}
	query += `
	GROUP BY width, height, mine_count
	ORDER BY width, height, mine_count`

	rows, _ := q.db.Query(ctx, query, args)
	return pgx.CollectRows(rows, pgx.RowToStructByName[EpisodeStats])
}
