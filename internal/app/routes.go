package app

import (
	"github.com/vancomm/minesweeper-gym/internal/handlers"
	"github.com/vancomm/minesweeper-gym/internal/repository"
)

func (a *App) loadRoutes() {
	var episodes handlers.EpisodeStore
	if a.db != nil {
		episodes = repository.New(a.db)
	}

	env := handlers.NewEnvHandler(a.log, a.registry, episodes, a.ws)
	env.Register(a.router)
}
