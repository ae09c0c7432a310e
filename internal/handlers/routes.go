package handlers

import "net/http"

func (h *EnvHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /env", h.Create)
	mux.HandleFunc("GET /env", h.List)
	mux.HandleFunc("GET /env/{id}", h.Fetch)
	mux.HandleFunc("DELETE /env/{id}", h.Delete)
	mux.HandleFunc("POST /env/{id}/reset", h.Reset)
	mux.HandleFunc("POST /env/{id}/step", h.Step)
	mux.HandleFunc("GET /env/{id}/board", h.Render)
	mux.HandleFunc("/env/{id}/connect", h.ConnectWS)

	mux.HandleFunc("GET /episodes", h.ListEpisodes)
	mux.HandleFunc("GET /episodes/stats", h.EpisodeStats)
}
