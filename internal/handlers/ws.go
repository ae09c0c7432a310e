package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// ConnectWS upgrades to a websocket on which an agent sends one command per
// line and receives one JSON reply per command.
func (h EnvHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		sendError(w, h.log, err)
		return
	}

	c, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Error("upgrade")
		return
	}
	defer c.Close()

	log := h.log.WithField("env_id", s.ID)
	log.Debug("agent connected")

	for {
		if h.ws.Idle > 0 {
			c.SetReadDeadline(time.Now().Add(h.ws.Idle))
		}
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("read")
			}
			break
		}
		if mt != websocket.TextMessage {
			c.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseUnsupportedData, "text only"))
			break
		}

		for _, line := range strings.Split(strings.TrimSpace(string(message)), "\n") {
			log.WithField("command", line).Debug("\t>")
			reply, ep := executeCommand(s, line)
			h.recordEpisode(r.Context(), ep)
			if err := c.WriteJSON(reply); err != nil {
				log.WithError(err).Error("write")
				return
			}
		}
	}

	log.WithFields(logrus.Fields{"status": s.Snapshot().Status}).Debug("agent disconnected")
}
