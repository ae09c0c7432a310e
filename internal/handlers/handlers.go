package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-gym/internal/mines"
	"github.com/vancomm/minesweeper-gym/internal/registry"
	"github.com/vancomm/minesweeper-gym/internal/repository"
)

func SendJSON(w http.ResponseWriter, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	w.Header().Set("Content-Type", "application/json")
	return w.Write(payload)
}

func sendJSONOrLog(w http.ResponseWriter, log logrus.FieldLogger, v any) {
	_, err := SendJSON(w, v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.WithError(err).WithField("response", v).Error("unable to send response")
	}
}

var ErrBadRequest = errors.New("bad request")

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, registry.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, registry.ErrTooManySessions):
		return http.StatusServiceUnavailable
	case errors.Is(err, mines.ErrInvalidState),
		errors.Is(err, mines.ErrNotInitialized):
		return http.StatusConflict
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, mines.ErrInvalidParams),
		errors.Is(err, mines.ErrOutOfBounds),
		errors.Is(err, repository.ErrInvalidEpisode):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// sendError writes err with the status it maps to; unexpected errors are
// logged and hidden from the client.
func sendError(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("request failed")
		err = errors.New(http.StatusText(status))
	}
	sendStatusJSON(w, log, status, wrapError(err))
}

func sendStatusJSON(w http.ResponseWriter, log logrus.FieldLogger, status int, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.WithError(err).WithField("response", v).Error("unable to encode response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		log.WithError(err).Error("unable to send response")
	}
}
