package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/emrgen/glossary/internal/errs"
)

type listResponse[T any] struct {
	Results []T `json:"results"`
	Count   int `json:"count"`
}

type message struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.Errorf("error encoding response: %v", err)
	}
}

// writeError maps the taxonomy 1:1 to status codes. Internal failures are
// logged with full detail but answered with a generic message.
func writeError(w http.ResponseWriter, err error) {
	var status int
	switch errs.KindOf(err) {
	case errs.KindNotFound:
		status = http.StatusNotFound
	case errs.KindConflict:
		status = http.StatusConflict
	case errs.KindInvalid:
		status = http.StatusUnprocessableEntity
	default:
		status = http.StatusInternalServerError
		var e *errs.Error
		if errors.As(err, &e) && e.Unwrap() != nil {
			logrus.Errorf("internal error: %v", e.Unwrap())
		} else {
			logrus.Errorf("internal error: %v", err)
		}
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}
