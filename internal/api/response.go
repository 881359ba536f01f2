package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/memobit/labsql"
)

// Generic failure texts. Detail is appended only in debug mode.
const (
	msgDBError  = "There was a DB error."
	msgBadInput = "There was an error."
)

type syncResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      any    `json:"id,omitempty"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func dataResponse(data any) syncResponse {
	return syncResponse{Success: true, Data: data}
}

func okMessage(message string) messageResponse {
	return messageResponse{Success: true, Message: message}
}

func createdResponse(message string, id any) messageResponse {
	return messageResponse{Success: true, Message: message, ID: id}
}

// requestError is a malformed or incomplete request body.
type requestError struct {
	reason string
}

func (e *requestError) Error() string {
	return e.reason
}

func badRequest(format string, args ...any) error {
	return &requestError{reason: fmt.Sprintf(format, args...)}
}

// handlerFunc produces the success envelope of one endpoint or an error.
type handlerFunc func(r *http.Request) (any, error)

// handle is the only place errors become responses.
func (s *Server) handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h(r)
		if err != nil {
			code, body := s.smartError(err)
			s.log.WithFields(logrus.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
				"status": code,
			}).WithError(err).Warn("Request failed")

			writeJSON(w, code, body)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) smartError(err error) (int, errorResponse) {
	code := http.StatusInternalServerError
	message := msgDBError

	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		code = http.StatusBadRequest
		message = msgBadInput
	case errors.Is(err, labsql.ErrContractViolation):
		code = http.StatusBadRequest
		message = msgBadInput
	}

	if s.debug {
		message += " " + err.Error()

		var qerr *labsql.QueryError
		if errors.As(err, &qerr) && qerr.Query != "" {
			message += " -- Last query: " + qerr.Statement()
		}
	}

	return code, errorResponse{Success: false, Error: message}
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
