package http

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/hlog"

	"github.com/quantonganh/leadmagnet"
)

const invalidBodyMessage = "Invalid request body"

func (s *Server) subscribeHandler(w http.ResponseWriter, r *http.Request) error {
	var req leadmagnet.SubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return NewError(err, http.StatusBadRequest, invalidBodyMessage)
	}

	logger := hlog.FromRequest(r)
	logger.Info().Msg("Handling lead-capture submission")

	result, err := s.SubmissionService.Submit(r.Context(), req.FullName, req.Email)
	if err != nil {
		if leadmagnet.ErrorCode(err) != leadmagnet.ErrInvalid {
			return err
		}

		var ve leadmagnet.ValidationErrors
		errors.As(err, &ve)
		return &Error{
			Cause:   err,
			Message: leadmagnet.ErrorMessage(err),
			Fields:  ve,
			Status:  http.StatusBadRequest,
		}
	}

	writeJSONResponse(w, http.StatusOK, result)

	return nil
}

func (s *Server) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if s.HealthChecker == nil {
		writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	status := s.HealthChecker.Status()
	if !status.OK && !status.CheckedAt.IsZero() {
		writeJSONResponse(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "unavailable",
			"store":  status,
		})
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"store":  status,
	})
}

func writeJSONResponse(w http.ResponseWriter, statusCode int, response interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	//nolint:errcheck
	json.NewEncoder(w).Encode(response)
}
