package ingress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cametumbling/wikiracer/internal/racer"
	"go.uber.org/zap"
)

// errorEnvelope is the JSON body written on any non-2xx response.
type errorEnvelope struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorEnvelope{Code: status, Status: "error", Message: message})
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprint(w, "woohoo")
}

// linksRequest is the body of POST /api/links.
type linksRequest struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

func (s *Server) handleRace(w http.ResponseWriter, r *http.Request) {
	var req linksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("can't parse request: %v", err))
		return
	}

	var missing []string
	if req.Source == "" {
		missing = append(missing, "source")
	}
	if req.Destination == "" {
		missing = append(missing, "destination")
	}
	if len(missing) > 0 {
		s.writeError(w, http.StatusBadRequest, "missing required key(s): "+strings.Join(missing, ", "))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	path, err := s.racer.Race(ctx, req.Source, req.Destination)
	if err != nil {
		switch {
		case errors.Is(err, racer.ErrInvalidSource):
			s.writeError(w, http.StatusNotFound, "source does not exist: "+req.Source)
		case errors.Is(err, racer.ErrInvalidDestination):
			s.writeError(w, http.StatusNotFound, "destination does not exist: "+req.Destination)
		default:
			s.logger.Error("race failed",
				zap.String("request_id", requestIDFromContext(r.Context())),
				zap.Error(err))
			s.writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(path)
}
