package server

import (
	"net/http"
	"time"

	"justus/observability"
)

type healthResponse struct {
	Status      string                      `json:"status"`
	Uptime      string                      `json:"uptime"`
	Users       int                         `json:"users"`
	Messages    int                         `json:"messages"`
	Connections int                         `json:"connections"`
	Process     *observability.ProcessStats `json:"process,omitempty"`
	Error       string                      `json:"error,omitempty"`
}

// handleHealth reports 503 as soon as the store cannot answer.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{
		Status:      "UP",
		Uptime:      time.Since(s.started).Round(time.Second).String(),
		Connections: s.hub.Stats().Connections,
	}
	if proc, err := observability.SampleProcess(); err == nil {
		resp.Process = &proc
	} else {
		s.log.Debug("Process sampling unavailable", "error", err)
	}

	status := http.StatusOK
	users, err := s.probe.CountUsers()
	if err == nil {
		resp.Users = users
		resp.Messages, err = s.probe.CountMessages()
	}
	if err != nil {
		s.log.Error("Health check failed", "error", err)
		resp.Status = "DOWN"
		resp.Error = "store unavailable"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
