package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/relaykit/relaykit/pkg/runner"
	"github.com/relaykit/relaykit/pkg/sink"
	"github.com/relaykit/relaykit/pkg/store"
)

// --- Tools ---

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.registry.List())
}

// --- Status ---

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, struct {
		Mode
		Busy bool `json:"busy"`
	}{s.Mode(), s.runner.Busy()})
}

// --- Runs ---

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs := s.history.Runs()
	if runs == nil {
		runs = []sink.RecordedRun{}
	}
	s.jsonResponse(w, http.StatusOK, runs)
}

// --- Prompt ---

func (s *Server) handlePrompt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err)
		return
	}

	res, err := s.runner.ProcessPrompt(r.Context(), req.Prompt)
	if errors.Is(err, runner.ErrRunActive) {
		s.errorResponse(w, http.StatusConflict, err)
		return
	}
	if err != nil {
		// The stream already carries run_error; report the result envelope
		// with the failure attached.
		s.jsonResponse(w, http.StatusInternalServerError, struct {
			runner.Result
			Error string `json:"error"`
		}{res, err.Error()})
		return
	}
	s.jsonResponse(w, http.StatusOK, res)
}

// --- Config ---

func (s *Server) handleListConfig(w http.ResponseWriter, r *http.Request) {
	values, err := s.settings.List(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err)
		return
	}
	masked := make(map[string]string, len(values))
	for k, v := range values {
		masked[k] = MaskIfSecret(k, v)
	}
	s.jsonResponse(w, http.StatusOK, masked)
}

func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err)
		return
	}
	if !store.KnownKey(req.Key) {
		s.errorResponse(w, http.StatusBadRequest, errors.New("unrecognized settings key: "+req.Key))
		return
	}

	var err error
	if req.Value == "" {
		err = s.settings.Delete(r.Context(), req.Key)
	} else {
		err = s.settings.Set(r.Context(), req.Key, req.Value)
	}
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err)
		return
	}

	mode, err := s.rewire(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err)
		return
	}
	s.setMode(mode)
	s.jsonResponse(w, http.StatusOK, mode)
}

// MaskIfSecret hides all but the tail of values stored under key names
// that look like credentials.
func MaskIfSecret(key, value string) string {
	if !strings.HasSuffix(key, "_key") && !strings.HasSuffix(key, ".api_key") {
		return value
	}
	if len(value) <= 4 {
		return "****"
	}
	return "****" + value[len(value)-4:]
}
