// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// AskRequest is the body of POST /ask.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse is the reply to POST /ask.
type AskResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

const (
	msgEmptyQuestion = "Question cannot be empty"
	msgBadRequest    = "Invalid request body"
	msgNotReady      = "Assistant is still loading the manual"
	msgInternal      = "Internal error processing question"
)

// handleAsk answers a question from the manual.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, msgBadRequest, http.StatusBadRequest)
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		jsonError(w, msgEmptyQuestion, http.StatusBadRequest)
		return
	}

	state := s.ready.Load()
	if state == nil {
		jsonError(w, msgNotReady, http.StatusServiceUnavailable)
		return
	}

	answer, err := state.answerer.Ask(r.Context(), question)
	if err != nil {
		s.log.Error("error answering question", "err", err, "request_id", middleware.GetReqID(r.Context()))
		jsonError(w, msgInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, AskResponse{Question: question, Answer: answer})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"detail": msg})
}
