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
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnswerer struct {
	answer   string
	err      error
	panicMsg string
	asked    []string
}

func (s *stubAnswerer) Ask(_ context.Context, question string) (string, error) {
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	s.asked = append(s.asked, question)
	return s.answer, s.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func post(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestAsk_ReturnsAnswer(t *testing.T) {
	stub := &stubAnswerer{answer: "Click Print."}
	s := NewServer(quietLogger())
	s.SetAnswerer(stub)

	rec := post(t, s, `{"question":"  How do I print?  "}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decode(t, rec)
	assert.Equal(t, "How do I print?", body["question"])
	assert.Equal(t, "Click Print.", body["answer"])
	assert.Equal(t, []string{"How do I print?"}, stub.asked)
}

func TestAsk_EmptyQuestion(t *testing.T) {
	stub := &stubAnswerer{}
	s := NewServer(quietLogger())
	s.SetAnswerer(stub)

	for _, body := range []string{`{"question":"   "}`, `{}`} {
		rec := post(t, s, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Question cannot be empty", decode(t, rec)["detail"])
	}
	assert.Empty(t, stub.asked)
}

func TestAsk_MalformedBody(t *testing.T) {
	s := NewServer(quietLogger())
	rec := post(t, s, `{"question":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAsk_NotReady(t *testing.T) {
	s := NewServer(quietLogger())
	assert.False(t, s.Ready())

	rec := post(t, s, `{"question":"hello"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAsk_InternalError(t *testing.T) {
	s := NewServer(quietLogger())
	s.SetAnswerer(&stubAnswerer{err: errors.New("provider exploded")})

	rec := post(t, s, `{"question":"hello"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Internal error processing question", body["detail"])
	assert.NotContains(t, rec.Body.String(), "exploded")
}

func TestAsk_PanicRecovered(t *testing.T) {
	s := NewServer(quietLogger())
	s.SetAnswerer(&stubAnswerer{panicMsg: "boom"})

	rec := post(t, s, `{"question":"hello"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealth(t *testing.T) {
	s := NewServer(quietLogger())

	get := func() string {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		return decode(t, rec)["status"]
	}

	assert.Equal(t, "starting", get())
	s.SetAnswerer(&stubAnswerer{})
	assert.Equal(t, "ok", get())
}

func TestAsk_MethodNotAllowed(t *testing.T) {
	s := NewServer(quietLogger())
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ask", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	s := NewServer(quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()
	assert.NoError(t, <-done)
}
