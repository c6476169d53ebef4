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


package googleai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/poiesic/manualqa/ai"
	"github.com/poiesic/manualqa/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

// recordingTransport captures request bodies and answers every call with a
// fixed embedding.
type recordingTransport struct {
	mu     sync.Mutex
	bodies []map[string]any
	paths  []string
}

func (rt *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	data, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, err
	}
	rt.mu.Lock()
	rt.bodies = append(rt.bodies, body)
	rt.paths = append(rt.paths, req.URL.Path)
	rt.mu.Unlock()

	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(`{"embedding":{"values":[0.5,0.25]}}`)),
		Request:    req,
	}, nil
}

func newRecordingProvider(t *testing.T) (*Provider, *recordingTransport) {
	t.Helper()
	rt := &recordingTransport{}
	p, err := newProvider(context.Background(), ai.GoogleAIConfig("test-key"),
		option.WithHTTPClient(&http.Client{Transport: rt}))
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p, rt
}

func TestNewProvider_RequiresAPIKey(t *testing.T) {
	_, err := NewProvider(context.Background(), ai.GoogleAIConfig(""))
	assert.ErrorContains(t, err, "APIKey is required")
}

func TestEmbedder_SendsTaskTypePerRole(t *testing.T) {
	p, rt := newRecordingProvider(t)
	ctx := context.Background()

	vector, err := p.Embedder().EmbedText(ctx, "hello", core.RoleDocument)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.25}, vector)

	_, err = p.Embedder().EmbedText(ctx, "hello", core.RoleQuery)
	require.NoError(t, err)

	require.Len(t, rt.bodies, 2)
	assert.Contains(t, rt.paths[0], ":embedContent")
	assert.EqualValues(t, genai.TaskTypeRetrievalDocument, rt.bodies[0]["taskType"])
	assert.EqualValues(t, genai.TaskTypeRetrievalQuery, rt.bodies[1]["taskType"])
	assert.NotEqual(t, rt.bodies[0], rt.bodies[1])
}

func TestEmbedder_InvalidRole(t *testing.T) {
	p, rt := newRecordingProvider(t)

	_, err := p.Embedder().EmbedText(context.Background(), "hello", core.Role(0))
	assert.ErrorIs(t, err, core.ErrInvalidRole)
	assert.Empty(t, rt.bodies)
}

func TestTaskType(t *testing.T) {
	assert.Equal(t, genai.TaskTypeRetrievalDocument, taskType(core.RoleDocument))
	assert.Equal(t, genai.TaskTypeRetrievalQuery, taskType(core.RoleQuery))
}
