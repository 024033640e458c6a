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

package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PostSendsCredentialHeaders(t *testing.T) {
	var gotHeaders http.Header
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewClient(Credentials{
		Authorization: "Bearer secret",
		TokenID:       "tid",
		TokenKey:      "tkey",
	}, 5*time.Second)

	resp, err := client.Post(context.Background(), server.URL, map[string]string{"input": "hello"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
	assert.Equal(t, "Bearer secret", gotHeaders.Get("Authorization"))
	assert.Equal(t, "tid", gotHeaders.Get("Token-id"))
	assert.Equal(t, "tkey", gotHeaders.Get("Token-key"))
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, "hello", gotBody["input"])
}

func TestClient_PostReturnsStatusWithoutClassifying(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	}))
	defer server.Close()

	client := NewClient(Credentials{}, 5*time.Second)

	resp, err := client.Post(context.Background(), server.URL, map[string]string{})
	require.NoError(t, err, "an HTTP response is not a transport error")
	assert.Equal(t, http.StatusTooManyRequests, resp.Status)
	assert.Equal(t, "slow down", string(resp.Body))
}

func TestClient_PostTransportError(t *testing.T) {
	client := NewClient(Credentials{}, time.Second)

	// Closed server: connection refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := client.Post(context.Background(), url, map[string]string{})
	require.Error(t, err)
}

func TestLoadCredentials_SelectsByName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api-keys.json")
	content := `[
		{"llmApiName": "hackathon-embedding", "authorization": "Bearer a", "tokenId": "1", "tokenKey": "k1"},
		{"llmApiName": "hackathon-small", "authorization": "Bearer b", "tokenId": "2", "tokenKey": "k2"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	creds, err := LoadCredentials(path)
	require.NoError(t, err)
	require.Len(t, creds, 2)

	embed, err := SelectCredentials(creds, "embed")
	require.NoError(t, err)
	assert.Equal(t, "Bearer a", embed.Authorization)

	small, err := SelectCredentials(creds, "small")
	require.NoError(t, err)
	assert.Equal(t, "2", small.TokenID)

	_, err = SelectCredentials(creds, "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestLoadCredentials_MissingFile(t *testing.T) {
	_, err := LoadCredentials(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
