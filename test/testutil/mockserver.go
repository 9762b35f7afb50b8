// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// GraphQLRequest is a decoded GraphQL request body.
type GraphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// Cursor returns the cursor variable, or "" when it was null or absent.
func (r GraphQLRequest) Cursor() string {
	c, _ := r.Variables["cursor"].(string)
	return c
}

// MockServer is a GraphQL endpoint that records requests and answers them
// with a responder function.
type MockServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []GraphQLRequest
	headers  []http.Header
}

// Responder returns the status code and body for a request.
type Responder func(req GraphQLRequest) (int, interface{})

// NewMockServer creates a mock GraphQL server. It is closed when the test ends.
func NewMockServer(t *testing.T, respond Responder) *MockServer {
	t.Helper()
	m := &MockServer{}

	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req GraphQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		m.mu.Lock()
		m.requests = append(m.requests, req)
		m.headers = append(m.headers, r.Header.Clone())
		m.mu.Unlock()

		status, body := respond(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(m.Server.Close)

	return m
}

// NewPagedServer answers issue queries from pages keyed by the cursor
// variable ("" for the first page).
func NewPagedServer(t *testing.T, pages map[string]map[string]interface{}) *MockServer {
	t.Helper()
	return NewMockServer(t, func(req GraphQLRequest) (int, interface{}) {
		page, ok := pages[req.Cursor()]
		if !ok {
			return http.StatusOK, map[string]interface{}{
				"errors": []interface{}{map[string]interface{}{"message": "unknown cursor"}},
			}
		}
		return http.StatusOK, page
	})
}

// NewErrorServer creates a mock server that always returns the specified status.
func NewErrorServer(t *testing.T, statusCode int, message string) *MockServer {
	t.Helper()
	return NewMockServer(t, func(GraphQLRequest) (int, interface{}) {
		return statusCode, map[string]interface{}{"message": message}
	})
}

// Requests returns the requests received so far.
func (m *MockServer) Requests() []GraphQLRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]GraphQLRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// LastHeader returns the headers of the most recent request.
func (m *MockServer) LastHeader() http.Header {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.headers) == 0 {
		return nil
	}
	return m.headers[len(m.headers)-1]
}
