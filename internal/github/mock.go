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

package github

import (
	"context"
	"fmt"
	"sync"

	relaierrors "github.com/sirseerhq/sirseer-issues/internal/errors"
	"github.com/sirseerhq/sirseer-issues/internal/state"
)

// MockClient is a mock implementation of the GitHub Client interface for testing.
// Pages are scripted by cursor: the entry under "" is the first page, and the
// entry under a page's end cursor is the page that follows it.
type MockClient struct {
	mu sync.Mutex

	// Pages to return, keyed by the After cursor of the request.
	Pages map[string]*state.Fetched

	// Starred is the viewer's star state the mutations flip.
	Starred bool

	// StarErrors are returned inside the mutation payload when set.
	StarErrors []state.GraphError

	// Error to return from every call
	Error error

	// Behavior flags
	ShouldFailAuth     bool
	ShouldFailNetwork  bool
	ShouldFailNotFound bool

	// BeforeFetch and BeforeStar run before a call is answered. Returning an
	// error fails the call; blocking lets a test interleave calls.
	BeforeFetch func(ctx context.Context, opts FetchOptions) error
	BeforeStar  func(ctx context.Context, repoID string) error

	// Track calls for verification
	CallCount     int
	StarCallCount int
	LastOwner     string
	LastRepo      string
	LastOpts      FetchOptions
	LastRepoID    string
}

// NewMockClient creates a new mock client with no scripted pages.
func NewMockClient() *MockClient {
	return &MockClient{
		Pages: make(map[string]*state.Fetched),
	}
}

// FetchIssues implements the Client interface
func (m *MockClient) FetchIssues(ctx context.Context, owner, repo string, opts FetchOptions) (*state.Fetched, error) {
	m.mu.Lock()
	m.CallCount++
	m.LastOwner = owner
	m.LastRepo = repo
	m.LastOpts = opts
	hook := m.BeforeFetch
	m.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, opts); err != nil {
			return nil, err
		}
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure(owner + "/" + repo); err != nil {
		return nil, err
	}

	page, ok := m.Pages[opts.After]
	if !ok {
		return &state.Fetched{
			Path:   owner + "/" + repo,
			Errors: []state.GraphError{{Message: fmt.Sprintf("no page scripted for cursor %q", opts.After)}},
		}, nil
	}

	out := *page
	out.Path = owner + "/" + repo
	return &out, nil
}

// AddStar implements the Client interface
func (m *MockClient) AddStar(ctx context.Context, repoID string) (*state.StarResult, error) {
	return m.star(ctx, repoID, true)
}

// RemoveStar implements the Client interface
func (m *MockClient) RemoveStar(ctx context.Context, repoID string) (*state.StarResult, error) {
	return m.star(ctx, repoID, false)
}

func (m *MockClient) star(ctx context.Context, repoID string, starred bool) (*state.StarResult, error) {
	m.mu.Lock()
	m.StarCallCount++
	m.LastRepoID = repoID
	hook := m.BeforeStar
	m.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, repoID); err != nil {
			return nil, err
		}
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure(repoID); err != nil {
		return nil, err
	}
	if len(m.StarErrors) > 0 {
		return &state.StarResult{ViewerHasStarred: m.Starred, Errors: m.StarErrors}, nil
	}

	m.Starred = starred
	return &state.StarResult{ViewerHasStarred: starred}, nil
}

// failure must be called with m.mu held.
func (m *MockClient) failure(target string) error {
	if m.ShouldFailAuth {
		return fmt.Errorf("authentication failed: %w", relaierrors.ErrInvalidToken)
	}
	if m.ShouldFailNetwork {
		return fmt.Errorf("network timeout: %w", relaierrors.ErrNetworkFailure)
	}
	if m.ShouldFailNotFound {
		return fmt.Errorf("%s not found: %w", target, relaierrors.ErrRepoNotFound)
	}
	return m.Error
}

// Calls returns the number of fetch and star calls made so far.
func (m *MockClient) Calls() (fetches, stars int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount, m.StarCallCount
}

// MockClientOption allows configuring the mock client
type MockClientOption func(*MockClient)

// WithPage scripts the page returned for the given After cursor.
func WithPage(after string, page *state.Fetched) MockClientOption {
	return func(m *MockClient) {
		m.Pages[after] = page
	}
}

// WithError makes the client return a specific error
func WithError(err error) MockClientOption {
	return func(m *MockClient) {
		m.Error = err
	}
}

// WithAuthFailure makes the client simulate authentication failure
func WithAuthFailure() MockClientOption {
	return func(m *MockClient) {
		m.ShouldFailAuth = true
	}
}

// WithStarred sets the viewer's initial star state.
func WithStarred(starred bool) MockClientOption {
	return func(m *MockClient) {
		m.Starred = starred
	}
}

// NewMockClientWithOptions creates a mock client with options
func NewMockClientWithOptions(opts ...MockClientOption) *MockClient {
	mock := NewMockClient()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}

// IssuePage builds a scripted page for path with one issue per id.
func IssuePage(path string, ids []string, endCursor string, hasNext bool) *state.Fetched {
	edges := make([]state.Edge[state.Issue], 0, len(ids))
	for _, id := range ids {
		edges = append(edges, state.Edge[state.Issue]{Node: state.Issue{
			ID:    id,
			Title: "Issue " + id,
			URL:   "https://github.com/" + path + "/issues/" + id,
		}})
	}

	return &state.Fetched{
		Path: path,
		Organization: &state.Organization{
			Name: "org",
			URL:  "https://github.com/org",
			Repository: &state.Repository{
				ID:         "R_" + path,
				Name:       path,
				URL:        "https://github.com/" + path,
				Stargazers: state.Stargazers{TotalCount: 42},
				Issues: state.Connection[state.Issue]{
					Edges:      edges,
					TotalCount: len(ids),
					PageInfo:   state.PageInfo{EndCursor: endCursor, HasNextPage: hasNext},
				},
			},
		},
	}
}
