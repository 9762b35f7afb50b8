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

package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	relaierrors "github.com/sirseerhq/sirseer-issues/internal/errors"
	"github.com/sirseerhq/sirseer-issues/internal/github"
	"github.com/sirseerhq/sirseer-issues/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPath   = "facebook/react"
	testRepoID = "R_facebook/react"
)

func newSession(t *testing.T, mock *github.MockClient, opts ...Option) *Session {
	t.Helper()
	s := New(mock, opts...)
	t.Cleanup(s.Close)
	return s
}

func twoPageMock() *github.MockClient {
	return github.NewMockClientWithOptions(
		github.WithPage("", github.IssuePage(testPath, []string{"i1", "i2"}, "c1", true)),
		github.WithPage("c1", github.IssuePage(testPath, []string{"i3"}, "c2", false)),
	)
}

func issueIDs(st state.AppState) []string {
	repo := st.Repository()
	if repo == nil {
		return nil
	}
	var ids []string
	for _, issue := range repo.Issues.Nodes() {
		ids = append(ids, issue.ID)
	}
	return ids
}

func starPair(t *testing.T, st state.AppState) (int, bool) {
	t.Helper()
	repo := st.Repository()
	require.NotNil(t, repo)
	return repo.Stargazers.TotalCount, repo.ViewerHasStarred
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		path      string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{"facebook/react", "facebook", "react", false},
		{"  golang/go ", "golang", "go", false},
		{"facebook", "", "", true},
		{"facebook/", "", "", true},
		{"/react", "", "", true},
		{"a/b/c", "", "", true},
		{"", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			owner, repo, err := ParsePath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, relaierrors.ErrInvalidPath)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantRepo, repo)
		})
	}
}

func TestSession_PagesUntilExhausted(t *testing.T) {
	mock := twoPageMock()
	s := newSession(t, mock, WithPageSize(2))

	assert.Equal(t, StatusEmpty, s.Status())

	require.NoError(t, s.Fetch(context.Background(), testPath))
	assert.Equal(t, StatusReady, s.Status())
	assert.Equal(t, []string{"i1", "i2"}, issueIDs(s.State()))
	assert.False(t, s.Exhausted())
	assert.Equal(t, 2, mock.LastOpts.PageSize)
	assert.Empty(t, mock.LastOpts.After)

	require.NoError(t, s.FetchMore(context.Background()))
	assert.Equal(t, "c1", mock.LastOpts.After)
	assert.Equal(t, []string{"i1", "i2", "i3"}, issueIDs(s.State()))
	assert.True(t, s.Exhausted())

	cursor, ok := s.State().Cursor()
	require.True(t, ok)
	assert.Equal(t, "c2", cursor.After)

	// No request once the connection is exhausted.
	err := s.FetchMore(context.Background())
	assert.ErrorIs(t, err, relaierrors.ErrNoMorePages)

	fetches, _ := mock.Calls()
	assert.Equal(t, 2, fetches)

	pages := s.Tracker().Pages()
	assert.Equal(t, 2, pages.Pages)
	assert.Equal(t, 3, pages.Issues)
	assert.True(t, pages.Exhausted)
}

func TestSession_FetchMoreRequiresLoadedRepository(t *testing.T) {
	s := newSession(t, twoPageMock())

	err := s.FetchMore(context.Background())
	assert.ErrorIs(t, err, relaierrors.ErrNotReady)
}

func TestSession_FetchMoreWithoutEndCursor(t *testing.T) {
	mock := github.NewMockClientWithOptions(
		github.WithPage("", github.IssuePage(testPath, []string{"i1"}, "", true)),
	)
	s := newSession(t, mock)

	require.NoError(t, s.Fetch(context.Background(), testPath))
	assert.ErrorIs(t, s.FetchMore(context.Background()), relaierrors.ErrNoMorePages)

	fetches, _ := mock.Calls()
	assert.Equal(t, 1, fetches)
}

func TestSession_PayloadErrorOnFollowUpPageKeepsEdges(t *testing.T) {
	mock := github.NewMockClientWithOptions(
		github.WithPage("", github.IssuePage(testPath, []string{"i1", "i2"}, "c1", true)),
	)
	s := newSession(t, mock)
	require.NoError(t, s.Fetch(context.Background(), testPath))

	// Nothing is scripted for c1, so the mock answers with an errors array.
	err := s.FetchMore(context.Background())
	require.ErrorIs(t, err, relaierrors.ErrGraphPayload)

	st := s.State()
	assert.Equal(t, StatusError, s.Status())
	assert.Equal(t, []string{"i1", "i2"}, issueIDs(st))
	require.Len(t, st.Errors, 1)
	assert.Contains(t, st.Errors[0].Message, "c1")

	// Retrying from Error reuses the same cursor.
	mock.Pages["c1"] = github.IssuePage(testPath, []string{"i3"}, "c2", false)
	require.NoError(t, s.FetchMore(context.Background()))

	st = s.State()
	assert.Equal(t, StatusReady, s.Status())
	assert.Equal(t, []string{"i1", "i2", "i3"}, issueIDs(st))
	assert.Empty(t, st.Errors)
	assert.Equal(t, 1, s.Tracker().Errors().Payload)
}

func TestSession_TransportErrorIsRecorded(t *testing.T) {
	mock := github.NewMockClientWithOptions(github.WithAuthFailure())
	s := newSession(t, mock)

	err := s.Fetch(context.Background(), testPath)
	require.ErrorIs(t, err, relaierrors.ErrInvalidToken)

	st := s.State()
	assert.Equal(t, StatusError, s.Status())
	assert.Nil(t, st.Organization)
	assert.Equal(t, testPath, st.Path)
	require.Len(t, st.Errors, 1)
	assert.Contains(t, st.Errors[0].Message, "invalid github token")
	assert.Equal(t, 1, s.Tracker().Errors().Transport)

	// Error is not terminal.
	mock.ShouldFailAuth = false
	mock.Pages[""] = github.IssuePage(testPath, []string{"i1"}, "c1", false)
	require.NoError(t, s.Fetch(context.Background(), testPath))
	assert.Equal(t, StatusReady, s.Status())
	assert.Empty(t, s.State().Errors)
}

func TestSession_NewPathDiscardsPreviousOrganization(t *testing.T) {
	mock := twoPageMock()
	s := newSession(t, mock)
	require.NoError(t, s.Fetch(context.Background(), testPath))

	seen := make(chan state.AppState, 1)
	mock.BeforeFetch = func(ctx context.Context, opts github.FetchOptions) error {
		seen <- s.State()
		return nil
	}

	require.NoError(t, s.Fetch(context.Background(), "golang/go"))

	during := <-seen
	assert.Equal(t, "golang/go", during.Path)
	assert.Nil(t, during.Organization)
	assert.Equal(t, "golang/go", s.State().Path)
}

func TestSession_StaleResponseIsDiscarded(t *testing.T) {
	mock := twoPageMock()
	s := newSession(t, mock)

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	mock.BeforeFetch = func(ctx context.Context, opts github.FetchOptions) error {
		first := false
		once.Do(func() { first = true })
		if first {
			close(entered)
			<-release
		}
		return nil
	}

	staleErr := make(chan error, 1)
	go func() {
		staleErr <- s.Fetch(context.Background(), testPath)
	}()
	<-entered

	require.NoError(t, s.Fetch(context.Background(), "golang/go"))
	close(release)

	select {
	case err := <-staleErr:
		assert.ErrorIs(t, err, relaierrors.ErrStaleResponse)
	case <-time.After(5 * time.Second):
		t.Fatal("first fetch did not return")
	}

	assert.Equal(t, "golang/go", s.State().Path)
	assert.Equal(t, StatusReady, s.Status())
	assert.Equal(t, 1, s.Tracker().Errors().Stale)
}

func TestSession_ToggleStar(t *testing.T) {
	tests := []struct {
		name           string
		policy         state.StarPolicy
		starred        bool
		wantOptimistic int
		wantFinal      int
	}{
		{"star symmetric", state.Symmetric, false, 43, 43},
		{"unstar symmetric", state.Symmetric, true, 41, 41},
		{"star fixed increment", state.FixedIncrement, false, 43, 43},
		{"unstar fixed increment", state.FixedIncrement, true, 43, 43},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := github.IssuePage(testPath, []string{"i1"}, "c1", false)
			page.Organization.Repository.ViewerHasStarred = tt.starred

			mock := github.NewMockClientWithOptions(github.WithPage("", page), github.WithStarred(tt.starred))
			s := newSession(t, mock, WithStarPolicy(tt.policy))
			require.NoError(t, s.Fetch(context.Background(), testPath))

			var optimistic state.AppState
			mock.BeforeStar = func(ctx context.Context, repoID string) error {
				optimistic = s.State()
				return nil
			}

			require.NoError(t, s.ToggleStar(context.Background(), testRepoID, tt.starred))

			count, starred := starPair(t, optimistic)
			assert.Equal(t, tt.wantOptimistic, count)
			assert.Equal(t, tt.starred, starred)

			count, starred = starPair(t, s.State())
			assert.Equal(t, tt.wantFinal, count)
			assert.Equal(t, !tt.starred, starred)
			assert.Equal(t, !tt.starred, mock.Starred)
			assert.Equal(t, StatusReady, s.Status())
		})
	}
}

func TestSession_ToggleStarRollsBack(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*github.MockClient)
		wantErr error
		wantMsg string
	}{
		{
			name: "payload errors",
			setup: func(m *github.MockClient) {
				m.StarErrors = []state.GraphError{{Message: "Resource not accessible by integration"}}
			},
			wantErr: relaierrors.ErrGraphPayload,
			wantMsg: "Resource not accessible by integration",
		},
		{
			name: "transport failure",
			setup: func(m *github.MockClient) {
				m.BeforeStar = func(ctx context.Context, repoID string) error {
					return relaierrors.ErrNetworkFailure
				}
			},
			wantErr: relaierrors.ErrNetworkFailure,
			wantMsg: "network connection failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := twoPageMock()
			tt.setup(mock)
			s := newSession(t, mock)
			require.NoError(t, s.Fetch(context.Background(), testPath))

			err := s.ToggleStar(context.Background(), testRepoID, false)
			require.ErrorIs(t, err, tt.wantErr)

			st := s.State()
			count, starred := starPair(t, st)
			assert.Equal(t, 42, count)
			assert.False(t, starred)
			require.NotEmpty(t, st.Errors)
			assert.Contains(t, st.Errors[0].Message, tt.wantMsg)
			assert.Equal(t, []string{"i1", "i2"}, issueIDs(st))
			assert.Equal(t, StatusReady, s.Status())
		})
	}
}

func TestSession_ToggleStarRequiresLoadedRepository(t *testing.T) {
	mock := twoPageMock()
	s := newSession(t, mock)

	err := s.ToggleStar(context.Background(), testRepoID, false)
	assert.ErrorIs(t, err, relaierrors.ErrNotReady)

	require.NoError(t, s.Fetch(context.Background(), testPath))
	err = s.ToggleStar(context.Background(), "R_other", false)
	assert.ErrorIs(t, err, relaierrors.ErrStaleResponse)

	_, stars := mock.Calls()
	assert.Equal(t, 0, stars)
}

func TestSession_StarAndFetchMoreInterleave(t *testing.T) {
	mock := twoPageMock()
	s := newSession(t, mock)
	require.NoError(t, s.Fetch(context.Background(), testPath))

	entered := make(chan struct{})
	release := make(chan struct{})
	mock.BeforeStar = func(ctx context.Context, repoID string) error {
		close(entered)
		<-release
		return nil
	}

	starErr := make(chan error, 1)
	go func() {
		starErr <- s.ToggleStar(context.Background(), testRepoID, false)
	}()
	<-entered

	// The page lands while the mutation is in flight. It carries the
	// server's pre-mutation count, but the optimistic pair stays displayed.
	require.NoError(t, s.FetchMore(context.Background()))
	count, starred := starPair(t, s.State())
	assert.Equal(t, 43, count)
	assert.False(t, starred)

	close(release)
	select {
	case err := <-starErr:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("star did not return")
	}

	st := s.State()
	count, starred = starPair(t, st)
	assert.Equal(t, 43, count)
	assert.True(t, starred)
	assert.Equal(t, []string{"i1", "i2", "i3"}, issueIDs(st))
}

func TestSession_PageRequestedBeforeStarKeepsReconciledPair(t *testing.T) {
	mock := twoPageMock()
	s := newSession(t, mock)
	require.NoError(t, s.Fetch(context.Background(), testPath))

	entered := make(chan struct{})
	release := make(chan struct{})
	mock.BeforeFetch = func(ctx context.Context, opts github.FetchOptions) error {
		if opts.After == "c1" {
			close(entered)
			<-release
		}
		return nil
	}

	moreErr := make(chan error, 1)
	go func() {
		moreErr <- s.FetchMore(context.Background())
	}()
	<-entered
	require.Equal(t, StatusLoadingMore, s.Status())

	require.NoError(t, s.ToggleStar(context.Background(), testRepoID, false))
	count, starred := starPair(t, s.State())
	require.Equal(t, 43, count)
	require.True(t, starred)

	// The page was requested before the star and carries 42/false.
	close(release)
	select {
	case err := <-moreErr:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("fetch more did not return")
	}

	st := s.State()
	count, starred = starPair(t, st)
	assert.Equal(t, 43, count)
	assert.True(t, starred)
	assert.Equal(t, []string{"i1", "i2", "i3"}, issueIDs(st))
	assert.Equal(t, StatusReady, s.Status())
}

func TestSession_OverlappingToggleIsRejected(t *testing.T) {
	mock := twoPageMock()
	s := newSession(t, mock)
	require.NoError(t, s.Fetch(context.Background(), testPath))

	entered := make(chan struct{})
	release := make(chan struct{})
	mock.BeforeStar = func(ctx context.Context, repoID string) error {
		close(entered)
		<-release
		return nil
	}

	starErr := make(chan error, 1)
	go func() {
		starErr <- s.ToggleStar(context.Background(), testRepoID, false)
	}()
	<-entered

	err := s.ToggleStar(context.Background(), testRepoID, false)
	assert.ErrorIs(t, err, relaierrors.ErrNotReady)

	close(release)
	require.NoError(t, <-starErr)

	count, starred := starPair(t, s.State())
	assert.Equal(t, 43, count)
	assert.True(t, starred)

	_, stars := mock.Calls()
	assert.Equal(t, 1, stars)

	// Once settled, the next toggle goes through.
	mock.BeforeStar = nil
	require.NoError(t, s.ToggleStar(context.Background(), testRepoID, true))
	count, starred = starPair(t, s.State())
	assert.Equal(t, 42, count)
	assert.False(t, starred)
}

func TestSession_RefetchTransportFailureClearsOrganization(t *testing.T) {
	mock := twoPageMock()
	s := newSession(t, mock)
	require.NoError(t, s.Fetch(context.Background(), testPath))
	require.NotNil(t, s.State().Organization)

	mock.Error = errors.New("dial tcp: connection refused")
	err := s.Fetch(context.Background(), testPath)
	require.Error(t, err)

	st := s.State()
	assert.Equal(t, StatusError, s.Status())
	assert.Nil(t, st.Organization)
	assert.Equal(t, testPath, st.Path)
	require.Len(t, st.Errors, 1)
	assert.Contains(t, st.Errors[0].Message, "connection refused")
	assert.False(t, s.Exhausted())
}

func TestSession_FollowUpTransportFailureKeepsEdges(t *testing.T) {
	mock := twoPageMock()
	s := newSession(t, mock)
	require.NoError(t, s.Fetch(context.Background(), testPath))

	mock.Error = errors.New("dial tcp: connection refused")
	require.Error(t, s.FetchMore(context.Background()))

	assert.Equal(t, StatusError, s.Status())
	assert.Equal(t, []string{"i1", "i2"}, issueIDs(s.State()))
}

// emptyClient answers every call with neither a result nor an error.
type emptyClient struct {
	*github.MockClient
	emptyFetch bool
}

func (c *emptyClient) FetchIssues(ctx context.Context, owner, repo string, opts github.FetchOptions) (*state.Fetched, error) {
	if c.emptyFetch {
		return nil, nil
	}
	return c.MockClient.FetchIssues(ctx, owner, repo, opts)
}

func (c *emptyClient) AddStar(ctx context.Context, repoID string) (*state.StarResult, error) {
	return nil, nil
}

func TestSession_EmptyClientResponses(t *testing.T) {
	t.Run("fetch", func(t *testing.T) {
		s := New(&emptyClient{MockClient: twoPageMock(), emptyFetch: true})
		t.Cleanup(s.Close)

		err := s.Fetch(context.Background(), testPath)
		require.ErrorIs(t, err, errNoResponse)
		assert.Equal(t, StatusError, s.Status())
		assert.Nil(t, s.State().Organization)
	})

	t.Run("star", func(t *testing.T) {
		s := New(&emptyClient{MockClient: twoPageMock()})
		t.Cleanup(s.Close)
		require.NoError(t, s.Fetch(context.Background(), testPath))

		err := s.ToggleStar(context.Background(), testRepoID, false)
		require.ErrorIs(t, err, errNoResponse)

		st := s.State()
		count, starred := starPair(t, st)
		assert.Equal(t, 42, count)
		assert.False(t, starred)
		require.NotEmpty(t, st.Errors)
		assert.Equal(t, StatusReady, s.Status())
	})
}

func TestSession_StarResponseAfterPathChangeIsStale(t *testing.T) {
	mock := twoPageMock()
	s := newSession(t, mock)
	require.NoError(t, s.Fetch(context.Background(), testPath))

	entered := make(chan struct{})
	release := make(chan struct{})
	mock.BeforeStar = func(ctx context.Context, repoID string) error {
		close(entered)
		<-release
		return nil
	}

	starErr := make(chan error, 1)
	go func() {
		starErr <- s.ToggleStar(context.Background(), testRepoID, false)
	}()
	<-entered

	require.NoError(t, s.Fetch(context.Background(), "golang/go"))
	close(release)

	err := <-starErr
	assert.ErrorIs(t, err, relaierrors.ErrStaleResponse)
	assert.Equal(t, "golang/go", s.State().Path)

	count, starred := starPair(t, s.State())
	assert.Equal(t, 42, count)
	assert.False(t, starred)
}

func TestSession_ContextCancelled(t *testing.T) {
	s := newSession(t, twoPageMock())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Fetch(ctx, testPath)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, StatusError, s.Status())
}

func TestSession_Close(t *testing.T) {
	s := New(twoPageMock())
	s.Close()
	s.Close()

	assert.ErrorIs(t, s.Fetch(context.Background(), testPath), ErrClosed)
	assert.ErrorIs(t, s.FetchMore(context.Background()), ErrClosed)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "loading-more", StatusLoadingMore.String())
	assert.Equal(t, "unknown", Status(99).String())
}
