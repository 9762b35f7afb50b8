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
	"fmt"
	"strings"
	"sync"

	"github.com/golang/glog"
	"github.com/oklog/ulid/v2"

	relaierrors "github.com/sirseerhq/sirseer-issues/internal/errors"
	"github.com/sirseerhq/sirseer-issues/internal/github"
	"github.com/sirseerhq/sirseer-issues/internal/metadata"
	"github.com/sirseerhq/sirseer-issues/internal/state"
)

// ErrClosed is returned by operations on a closed session.
var ErrClosed = errors.New("session closed")

// errNoResponse stands in for a client that returned neither a result nor an error.
var errNoResponse = errors.New("client returned no response")

// snapshot is what the writer goroutine owns.
//
// starEpoch counts star commits (optimistic, reconciled or rolled back) and
// starPending is set while a mutation is in flight. A page requested at an
// older epoch, or landing while a star is pending, keeps the displayed star
// pair instead of the one it carries.
type snapshot struct {
	app         state.AppState
	status      Status
	generation  ulid.ULID
	starEpoch   uint64
	starPending bool
}

// commit is one state transition applied by the writer goroutine.
// The returned snapshot always replaces the current one.
type commit struct {
	apply func(snapshot) (snapshot, error)
	done  chan error
}

// Option configures a Session.
type Option func(*Session)

// WithPageSize sets the number of issues requested per page.
func WithPageSize(n int) Option {
	return func(s *Session) {
		s.fetchOpts.PageSize = n
	}
}

// WithReactionsPerIssue sets how many recent reactions are requested per issue.
func WithReactionsPerIssue(n int) Option {
	return func(s *Session) {
		s.fetchOpts.ReactionsPerIssue = n
	}
}

// WithStarPolicy selects how star toggles move the stargazer count.
func WithStarPolicy(p state.StarPolicy) Option {
	return func(s *Session) {
		s.policy = p
	}
}

// WithTracker records session statistics into t.
func WithTracker(t *metadata.Tracker) Option {
	return func(s *Session) {
		s.tracker = t
	}
}

// Session holds the displayed state for one search path at a time.
type Session struct {
	client    github.Client
	fetchOpts github.FetchOptions
	policy    state.StarPolicy
	tracker   *metadata.Tracker

	mu   sync.RWMutex
	snap snapshot

	commits   chan commit
	quit      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New creates a session and starts its writer goroutine.
// Call Close to stop it.
func New(client github.Client, opts ...Option) *Session {
	s := &Session{
		client:  client,
		commits: make(chan commit),
		quit:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracker == nil {
		s.tracker = metadata.New()
	}

	s.wg.Add(1)
	go s.run()

	return s
}

// run applies commits one at a time in arrival order.
func (s *Session) run() {
	defer s.wg.Done()

	for {
		select {
		case c := <-s.commits:
			s.mu.RLock()
			cur := s.snap
			s.mu.RUnlock()

			next, err := c.apply(cur)

			s.mu.Lock()
			s.snap = next
			s.mu.Unlock()

			c.done <- err
		case <-s.quit:
			return
		}
	}
}

func (s *Session) submit(apply func(snapshot) (snapshot, error)) error {
	c := commit{apply: apply, done: make(chan error, 1)}
	select {
	case s.commits <- c:
	case <-s.quit:
		return ErrClosed
	}
	return <-c.done
}

// Close stops the writer goroutine. Operations after Close return ErrClosed.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.quit)
	})
	s.wg.Wait()
}

// State returns the current state snapshot. The value must not be modified.
func (s *Session) State() state.AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.app
}

// Status returns the current pagination status.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.status
}

// Exhausted reports whether the loaded issue connection has no next page.
func (s *Session) Exhausted() bool {
	cursor, ok := s.State().Cursor()
	return ok && !cursor.HasMore
}

// Tracker returns the statistics tracker of the session.
func (s *Session) Tracker() *metadata.Tracker {
	return s.tracker
}

// ParsePath splits an "org/repo" search path.
func ParsePath(path string) (owner, repo string, err error) {
	parts := strings.Split(strings.TrimSpace(path), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%q: expected org/repo: %w", path, relaierrors.ErrInvalidPath)
	}
	return parts[0], parts[1], nil
}

// Fetch loads the first issue page of path. A path different from the one
// displayed discards the displayed organization before the request is made.
// Any response still in flight for an earlier Fetch becomes stale.
func (s *Session) Fetch(ctx context.Context, path string) error {
	owner, repo, err := ParsePath(path)
	if err != nil {
		return err
	}
	path = owner + "/" + repo

	var gen ulid.ULID
	err = s.submit(func(cur snapshot) (snapshot, error) {
		gen = ulid.Make()
		next := snapshot{app: cur.app, status: StatusLoading, generation: gen, starEpoch: cur.starEpoch}
		if cur.app.Path != path {
			next.app = state.AppState{Path: path}
		}
		return next, nil
	})
	if err != nil {
		return err
	}

	glog.V(1).Infof("session: fetch %s (generation %s)", path, gen)

	s.tracker.IncrementAPICall()
	fetched, err := s.client.FetchIssues(ctx, owner, repo, s.fetchOptions(""))
	if err == nil && fetched == nil {
		err = errNoResponse
	}
	if err != nil {
		return s.failFetch(gen, path, "", err)
	}

	return s.submit(func(cur snapshot) (snapshot, error) {
		if err := s.checkGeneration(cur, gen, path); err != nil {
			return cur, err
		}
		return s.settle(cur, state.Merge(cur.app, "", *fetched))
	})
}

// FetchMore loads the page following the loaded issue connection and
// appends it. It is allowed from Ready, and from Error when a repository is
// still displayed so a failed page can be retried with the same cursor.
// Once the connection is exhausted it returns errors.ErrNoMorePages without
// issuing a request.
func (s *Session) FetchMore(ctx context.Context) error {
	var (
		gen   ulid.ULID
		path  string
		after string
		epoch uint64
	)
	err := s.submit(func(cur snapshot) (snapshot, error) {
		switch {
		case cur.status == StatusReady:
		case cur.status == StatusError && cur.app.Repository() != nil:
		default:
			return cur, fmt.Errorf("cannot load more while %s: %w", cur.status, relaierrors.ErrNotReady)
		}

		cursor, ok := cur.app.Cursor()
		if !ok || !cursor.HasMore || cursor.After == "" {
			return cur, relaierrors.ErrNoMorePages
		}

		gen, path, after, epoch = cur.generation, cur.app.Path, cursor.After, cur.starEpoch
		cur.status = StatusLoadingMore
		return cur, nil
	})
	if err != nil {
		return err
	}

	owner, repo, err := ParsePath(path)
	if err != nil {
		return err
	}

	glog.V(1).Infof("session: fetch more %s after %s", path, after)

	s.tracker.IncrementAPICall()
	fetched, err := s.client.FetchIssues(ctx, owner, repo, s.fetchOptions(after))
	if err == nil && fetched == nil {
		err = errNoResponse
	}
	if err != nil {
		return s.failFetch(gen, path, after, err)
	}

	return s.submit(func(cur snapshot) (snapshot, error) {
		if err := s.checkGeneration(cur, gen, path); err != nil {
			return cur, err
		}
		merged := state.Merge(cur.app, after, *fetched)
		if cur.starPending || cur.starEpoch != epoch {
			glog.V(1).Infof("session: page for %s predates star state, keeping displayed stargazers", path)
			merged = state.KeepStar(merged, cur.app)
		}
		return s.settle(cur, merged)
	})
}

// ToggleStar stars the repository when currentlyStarred is false and
// unstars it otherwise. The stargazer count moves immediately; the server's
// answer then reconciles it, or the pre-mutation pair is restored when the
// mutation fails. Pagination status is left unchanged. Only one star change
// may be in flight; a second call before it settles returns errors.ErrNotReady.
func (s *Session) ToggleStar(ctx context.Context, repoID string, currentlyStarred bool) error {
	var (
		gen     ulid.ULID
		path    string
		pending state.PendingStar
	)
	err := s.submit(func(cur snapshot) (snapshot, error) {
		if cur.status != StatusReady && cur.status != StatusLoadingMore {
			return cur, fmt.Errorf("cannot star while %s: %w", cur.status, relaierrors.ErrNotReady)
		}
		if cur.starPending {
			return cur, fmt.Errorf("star change already in flight: %w", relaierrors.ErrNotReady)
		}

		app, p, err := state.ApplyOptimistic(cur.app, repoID, s.policy)
		if err != nil {
			return cur, err
		}

		gen, path, pending = cur.generation, cur.app.Path, p
		cur.app = app
		cur.starPending = true
		cur.starEpoch++
		return cur, nil
	})
	if err != nil {
		return err
	}

	mutate, verb := s.client.AddStar, "add"
	if currentlyStarred {
		mutate, verb = s.client.RemoveStar, "remove"
	}
	glog.V(1).Infof("session: %s star on %s", verb, repoID)

	s.tracker.IncrementAPICall()
	res, callErr := mutate(ctx, repoID)
	if callErr == nil && res == nil {
		callErr = errNoResponse
	}

	return s.submit(func(cur snapshot) (snapshot, error) {
		if err := s.checkGeneration(cur, gen, path); err != nil {
			return cur, err
		}
		cur.starPending = false
		cur.starEpoch++

		var errs []state.GraphError
		switch {
		case callErr != nil:
			errs = []state.GraphError{{Message: callErr.Error()}}
		case len(res.Errors) > 0:
			errs = res.Errors
		default:
			app, err := state.Reconcile(cur.app, pending, *res)
			if err != nil {
				return cur, err
			}
			s.tracker.RecordMutation(false)
			cur.app = app
			return cur, nil
		}

		app, err := state.Rollback(cur.app, pending)
		if err != nil {
			return cur, err
		}
		s.tracker.RecordMutation(true)
		glog.Warningf("session: %s star on %s rolled back: %s", verb, repoID, errs[0].Message)
		cur.app = app.WithErrors(errs)

		if callErr != nil {
			return cur, fmt.Errorf("%s star: %w", verb, callErr)
		}
		return cur, payloadError(errs)
	})
}

func (s *Session) fetchOptions(after string) github.FetchOptions {
	opts := s.fetchOpts
	opts.After = after
	return opts
}

// checkGeneration rejects a response whose Fetch has been superseded.
func (s *Session) checkGeneration(cur snapshot, gen ulid.ULID, path string) error {
	if cur.generation == gen && cur.app.Path == path {
		return nil
	}
	s.tracker.RecordStale()
	glog.V(1).Infof("session: discarding response for %s (generation %s, current %s)", path, gen, cur.generation)
	return fmt.Errorf("%s: %w", path, relaierrors.ErrStaleResponse)
}

// settle commits a merged state and derives the status from it.
func (s *Session) settle(cur snapshot, app state.AppState) (snapshot, error) {
	cur.app = app
	repo := app.Repository()

	switch {
	case app.HasErrors():
		s.tracker.RecordPayloadErrors()
		cur.status = StatusError
		return cur, payloadError(app.Errors)
	case repo == nil:
		cur.status = StatusEmpty
	default:
		s.tracker.RecordPage(len(repo.Issues.Edges), repo.Issues.TotalCount, state.Next(repo.Issues).HasMore)
		cur.status = StatusReady
	}
	return cur, nil
}

// failFetch records a transport failure as the state's errors. A failed
// first page leaves no organization; a failed follow-up page keeps the
// edges accumulated so far.
func (s *Session) failFetch(gen ulid.ULID, path, after string, callErr error) error {
	s.tracker.RecordTransportError()
	return s.submit(func(cur snapshot) (snapshot, error) {
		if err := s.checkGeneration(cur, gen, path); err != nil {
			return cur, err
		}
		glog.Warningf("session: fetch %s failed: %v", path, callErr)
		errs := []state.GraphError{{Message: callErr.Error()}}
		if after == "" {
			cur.app = state.AppState{Path: path, Errors: errs}
		} else {
			cur.app = cur.app.WithErrors(errs)
		}
		cur.status = StatusError
		return cur, callErr
	})
}

func payloadError(errs []state.GraphError) error {
	if len(errs) == 1 {
		return fmt.Errorf("%w: %s", relaierrors.ErrGraphPayload, errs[0].Message)
	}
	return fmt.Errorf("%w: %s (and %d more)", relaierrors.ErrGraphPayload, errs[0].Message, len(errs)-1)
}
