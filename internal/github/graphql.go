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
	"net/http"
	"time"

	"github.com/shurcooL/graphql"
	relaierrors "github.com/sirseerhq/sirseer-issues/internal/errors"
	"github.com/sirseerhq/sirseer-issues/internal/giterror"
	"github.com/sirseerhq/sirseer-issues/internal/state"
)

// GraphQLClient implements the GitHub Client interface using GraphQL API.
// It provides access to a repository's issues with support for pagination,
// star mutations, request pacing and response size limits.
type GraphQLClient struct {
	client    *graphql.Client
	inspector giterror.Inspector
}

// ClientOption configures a GraphQLClient.
type ClientOption func(*clientSettings)

type clientSettings struct {
	requestsPerSecond float64
	base              http.RoundTripper
	timeout           time.Duration
}

// WithRequestsPerSecond paces outgoing requests. Zero or less disables pacing.
func WithRequestsPerSecond(rps float64) ClientOption {
	return func(s *clientSettings) {
		s.requestsPerSecond = rps
	}
}

// WithBaseTransport replaces the pooled HTTP transport (for testing).
func WithBaseTransport(rt http.RoundTripper) ClientOption {
	return func(s *clientSettings) {
		s.base = rt
	}
}

// WithTimeout bounds each HTTP request.
func WithTimeout(d time.Duration) ClientOption {
	return func(s *clientSettings) {
		s.timeout = d
	}
}

// NewGraphQLClient creates a new GitHub GraphQL client with the provided token and endpoint.
// The client is configured with:
//   - Authentication via the provided token
//   - Custom GraphQL endpoint URL (e.g., for GitHub Enterprise)
//   - Request pacing when WithRequestsPerSecond is set
//   - Response size limiting to prevent memory issues
//   - User-Agent header for API compliance
func NewGraphQLClient(token string, endpoint string, opts ...ClientOption) *GraphQLClient {
	settings := clientSettings{
		base: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			MaxConnsPerHost:     10,
			IdleConnTimeout:     90 * time.Second,
			ForceAttemptHTTP2:   true,
		},
	}
	for _, opt := range opts {
		opt(&settings)
	}

	httpClient := &http.Client{
		Timeout: settings.timeout,
		Transport: &authTransport{
			token: token,
			base:  newRateLimitTransport(settings.base, settings.requestsPerSecond),
		},
	}

	return &GraphQLClient{
		client:    graphql.NewClient(endpoint, httpClient),
		inspector: giterror.NewInspector(),
	}
}

// FetchIssues fetches the organization, repository and one page of open issues.
// The cursor variable is sent as null on the first page.
func (c *GraphQLClient) FetchIssues(ctx context.Context, owner, repo string, opts FetchOptions) (*state.Fetched, error) {
	opts = opts.normalized()

	var cursor *graphql.String
	if opts.After != "" {
		cursor = graphql.NewString(graphql.String(opts.After))
	}

	variables := map[string]interface{}{
		"org":       graphql.String(owner),
		"repo":      graphql.String(repo),
		"first":     graphql.Int(int32(opts.PageSize)),          // #nosec G115 - capped at 100
		"reactions": graphql.Int(int32(opts.ReactionsPerIssue)), // #nosec G115 - capped at 100
		"cursor":    cursor,
	}

	var query issuesQuery
	err := c.client.Query(ctx, &query, variables)

	fetched := convertIssuesQuery(&query, owner+"/"+repo)
	if err != nil {
		errs, ok := payloadErrors(err)
		if !ok {
			return nil, c.mapError(err, owner+"/"+repo)
		}
		fetched.Errors = errs
	}

	return fetched, nil
}

// AddStar stars the repository for the viewer.
func (c *GraphQLClient) AddStar(ctx context.Context, repoID string) (*state.StarResult, error) {
	var m addStarMutation
	variables := map[string]interface{}{
		"input": AddStarInput{StarrableID: graphql.ID(repoID)},
	}
	return c.mutateStar(ctx, repoID, &m, variables, func() bool {
		return bool(m.AddStar.Starrable.ViewerHasStarred)
	})
}

// RemoveStar removes the viewer's star from the repository.
func (c *GraphQLClient) RemoveStar(ctx context.Context, repoID string) (*state.StarResult, error) {
	var m removeStarMutation
	variables := map[string]interface{}{
		"input": RemoveStarInput{StarrableID: graphql.ID(repoID)},
	}
	return c.mutateStar(ctx, repoID, &m, variables, func() bool {
		return bool(m.RemoveStar.Starrable.ViewerHasStarred)
	})
}

func (c *GraphQLClient) mutateStar(ctx context.Context, repoID string, m interface{}, variables map[string]interface{}, starred func() bool) (*state.StarResult, error) {
	err := c.client.Mutate(ctx, m, variables)
	if err != nil {
		errs, ok := payloadErrors(err)
		if !ok {
			return nil, c.mapError(err, repoID)
		}
		return &state.StarResult{ViewerHasStarred: starred(), Errors: errs}, nil
	}
	return &state.StarResult{ViewerHasStarred: starred()}, nil
}

// mapError maps transport failures to our domain errors with actionable messages
func (c *GraphQLClient) mapError(err error, target string) error {
	if err == nil {
		return nil
	}

	switch c.inspector.Classify(err) {
	case giterror.KindRateLimit:
		return fmt.Errorf("GitHub API rate limit exceeded. Please wait before retrying: %w", relaierrors.ErrRateLimit)
	case giterror.KindAuth:
		return fmt.Errorf("GitHub API authentication failed. Please provide a valid token via --token flag or GITHUB_TOKEN environment variable: %w", relaierrors.ErrInvalidToken)
	case giterror.KindNotFound:
		return fmt.Errorf("'%s' not found. Please check the name and your access permissions: %w", target, relaierrors.ErrRepoNotFound)
	case giterror.KindComplexity:
		return fmt.Errorf("GraphQL query complexity exceeded. Reducing page size may help: %w", relaierrors.ErrQueryComplexity)
	case giterror.KindNetwork:
		return fmt.Errorf("network error connecting to GitHub API: %v: %w", err, relaierrors.ErrNetworkFailure)
	}

	return fmt.Errorf("request for %s failed: %w", target, err)
}

func payloadErrors(err error) ([]state.GraphError, bool) {
	msgs, ok := giterror.PayloadMessages(err)
	if !ok {
		return nil, false
	}
	errs := make([]state.GraphError, 0, len(msgs))
	for _, m := range msgs {
		errs = append(errs, state.GraphError{Message: m})
	}
	return errs, true
}

// convertIssuesQuery converts the decoded query into our domain model.
// A null organization or repository stays nil.
func convertIssuesQuery(q *issuesQuery, path string) *state.Fetched {
	fetched := &state.Fetched{Path: path}
	if q.Organization == nil {
		return fetched
	}

	org := &state.Organization{
		Name: string(q.Organization.Name),
		URL:  string(q.Organization.URL),
	}
	if r := q.Organization.Repository; r != nil {
		org.Repository = convertRepository(r)
	}
	fetched.Organization = org

	return fetched
}

func convertRepository(r *repositoryNode) *state.Repository {
	repo := &state.Repository{
		ID:               string(r.ID),
		Name:             string(r.Name),
		URL:              string(r.URL),
		ViewerHasStarred: bool(r.ViewerHasStarred),
		Stargazers:       state.Stargazers{TotalCount: int(r.Stargazers.TotalCount)},
		Issues: state.Connection[state.Issue]{
			TotalCount: int(r.Issues.TotalCount),
			PageInfo:   convertPageInfo(r.Issues.PageInfo),
			Edges:      make([]state.Edge[state.Issue], 0, len(r.Issues.Edges)),
		},
	}

	for _, e := range r.Issues.Edges {
		repo.Issues.Edges = append(repo.Issues.Edges, state.Edge[state.Issue]{Node: convertIssue(&e.Node)})
	}

	return repo
}

func convertIssue(n *issueNode) state.Issue {
	issue := state.Issue{
		ID:    string(n.ID),
		Title: string(n.Title),
		URL:   string(n.URL),
		Reactions: state.Connection[state.Reaction]{
			TotalCount: int(n.Reactions.TotalCount),
			PageInfo:   convertPageInfo(n.Reactions.PageInfo),
			Edges:      make([]state.Edge[state.Reaction], 0, len(n.Reactions.Edges)),
		},
	}

	for _, e := range n.Reactions.Edges {
		issue.Reactions.Edges = append(issue.Reactions.Edges, state.Edge[state.Reaction]{Node: state.Reaction{
			ID:      string(e.Node.ID),
			Content: string(e.Node.Content),
		}})
	}

	return issue
}

func convertPageInfo(p pageInfo) state.PageInfo {
	info := state.PageInfo{HasNextPage: bool(p.HasNextPage)}
	if p.EndCursor != nil {
		info.EndCursor = string(*p.EndCursor)
	}
	return info
}
