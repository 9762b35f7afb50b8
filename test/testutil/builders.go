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

// Package testutil provides common test helpers for sirseer-issues
package testutil

import "fmt"

// IssuesResponseBuilder provides a fluent API for creating GraphQL responses
// of the organization → repository → issues query.
type IssuesResponseBuilder struct {
	org        string
	repo       string
	repoID     string
	stars      int
	starred    bool
	issueIDs   []string
	totalCount int
	hasNext    bool
	endCursor  string
	errors     []string
	nullOrg    bool
	nullRepo   bool
}

// NewIssuesResponseBuilder creates a builder for org/repo with no issues.
func NewIssuesResponseBuilder(org, repo string) *IssuesResponseBuilder {
	return &IssuesResponseBuilder{
		org:    org,
		repo:   repo,
		repoID: "R_" + repo,
	}
}

// WithIssues adds one issue per id.
func (b *IssuesResponseBuilder) WithIssues(ids ...string) *IssuesResponseBuilder {
	b.issueIDs = append(b.issueIDs, ids...)
	return b
}

// WithTotalCount sets the issues totalCount; defaults to the number of issues.
func (b *IssuesResponseBuilder) WithTotalCount(n int) *IssuesResponseBuilder {
	b.totalCount = n
	return b
}

// WithPagination sets the issues pageInfo. An empty cursor is sent as null.
func (b *IssuesResponseBuilder) WithPagination(hasNext bool, cursor string) *IssuesResponseBuilder {
	b.hasNext = hasNext
	b.endCursor = cursor
	return b
}

// WithStars sets the stargazer count and the viewer's starred flag.
func (b *IssuesResponseBuilder) WithStars(count int, starred bool) *IssuesResponseBuilder {
	b.stars = count
	b.starred = starred
	return b
}

// WithError adds an entry to the response's errors array.
func (b *IssuesResponseBuilder) WithError(message string) *IssuesResponseBuilder {
	b.errors = append(b.errors, message)
	return b
}

// WithNullOrganization answers organization: null.
func (b *IssuesResponseBuilder) WithNullOrganization() *IssuesResponseBuilder {
	b.nullOrg = true
	return b
}

// WithNullRepository answers repository: null.
func (b *IssuesResponseBuilder) WithNullRepository() *IssuesResponseBuilder {
	b.nullRepo = true
	return b
}

// Build constructs the response body.
func (b *IssuesResponseBuilder) Build() map[string]interface{} {
	response := map[string]interface{}{}

	if b.nullOrg {
		response["data"] = map[string]interface{}{"organization": nil}
	} else {
		org := map[string]interface{}{
			"name":       b.org,
			"url":        "https://github.com/" + b.org,
			"repository": nil,
		}
		if !b.nullRepo {
			org["repository"] = b.buildRepository()
		}
		response["data"] = map[string]interface{}{"organization": org}
	}

	if len(b.errors) > 0 {
		errs := make([]interface{}, 0, len(b.errors))
		for _, msg := range b.errors {
			errs = append(errs, map[string]interface{}{"message": msg})
		}
		response["errors"] = errs
	}

	return response
}

func (b *IssuesResponseBuilder) buildRepository() map[string]interface{} {
	edges := make([]interface{}, 0, len(b.issueIDs))
	for _, id := range b.issueIDs {
		edges = append(edges, map[string]interface{}{
			"node": map[string]interface{}{
				"id":    id,
				"title": fmt.Sprintf("Issue %s", id),
				"url":   fmt.Sprintf("https://github.com/%s/%s/issues/%s", b.org, b.repo, id),
				"reactions": map[string]interface{}{
					"totalCount": 1,
					"pageInfo":   map[string]interface{}{"hasNextPage": false, "endCursor": nil},
					"edges": []interface{}{
						map[string]interface{}{"node": map[string]interface{}{"id": "RE_" + id, "content": "THUMBS_UP"}},
					},
				},
			},
		})
	}

	total := b.totalCount
	if total == 0 {
		total = len(b.issueIDs)
	}

	var cursor interface{}
	if b.endCursor != "" {
		cursor = b.endCursor
	}

	return map[string]interface{}{
		"id":               b.repoID,
		"name":             b.repo,
		"url":              fmt.Sprintf("https://github.com/%s/%s", b.org, b.repo),
		"viewerHasStarred": b.starred,
		"stargazers":       map[string]interface{}{"totalCount": b.stars},
		"issues": map[string]interface{}{
			"totalCount": total,
			"pageInfo":   map[string]interface{}{"hasNextPage": b.hasNext, "endCursor": cursor},
			"edges":      edges,
		},
	}
}

// StarResponse builds the body of an addStar or removeStar response.
func StarResponse(field string, starred bool) map[string]interface{} {
	return map[string]interface{}{
		"data": map[string]interface{}{
			field: map[string]interface{}{
				"starrable": map[string]interface{}{"viewerHasStarred": starred},
			},
		},
	}
}
