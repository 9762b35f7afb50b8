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

import "github.com/shurcooL/graphql"

// FetchOptions configures how an issue page is fetched.
type FetchOptions struct {
	// PageSize controls how many issues to fetch per page.
	// Defaults to 10 if not specified. Maximum is 100 per GitHub's API limits.
	PageSize int

	// ReactionsPerIssue is how many of each issue's latest reactions to include.
	// Defaults to 3.
	ReactionsPerIssue int

	// After is the cursor for pagination.
	// Empty string fetches from the beginning.
	After string
}

// Default values for fetch operations
const (
	defaultPageSize  = 10
	maxPageSize      = 100
	defaultReactions = 3
)

func (o FetchOptions) normalized() FetchOptions {
	if o.PageSize <= 0 {
		o.PageSize = defaultPageSize
	}
	if o.PageSize > maxPageSize {
		o.PageSize = maxPageSize
	}
	if o.ReactionsPerIssue <= 0 {
		o.ReactionsPerIssue = defaultReactions
	}
	if o.ReactionsPerIssue > maxPageSize {
		o.ReactionsPerIssue = maxPageSize
	}
	return o
}

// AddStarInput is the input object of the addStar mutation.
// The type name is sent as the GraphQL variable type.
type AddStarInput struct {
	StarrableID graphql.ID `json:"starrableId"`
}

// RemoveStarInput is the input object of the removeStar mutation.
type RemoveStarInput struct {
	StarrableID graphql.ID `json:"starrableId"`
}

type pageInfo struct {
	EndCursor   *graphql.String
	HasNextPage graphql.Boolean
}

type reactionNode struct {
	ID      graphql.String
	Content graphql.String
}

type issueNode struct {
	ID        graphql.String
	Title     graphql.String
	URL       graphql.String
	Reactions struct {
		TotalCount graphql.Int
		PageInfo   pageInfo
		Edges      []struct {
			Node reactionNode
		}
	} `graphql:"reactions(last: $reactions)"`
}

type repositoryNode struct {
	ID               graphql.String
	Name             graphql.String
	URL              graphql.String
	ViewerHasStarred graphql.Boolean
	Stargazers       struct {
		TotalCount graphql.Int
	}
	Issues struct {
		TotalCount graphql.Int
		PageInfo   pageInfo
		Edges      []struct {
			Node issueNode
		}
	} `graphql:"issues(first: $first, after: $cursor, states: [OPEN])"`
}

// issuesQuery mirrors the organization → repository → issues → reactions tree.
type issuesQuery struct {
	Organization *struct {
		Name       graphql.String
		URL        graphql.String
		Repository *repositoryNode `graphql:"repository(name: $repo)"`
	} `graphql:"organization(login: $org)"`
}

type starrable struct {
	ViewerHasStarred graphql.Boolean
}

type addStarMutation struct {
	AddStar struct {
		Starrable starrable
	} `graphql:"addStar(input: $input)"`
}

type removeStarMutation struct {
	RemoveStar struct {
		Starrable starrable
	} `graphql:"removeStar(input: $input)"`
}
