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

package state

// PageInfo carries the navigation fields of a connection page.
// An empty EndCursor means the server returned no cursor.
type PageInfo struct {
	EndCursor   string `json:"endCursor,omitempty"`
	HasNextPage bool   `json:"hasNextPage"`
}

// Edge wraps a single node of a connection.
type Edge[T any] struct {
	Node T `json:"node"`
}

// Connection is a paginated list as returned by a graph API.
// Edges keep server order within a page and fetch order across pages.
type Connection[T any] struct {
	Edges      []Edge[T] `json:"edges"`
	TotalCount int       `json:"totalCount"`
	PageInfo   PageInfo  `json:"pageInfo"`
}

// Nodes returns the nodes of the connection in edge order.
func (c Connection[T]) Nodes() []T {
	nodes := make([]T, 0, len(c.Edges))
	for _, e := range c.Edges {
		nodes = append(nodes, e.Node)
	}
	return nodes
}

// Reaction is a single emoji reaction on an issue.
type Reaction struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// Issue is an issue node together with the most recent reactions on it.
type Issue struct {
	ID        string               `json:"id"`
	Title     string               `json:"title"`
	URL       string               `json:"url"`
	Reactions Connection[Reaction] `json:"reactions"`
}

// Stargazers holds the repository's star count.
type Stargazers struct {
	TotalCount int `json:"totalCount"`
}

// Repository is the repository node and its accumulated issue connection.
// Stargazers and ViewerHasStarred are only ever written together, see withStar.
type Repository struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	URL              string            `json:"url"`
	ViewerHasStarred bool              `json:"viewerHasStarred"`
	Stargazers       Stargazers        `json:"stargazers"`
	Issues           Connection[Issue] `json:"issues"`
}

// Organization is the root of the fetched tree.
// Repository is nil when the server could not resolve it.
type Organization struct {
	Name       string      `json:"name"`
	URL        string      `json:"url"`
	Repository *Repository `json:"repository"`
}

// GraphError is one entry of a response's errors array.
type GraphError struct {
	Message string `json:"message"`
}

// AppState is the aggregate currently displayed for a search path.
// Organization is nil until the first successful page. Errors holds the
// errors of the most recent response only.
type AppState struct {
	Path         string        `json:"path"`
	Organization *Organization `json:"organization"`
	Errors       []GraphError  `json:"errors,omitempty"`
}

// Repository returns the loaded repository, or nil.
func (s AppState) Repository() *Repository {
	if s.Organization == nil {
		return nil
	}
	return s.Organization.Repository
}

// HasErrors reports whether the last response carried errors.
func (s AppState) HasErrors() bool {
	return len(s.Errors) > 0
}

// Fetched is one decoded response of the issues query.
// Path is the org/repo path the request was issued for.
type Fetched struct {
	Path         string
	Organization *Organization
	Errors       []GraphError
}

// StarResult is one decoded response of the addStar or removeStar mutation.
type StarResult struct {
	ViewerHasStarred bool
	Errors           []GraphError
}
