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

// Merge combines a fetched issues page with the previously accumulated state.
//
// Without a cursor the fetched response replaces prev wholesale; this is the
// entry point for the first page of a path and for a new path. With a cursor
// the fetched repository becomes authoritative for every field except the
// issue edges, which are prev's edges followed by the fetched edges.
//
// Errors always come from the fetched response. When a cursor was used and the
// response carries no repository, prev's organization is kept so the edges
// accumulated so far survive the failed page.
func Merge(prev AppState, cursor string, fetched Fetched) AppState {
	errs := copyErrors(fetched.Errors)

	if cursor == "" {
		return AppState{Path: fetched.Path, Organization: fetched.Organization, Errors: errs}
	}

	base := prev.Repository()
	if base == nil {
		// Nothing to append to.
		return AppState{Path: fetched.Path, Organization: fetched.Organization, Errors: errs}
	}

	if fetched.Organization == nil || fetched.Organization.Repository == nil {
		return AppState{Path: fetched.Path, Organization: prev.Organization, Errors: errs}
	}

	repo := *fetched.Organization.Repository
	repo.Issues.Edges = appendEdges(base.Issues.Edges, repo.Issues.Edges)

	org := *fetched.Organization
	org.Repository = &repo

	return AppState{Path: fetched.Path, Organization: &org, Errors: errs}
}

// appendEdges returns a new slice holding older followed by newer.
// Neither input is modified.
func appendEdges[T any](older, newer []Edge[T]) []Edge[T] {
	edges := make([]Edge[T], 0, len(older)+len(newer))
	edges = append(edges, older...)
	return append(edges, newer...)
}

// WithErrors returns a copy of s whose Errors are replaced by errs.
// The organization is left untouched.
func (s AppState) WithErrors(errs []GraphError) AppState {
	s.Errors = copyErrors(errs)
	return s
}

func copyErrors(errs []GraphError) []GraphError {
	if len(errs) == 0 {
		return nil
	}
	out := make([]GraphError, len(errs))
	copy(out, errs)
	return out
}
