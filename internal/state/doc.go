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

// Package state holds the in-memory view of a repository's issue tree and the
// pure transitions that evolve it.
//
// Every transition takes an AppState value and returns a new one. Nothing in
// this package mutates its inputs, so a snapshot handed to a reader stays
// valid while later pages are merged or a star mutation is reconciled.
//
// Two transitions carry the interesting invariants:
//
//   - Merge appends a freshly fetched page of issues to the edges that were
//     already accumulated, or replaces the whole tree when no cursor was used.
//   - ApplyOptimistic, Reconcile and Rollback move the repository's stargazer
//     count and starred flag ahead of the server and back into agreement with it.
//
// Example usage:
//
//	st := state.Merge(state.AppState{}, "", firstPage)
//	if cur, ok := st.Cursor(); ok && cur.HasMore {
//	    st = state.Merge(st, cur.After, nextPage)
//	}
package state
