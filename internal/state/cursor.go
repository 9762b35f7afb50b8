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

// Cursor is the pagination position derived from the last fetched page.
// After is opaque and is handed back to the server verbatim.
type Cursor struct {
	After   string
	HasMore bool
}

// Next derives the cursor for the page following c.
// HasMore false is terminal for the connection.
func Next[T any](c Connection[T]) Cursor {
	return Cursor{
		After:   c.PageInfo.EndCursor,
		HasMore: c.PageInfo.HasNextPage,
	}
}

// Cursor returns the cursor of the loaded issue connection.
// The second result is false when no repository is loaded.
func (s AppState) Cursor() (Cursor, bool) {
	repo := s.Repository()
	if repo == nil {
		return Cursor{}, false
	}
	return Next(repo.Issues), true
}
