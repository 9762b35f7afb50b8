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

// Status is the pagination state of a session.
type Status int

const (
	// StatusEmpty means no organization is loaded.
	StatusEmpty Status = iota
	// StatusLoading means the first page of a path is in flight.
	StatusLoading
	// StatusReady means a repository is displayed.
	StatusReady
	// StatusLoadingMore means a follow-up page is in flight.
	StatusLoadingMore
	// StatusError means the last response carried errors or failed.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusLoadingMore:
		return "loading-more"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}
