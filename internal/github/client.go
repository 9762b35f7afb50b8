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

	"github.com/sirseerhq/sirseer-issues/internal/state"
)

// Client defines the interface for interacting with GitHub's API.
// This interface allows for easy mocking in tests.
type Client interface {
	// FetchIssues retrieves the organization, repository and one page of open
	// issues. Pass the previous page's end cursor in opts.After to continue.
	FetchIssues(ctx context.Context, owner, repo string, opts FetchOptions) (*state.Fetched, error)

	// AddStar stars the repository with the given node id for the viewer.
	AddStar(ctx context.Context, repoID string) (*state.StarResult, error)

	// RemoveStar removes the viewer's star from the repository with the given node id.
	RemoveStar(ctx context.Context, repoID string) (*state.StarResult, error)
}
