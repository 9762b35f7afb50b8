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

// Package github provides a client for GitHub's GraphQL API that reads a
// repository's open issues page by page and toggles the viewer's star on it.
//
// The package includes:
//   - A Client interface for fetching issue pages and starring repositories
//   - A GraphQL implementation using the shurcooL/graphql library
//   - HTTP transports for authentication, request pacing and response size limits
//   - A scripted mock client for testing
//
// Responses that arrive intact but carry a GraphQL errors array are returned
// as data: the errors travel inside state.Fetched or state.StarResult. Only
// transport failures are returned as Go errors.
//
// Basic usage:
//
//	client := github.NewGraphQLClient("your-github-token", "https://api.github.com/graphql")
//	page, err := client.FetchIssues(ctx, "facebook", "react", github.FetchOptions{
//	    PageSize: 10,
//	})
//	if err != nil {
//	    // Transport failure
//	}
//	for _, msg := range page.Errors {
//	    // Errors reported by the API
//	}
package github
