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

// Package main implements the sirseer-issues command-line interface.
// It pages through the open issues of a GitHub repository, together with
// each issue's latest reactions, and exports them as NDJSON. It can also
// star or unstar the repository.
//
// Usage:
//
//	sirseer-issues fetch <org>/<repo> [flags]
//	sirseer-issues star <org>/<repo> [--unstar]
//
// Example:
//
//	export GITHUB_TOKEN=your_token
//	sirseer-issues fetch facebook/react --all --output issues.ndjson --summary
//
// A .env file in the working directory is loaded before flags are read.
// Diagnostic logging is enabled with -v=1.
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authentication/authorization error
//   - 3: Network error
package main
