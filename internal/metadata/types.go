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

// Package metadata types define the structures used for reporting what a
// browsing session did: which path it covered, how many pages and issues it
// accumulated and how its star mutations ended.
package metadata

import (
	"time"
)

// SessionMetadata is the complete summary of one session.
type SessionMetadata struct {
	ToolVersion   string         `json:"tool_version"`
	MethodVersion string         `json:"method_version"`
	SessionID     string         `json:"session_id"`
	Parameters    SessionParams  `json:"parameters"`
	Results       SessionResults `json:"results"`
}

// SessionParams captures the inputs the session was run with.
type SessionParams struct {
	Organization      string `json:"organization"`
	Repository        string `json:"repository"`
	FetchAll          bool   `json:"fetch_all"`
	PageSize          int    `json:"page_size"`
	ReactionsPerIssue int    `json:"reactions_per_issue"`
	StarPolicy        string `json:"star_policy"`
}

// SessionResults contains the counters collected while the session ran.
type SessionResults struct {
	Pages            int       `json:"pages_committed"`
	Issues           int       `json:"issues_accumulated"`
	TotalIssues      int       `json:"issues_total_count"`
	Exhausted        bool      `json:"exhausted"`
	PayloadErrors    int       `json:"payload_errors"`
	TransportErrors  int       `json:"transport_errors"`
	StaleResponses   int       `json:"stale_responses_discarded"`
	Mutations        int       `json:"mutations"`
	MutationsFailed  int       `json:"mutations_rolled_back"`
	APICallCount     int       `json:"api_calls_made"`
	Duration         string    `json:"duration"`
	StartedAt        time.Time `json:"started_at"`
	CompletedAt      time.Time `json:"completed_at"`
}
