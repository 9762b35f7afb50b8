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

// Package metadata tracks statistics about a browsing session and renders
// them as a JSON summary.
//
// The summary serves two purposes:
//   - Troubleshooting, by recording the parameters and error counts of a run
//   - Checking pagination, by comparing accumulated issues with the server's total
package metadata

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	// MethodVersion represents the current GraphQL query version
	MethodVersion = "graphql-issues-reactions-v1"
)

// Tracker collects statistics during a session. All methods are safe to
// call concurrently.
type Tracker struct {
	mu           sync.Mutex
	id           ulid.ULID
	startTime    time.Time
	apiCallCount int
	pageStats    PageStats
	errorStats   ErrorStats
	starStats    StarStats
}

// PageStats holds pagination counters.
type PageStats struct {
	Pages       int  // Pages committed
	Issues      int  // Edges accumulated after the last commit
	TotalIssues int  // Server totalCount from the last commit
	Exhausted   bool // Last committed page had no next page
}

// ErrorStats counts failed or discarded responses.
type ErrorStats struct {
	Payload   int
	Transport int
	Stale     int
}

// StarStats counts star mutations.
type StarStats struct {
	Mutations  int
	RolledBack int
}

// New creates a new metadata tracker and initializes it with the current time.
func New() *Tracker {
	return &Tracker{
		id:        ulid.Make(),
		startTime: time.Now(),
	}
}

// ID returns the session id.
func (t *Tracker) ID() string {
	return t.id.String()
}

// IncrementAPICall records that an API call was made.
func (t *Tracker) IncrementAPICall() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.apiCallCount++
}

// RecordPage records a committed page. accumulated is the edge count after
// the merge; total is the connection's totalCount.
func (t *Tracker) RecordPage(accumulated, total int, hasMore bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pageStats.Pages++
	t.pageStats.Issues = accumulated
	t.pageStats.TotalIssues = total
	t.pageStats.Exhausted = !hasMore
}

// RecordPayloadErrors records a response that carried an errors array.
func (t *Tracker) RecordPayloadErrors() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errorStats.Payload++
}

// RecordTransportError records a request that failed before a response.
func (t *Tracker) RecordTransportError() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errorStats.Transport++
}

// RecordStale records a discarded stale response.
func (t *Tracker) RecordStale() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errorStats.Stale++
}

// RecordMutation records a finished star mutation.
func (t *Tracker) RecordMutation(rolledBack bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.starStats.Mutations++
	if rolledBack {
		t.starStats.RolledBack++
	}
}

// Pages returns the pagination counters.
func (t *Tracker) Pages() PageStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pageStats
}

// Errors returns the error counters.
func (t *Tracker) Errors() ErrorStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.errorStats
}

// GenerateMetadata creates a SessionMetadata capturing the session so far.
func (t *Tracker) GenerateMetadata(toolVersion string, params SessionParams) *SessionMetadata {
	t.mu.Lock()
	defer t.mu.Unlock()

	completedAt := time.Now()

	return &SessionMetadata{
		ToolVersion:   toolVersion,
		MethodVersion: MethodVersion,
		SessionID:     t.id.String(),
		Parameters:    params,
		Results: SessionResults{
			Pages:           t.pageStats.Pages,
			Issues:          t.pageStats.Issues,
			TotalIssues:     t.pageStats.TotalIssues,
			Exhausted:       t.pageStats.Exhausted,
			PayloadErrors:   t.errorStats.Payload,
			TransportErrors: t.errorStats.Transport,
			StaleResponses:  t.errorStats.Stale,
			Mutations:       t.starStats.Mutations,
			MutationsFailed: t.starStats.RolledBack,
			APICallCount:    t.apiCallCount,
			Duration:        completedAt.Sub(t.startTime).Round(time.Millisecond).String(),
			StartedAt:       t.startTime,
			CompletedAt:     completedAt,
		},
	}
}

// WriteMetadataToWriter writes metadata as indented JSON to w.
func WriteMetadataToWriter(metadata *SessionMetadata, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metadata)
}
