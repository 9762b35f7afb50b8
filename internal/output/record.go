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

package output

import (
	"github.com/sirseerhq/sirseer-issues/internal/state"
)

// IssueRecord is one exported line.
type IssueRecord struct {
	Position         int              `json:"position"`
	Organization     string           `json:"organization"`
	Repository       string           `json:"repository"`
	RepositoryID     string           `json:"repository_id"`
	Stargazers       int              `json:"stargazers"`
	ViewerHasStarred bool             `json:"viewer_has_starred"`
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	URL              string           `json:"url"`
	ReactionCount    int              `json:"reaction_count"`
	Reactions        []ReactionRecord `json:"reactions"`
}

// ReactionRecord is one of an issue's latest reactions.
type ReactionRecord struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// Records converts the accumulated issues of st into records, in edge order.
// It returns nil when no repository is loaded.
func Records(st state.AppState) []IssueRecord {
	repo := st.Repository()
	if repo == nil {
		return nil
	}

	records := make([]IssueRecord, 0, len(repo.Issues.Edges))
	for i, issue := range repo.Issues.Nodes() {
		reactions := make([]ReactionRecord, 0, len(issue.Reactions.Edges))
		for _, r := range issue.Reactions.Nodes() {
			reactions = append(reactions, ReactionRecord{ID: r.ID, Content: r.Content})
		}

		records = append(records, IssueRecord{
			Position:         i,
			Organization:     st.Organization.Name,
			Repository:       st.Path,
			RepositoryID:     repo.ID,
			Stargazers:       repo.Stargazers.TotalCount,
			ViewerHasStarred: repo.ViewerHasStarred,
			ID:               issue.ID,
			Title:            issue.Title,
			URL:              issue.URL,
			ReactionCount:    issue.Reactions.TotalCount,
			Reactions:        reactions,
		})
	}
	return records
}

// Export writes the records of st at positions from onward and returns the
// position to pass on the next call. Since merges only append edges, calling
// Export after each page writes every issue exactly once.
func Export(w OutputWriter, st state.AppState, from int) (int, error) {
	records := Records(st)
	if from < 0 {
		from = 0
	}

	next := from
	for ; next < len(records); next++ {
		if err := w.Write(records[next]); err != nil {
			return next, err
		}
	}
	return next, nil
}
