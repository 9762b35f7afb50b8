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

import "fmt"

func issuesPage(path string, ids []string, endCursor string, hasNext bool) Fetched {
	edges := make([]Edge[Issue], 0, len(ids))
	for _, id := range ids {
		edges = append(edges, Edge[Issue]{Node: Issue{
			ID:    id,
			Title: fmt.Sprintf("Issue %s", id),
			URL:   fmt.Sprintf("https://github.com/%s/issues/%s", path, id),
		}})
	}

	return Fetched{
		Path: path,
		Organization: &Organization{
			Name: "facebook",
			URL:  "https://github.com/facebook",
			Repository: &Repository{
				ID:         "R_react",
				Name:       "react",
				URL:        "https://github.com/" + path,
				Stargazers: Stargazers{TotalCount: 42},
				Issues: Connection[Issue]{
					Edges:      edges,
					TotalCount: 100,
					PageInfo:   PageInfo{EndCursor: endCursor, HasNextPage: hasNext},
				},
			},
		},
	}
}

func issueIDs(s AppState) []string {
	repo := s.Repository()
	if repo == nil {
		return nil
	}
	ids := make([]string, 0, len(repo.Issues.Edges))
	for _, issue := range repo.Issues.Nodes() {
		ids = append(ids, issue.ID)
	}
	return ids
}

func loadedRepo(count int, starred bool) AppState {
	f := issuesPage("facebook/react", []string{"1"}, "c1", true)
	f.Organization.Repository.Stargazers.TotalCount = count
	f.Organization.Repository.ViewerHasStarred = starred
	return Merge(AppState{}, "", f)
}
