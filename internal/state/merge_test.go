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

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_AppendsPagesInFetchOrder(t *testing.T) {
	pages := [][]string{
		{"1", "2"},
		{"3", "4", "5"},
		{"6"},
		{"7", "8"},
	}

	var st AppState
	cursor := ""
	var want []string
	for i, ids := range pages {
		hasNext := i < len(pages)-1
		st = Merge(st, cursor, issuesPage("facebook/react", ids, fmt.Sprintf("c%d", i+1), hasNext))
		want = append(want, ids...)

		next, ok := st.Cursor()
		require.True(t, ok)
		cursor = next.After
	}

	assert.Equal(t, want, issueIDs(st))
}

func TestMerge_NoCursorReplaces(t *testing.T) {
	previous := []AppState{
		{},
		Merge(AppState{}, "", issuesPage("facebook/react", []string{"1", "2"}, "c1", true)),
		{Path: "golang/go", Errors: []GraphError{{Message: "Not Found"}}},
	}

	fetched := issuesPage("facebook/react", []string{"9"}, "c9", false)
	fetched.Errors = []GraphError{{Message: "partial"}}

	for _, prev := range previous {
		got := Merge(prev, "", fetched)
		assert.Same(t, fetched.Organization, got.Organization)
		assert.Equal(t, fetched.Errors, got.Errors)
		assert.Equal(t, "facebook/react", got.Path)
	}
}

func TestMerge_TakesAuthoritativeFieldsFromFetchedPage(t *testing.T) {
	first := Merge(AppState{}, "", issuesPage("facebook/react", []string{"1"}, "c1", true))

	second := issuesPage("facebook/react", []string{"2"}, "c2", false)
	second.Organization.Repository.Issues.TotalCount = 2
	second.Organization.Repository.Stargazers.TotalCount = 50
	second.Organization.Repository.ViewerHasStarred = true

	got := Merge(first, "c1", second)
	repo := got.Repository()
	require.NotNil(t, repo)

	assert.Equal(t, []string{"1", "2"}, issueIDs(got))
	assert.Equal(t, 2, repo.Issues.TotalCount)
	assert.Equal(t, PageInfo{EndCursor: "c2", HasNextPage: false}, repo.Issues.PageInfo)
	assert.Equal(t, 50, repo.Stargazers.TotalCount)
	assert.True(t, repo.ViewerHasStarred)
}

func TestMerge_EmptyPageChangesOnlyPageInfo(t *testing.T) {
	first := Merge(AppState{}, "", issuesPage("facebook/react", []string{"1", "2"}, "c1", true))

	empty := issuesPage("facebook/react", nil, "", false)
	empty.Organization.Repository.Issues.TotalCount = 2

	got := Merge(first, "c1", empty)

	assert.Equal(t, issueIDs(first), issueIDs(got))
	assert.Equal(t, 2, got.Repository().Issues.TotalCount)
	assert.False(t, got.Repository().Issues.PageInfo.HasNextPage)
}

func TestMerge_DoesNotAliasPrevious(t *testing.T) {
	first := Merge(AppState{}, "", issuesPage("facebook/react", []string{"1", "2"}, "c1", true))
	second := Merge(first, "c1", issuesPage("facebook/react", []string{"3"}, "c2", true))
	third := Merge(second, "c2", issuesPage("facebook/react", []string{"4"}, "c3", false))

	assert.Equal(t, []string{"1", "2"}, issueIDs(first))
	assert.Equal(t, []string{"1", "2", "3"}, issueIDs(second))
	assert.Equal(t, []string{"1", "2", "3", "4"}, issueIDs(third))
}

func TestMerge_ErrorPayload(t *testing.T) {
	notFound := Fetched{
		Path:   "facebook/react",
		Errors: []GraphError{{Message: "Not Found"}},
	}

	t.Run("without cursor organization is absent", func(t *testing.T) {
		prev := Merge(AppState{}, "", issuesPage("facebook/react", []string{"1"}, "c1", true))
		got := Merge(prev, "", notFound)

		assert.Nil(t, got.Organization)
		assert.Equal(t, []GraphError{{Message: "Not Found"}}, got.Errors)
	})

	t.Run("with cursor organization is unchanged", func(t *testing.T) {
		prev := Merge(AppState{}, "", issuesPage("facebook/react", []string{"1", "2"}, "c1", true))
		got := Merge(prev, "c1", notFound)

		assert.Same(t, prev.Organization, got.Organization)
		assert.Equal(t, []string{"1", "2"}, issueIDs(got))
		assert.True(t, got.HasErrors())
	})

	t.Run("later successful page clears errors", func(t *testing.T) {
		prev := Merge(AppState{}, "", issuesPage("facebook/react", []string{"1"}, "c1", true))
		failed := Merge(prev, "c1", notFound)
		got := Merge(failed, "c1", issuesPage("facebook/react", []string{"2"}, "c2", false))

		assert.Nil(t, got.Errors)
		assert.Equal(t, []string{"1", "2"}, issueIDs(got))
	})
}

func TestMerge_CursorWithoutBaseFallsBackToReplacement(t *testing.T) {
	fetched := issuesPage("facebook/react", []string{"3"}, "c3", false)
	got := Merge(AppState{Path: "facebook/react"}, "c2", fetched)

	assert.Same(t, fetched.Organization, got.Organization)
}

func TestWithErrors(t *testing.T) {
	st := Merge(AppState{}, "", issuesPage("facebook/react", []string{"1"}, "c1", true))
	errs := []GraphError{{Message: "network connection failed"}}

	got := st.WithErrors(errs)
	errs[0].Message = "changed"

	assert.Same(t, st.Organization, got.Organization)
	assert.Equal(t, "network connection failed", got.Errors[0].Message)
	assert.Nil(t, st.Errors)
}
