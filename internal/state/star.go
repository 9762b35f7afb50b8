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
	"strings"

	relaierrors "github.com/sirseerhq/sirseer-issues/internal/errors"
)

// StarPolicy decides how the stargazer count moves for a star toggle.
type StarPolicy int

const (
	// Symmetric adds one when starring and removes one when unstarring.
	// The confirmed count is the pre-mutation count adjusted by the change
	// in the server's starred flag.
	Symmetric StarPolicy = iota

	// FixedIncrement always adds one, whether the action stars or unstars.
	FixedIncrement
)

// String returns the config name of the policy.
func (p StarPolicy) String() string {
	switch p {
	case FixedIncrement:
		return "fixed-increment"
	default:
		return "symmetric"
	}
}

// ParseStarPolicy maps a config value to a StarPolicy.
// The empty string selects Symmetric.
func ParseStarPolicy(s string) (StarPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "symmetric":
		return Symmetric, nil
	case "fixed-increment", "fixed":
		return FixedIncrement, nil
	default:
		return Symmetric, fmt.Errorf("unknown star policy %q (want symmetric or fixed-increment)", s)
	}
}

// PendingStar records the repository's star pair as it was before an
// optimistic update, so the update can be reconciled or rolled back.
type PendingStar struct {
	RepositoryID string
	Before       Stargazers
	WasStarred   bool
	Policy       StarPolicy
}

// Adding reports whether the mutation stars the repository.
func (p PendingStar) Adding() bool {
	return !p.WasStarred
}

func (p PendingStar) optimisticCount() int {
	if p.Policy == Symmetric && p.WasStarred {
		return clampCount(p.Before.TotalCount - 1)
	}
	return p.Before.TotalCount + 1
}

func (p PendingStar) confirmedCount(starred bool) int {
	if p.Policy == FixedIncrement {
		return p.Before.TotalCount + 1
	}
	return clampCount(p.Before.TotalCount + boolToInt(starred) - boolToInt(p.WasStarred))
}

// ApplyOptimistic moves the stargazer count of the loaded repository ahead of
// the server. The starred flag keeps its current value until Reconcile.
func ApplyOptimistic(s AppState, repoID string, policy StarPolicy) (AppState, PendingStar, error) {
	repo, err := starTarget(s, repoID)
	if err != nil {
		return s, PendingStar{}, err
	}

	pending := PendingStar{
		RepositoryID: repo.ID,
		Before:       repo.Stargazers,
		WasStarred:   repo.ViewerHasStarred,
		Policy:       policy,
	}

	return withStar(s, pending.optimisticCount(), repo.ViewerHasStarred), pending, nil
}

// Reconcile writes the server's confirmed starred flag and re-derives the
// count from the pre-mutation value recorded in pending.
func Reconcile(s AppState, pending PendingStar, res StarResult) (AppState, error) {
	if _, err := starTarget(s, pending.RepositoryID); err != nil {
		return s, err
	}
	return withStar(s, pending.confirmedCount(res.ViewerHasStarred), res.ViewerHasStarred), nil
}

// Rollback restores the star pair recorded in pending.
func Rollback(s AppState, pending PendingStar) (AppState, error) {
	if _, err := starTarget(s, pending.RepositoryID); err != nil {
		return s, err
	}
	return withStar(s, pending.Before.TotalCount, pending.WasStarred), nil
}

func starTarget(s AppState, repoID string) (*Repository, error) {
	repo := s.Repository()
	if repo == nil {
		return nil, fmt.Errorf("no repository loaded for %q: %w", s.Path, relaierrors.ErrNotReady)
	}
	if repo.ID != repoID {
		return nil, fmt.Errorf("repository %s is no longer displayed: %w", repoID, relaierrors.ErrStaleResponse)
	}
	return repo, nil
}

// KeepStar returns merged carrying the star pair displayed in from, when
// both hold the same repository. Pages fetched before the latest star commit
// carry an older pair than the one on screen.
func KeepStar(merged, from AppState) AppState {
	repo, prev := merged.Repository(), from.Repository()
	if repo == nil || prev == nil || repo.ID != prev.ID {
		return merged
	}
	return withStar(merged, prev.Stargazers.TotalCount, prev.ViewerHasStarred)
}

// withStar is the only writer of the stargazer pair.
func withStar(s AppState, count int, starred bool) AppState {
	org := *s.Organization
	repo := *org.Repository
	repo.Stargazers = Stargazers{TotalCount: count}
	repo.ViewerHasStarred = starred
	org.Repository = &repo
	s.Organization = &org
	return s
}

func clampCount(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
