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

// Package session orchestrates fetching, paging and starring for one search
// path at a time.
//
// A Session owns the displayed state.AppState. Network calls run on the
// caller's goroutine; their results are committed by a single writer
// goroutine in arrival order, so a page merge and a star reconcile that land
// close together are applied one after the other against the latest state.
//
// Every Fetch opens a new generation. A response committed after its
// generation was replaced by a newer Fetch is discarded with
// errors.ErrStaleResponse instead of overwriting the newer path.
//
// Status moves through Empty, Loading, Ready and LoadingMore, with Error
// reachable from either loading status. Error is not terminal: the next
// successful fetch clears it.
package session
