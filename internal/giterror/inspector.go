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

package giterror

import (
	"errors"
	"reflect"
	"strings"
)

// Kind classifies a client error.
type Kind int

const (
	KindUnknown Kind = iota
	KindRateLimit
	KindAuth
	KindNotFound
	KindComplexity
	KindNetwork
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindRateLimit:
		return "rate-limit"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not-found"
	case KindComplexity:
		return "complexity"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Inspector identifies the kind of an error returned by the GitHub API client.
type Inspector interface {
	// Classify returns the first matching kind, checking rate limits before
	// auth since GitHub answers both with 403.
	Classify(err error) Kind

	// IsAuthError returns true if the error represents an authentication or authorization failure.
	IsAuthError(err error) bool

	// IsNotFoundError returns true if the error represents a resource not found error.
	IsNotFoundError(err error) bool

	// IsRateLimitError returns true if the error represents a rate limit error.
	IsRateLimitError(err error) bool

	// IsComplexityError returns true if the error represents a query complexity error.
	IsComplexityError(err error) bool

	// IsNetworkError returns true if the error represents a network connectivity error.
	IsNetworkError(err error) bool
}

// markers lists the lowercase substrings that identify each kind, in
// classification order.
var markers = []struct {
	kind    Kind
	needles []string
}{
	{KindRateLimit, []string{"rate limit", "429", "secondary rate"}},
	{KindAuth, []string{"401", "403", "unauthorized", "forbidden", "bad credentials", "authentication"}},
	{KindNotFound, []string{"404", "not found", "could not resolve to"}},
	{KindComplexity, []string{"complexity", "exceeds maximum"}},
	{KindNetwork, []string{
		"connection refused", "connection reset", "no such host", "timeout",
		"deadline exceeded", "temporary failure", "dial tcp", "tls handshake",
		"network is unreachable",
	}},
}

// GitHubErrorInspector matches error messages against known GitHub and
// net/http failure texts.
type GitHubErrorInspector struct{}

// NewInspector returns the default Inspector.
func NewInspector() Inspector {
	return &GitHubErrorInspector{}
}

func (i *GitHubErrorInspector) Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	msg := strings.ToLower(err.Error())
	for _, m := range markers {
		if containsAny(msg, m.needles) {
			return m.kind
		}
	}
	return KindUnknown
}

func (i *GitHubErrorInspector) IsAuthError(err error) bool {
	return i.matches(err, KindAuth)
}

func (i *GitHubErrorInspector) IsNotFoundError(err error) bool {
	return i.matches(err, KindNotFound)
}

func (i *GitHubErrorInspector) IsRateLimitError(err error) bool {
	return i.matches(err, KindRateLimit)
}

func (i *GitHubErrorInspector) IsComplexityError(err error) bool {
	return i.matches(err, KindComplexity)
}

func (i *GitHubErrorInspector) IsNetworkError(err error) bool {
	return i.matches(err, KindNetwork)
}

// matches checks a single kind independently of classification order.
func (i *GitHubErrorInspector) matches(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, m := range markers {
		if m.kind == kind {
			return containsAny(msg, m.needles)
		}
	}
	return false
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// PayloadMessages extracts the messages of a GraphQL errors array.
//
// The GraphQL client returns the response's errors array itself as the error
// value when the HTTP exchange succeeded, as a slice of structs with a Message
// field. Any other error (non-200 status, dial failure, decode failure) is a
// transport error and yields ok == false.
func PayloadMessages(err error) (messages []string, ok bool) {
	for err != nil {
		if msgs, found := sliceMessages(reflect.ValueOf(err)); found {
			return msgs, true
		}
		err = errors.Unwrap(err)
	}
	return nil, false
}

func sliceMessages(v reflect.Value) ([]string, bool) {
	if v.Kind() != reflect.Slice || v.Len() == 0 {
		return nil, false
	}

	msgs := make([]string, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		e := v.Index(i)
		if e.Kind() == reflect.Ptr {
			e = e.Elem()
		}
		if e.Kind() != reflect.Struct {
			return nil, false
		}
		m := e.FieldByName("Message")
		if !m.IsValid() || m.Kind() != reflect.String {
			return nil, false
		}
		msgs = append(msgs, m.String())
	}
	return msgs, true
}
