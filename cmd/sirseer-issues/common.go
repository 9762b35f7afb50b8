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

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/sirseerhq/sirseer-issues/internal/config"
	relaierrors "github.com/sirseerhq/sirseer-issues/internal/errors"
	"github.com/sirseerhq/sirseer-issues/internal/github"
	"github.com/sirseerhq/sirseer-issues/internal/session"
	"github.com/sirseerhq/sirseer-issues/internal/state"
)

// commonFlags are shared by every command that talks to GitHub.
type commonFlags struct {
	token      string
	configPath string
}

func (f *commonFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.token, "token", "", "GitHub personal access token (overrides the token environment variable)")
	fs.StringVar(&f.configPath, "config", "", "Path to a YAML or TOML config file")
}

// newClient builds the GraphQL client. Tests replace it.
var newClient = func(cfg *config.Config, token string) github.Client {
	return github.NewGraphQLClient(token, cfg.GitHub.GraphQLEndpoint,
		github.WithRequestsPerSecond(cfg.RateLimit.RequestsPerSecond))
}

// setup loads and validates configuration, resolves the token and opens a
// session for path.
func (f *commonFlags) setup(path string) (*config.Config, *session.Session, error) {
	if _, _, err := session.ParsePath(path); err != nil {
		return nil, nil, err
	}

	cfg, err := config.LoadConfig(f.configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	token := getToken(f.token, cfg.GitHub.TokenEnv)
	if token == "" {
		return nil, nil, fmt.Errorf("GitHub token not found. Set %s or use --token flag", cfg.GitHub.TokenEnv)
	}

	policy, err := cfg.GetStarPolicy()
	if err != nil {
		return nil, nil, err
	}

	sess := session.New(newClient(cfg, token),
		session.WithPageSize(cfg.GetPageSize(path)),
		session.WithReactionsPerIssue(cfg.Defaults.ReactionsPerIssue),
		session.WithStarPolicy(policy),
	)
	return cfg, sess, nil
}

// getToken returns the GitHub token from the flag or the named environment variable.
func getToken(flagToken, envName string) string {
	if flagToken != "" {
		return flagToken
	}
	if envName == "" {
		envName = "GITHUB_TOKEN"
	}
	return os.Getenv(envName)
}

// showProgress reports whether progress lines should be drawn on stderr.
func showProgress(cfg *config.Config) bool {
	return cfg.RateLimit.ShowProgress && term.IsTerminal(int(os.Stderr.Fd()))
}

// describeRepository renders the star line for the loaded repository.
func describeRepository(st state.AppState) string {
	repo := st.Repository()
	if repo == nil {
		return st.Path + ": not loaded"
	}
	starred := "not starred"
	if repo.ViewerHasStarred {
		starred = "starred"
	}
	return fmt.Sprintf("%s: %d stargazers (%s)", st.Path, repo.Stargazers.TotalCount, starred)
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, relaierrors.ErrInvalidToken) ||
		errors.Is(err, relaierrors.ErrRepoNotFound) ||
		errors.Is(err, relaierrors.ErrRateLimit) {
		return 2 // Authentication/authorization errors
	}

	if errors.Is(err, relaierrors.ErrNetworkFailure) {
		return 3 // Network errors
	}

	return 1 // General error
}
