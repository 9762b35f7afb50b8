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

// Package config types define the configuration structures used throughout
// sirseer-issues. These types represent settings that can be loaded from
// YAML or TOML configuration files, environment variables, or command-line flags.
package config

// Config represents the complete configuration for sirseer-issues.
type Config struct {
	GitHub       GitHubConfig          `yaml:"github" toml:"github"`
	Defaults     DefaultsConfig        `yaml:"defaults" toml:"defaults"`
	Repositories map[string]RepoConfig `yaml:"repositories" toml:"repositories"`
	RateLimit    RateLimitConfig       `yaml:"rate_limit" toml:"rate_limit"`
}

// GitHubConfig contains the GraphQL endpoint and the name of the environment
// variable holding the token. A custom endpoint targets GitHub Enterprise.
type GitHubConfig struct {
	GraphQLEndpoint string `yaml:"graphql_endpoint" toml:"graphql_endpoint"`
	TokenEnv        string `yaml:"token_env" toml:"token_env"`
}

// DefaultsConfig contains settings that apply to every session unless
// overridden by repository-specific settings or command-line flags.
type DefaultsConfig struct {
	PageSize          int    `yaml:"page_size" toml:"page_size"`
	ReactionsPerIssue int    `yaml:"reactions_per_issue" toml:"reactions_per_issue"`
	StarPolicy        string `yaml:"star_policy" toml:"star_policy"`
}

// RepoConfig contains repository-specific overrides, keyed by "org/repo".
type RepoConfig struct {
	PageSize int `yaml:"page_size" toml:"page_size"`
}

// RateLimitConfig controls client-side request pacing.
// Zero RequestsPerSecond disables pacing.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" toml:"requests_per_second"`
	ShowProgress      bool    `yaml:"show_progress" toml:"show_progress"`
}

// DefaultConfig returns a Config with defaults suitable for public GitHub.com.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			GraphQLEndpoint: "https://api.github.com/graphql",
			TokenEnv:        "GITHUB_TOKEN",
		},
		Defaults: DefaultsConfig{
			PageSize:          10,
			ReactionsPerIssue: 3,
			StarPolicy:        "symmetric",
		},
		Repositories: make(map[string]RepoConfig),
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2,
			ShowProgress:      true,
		},
	}
}
