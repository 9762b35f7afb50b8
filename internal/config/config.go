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

// Package config provides configuration management for sirseer-issues with
// support for multiple configuration sources and a well-defined precedence
// order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. Repository-specific configuration
//  4. Global configuration file
//  5. Built-in defaults
//
// Files ending in .toml are parsed as TOML; everything else is parsed as YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/sirseerhq/sirseer-issues/internal/state"
)

const maxPageSize = 100

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file. Otherwise, it searches standard locations:
//   - .sirseer-issues.yaml (current directory)
//   - .sirseer-issues.yml (current directory)
//   - .sirseer-issues.toml (current directory)
//   - ~/.sirseer/issues.yaml
//   - ~/.sirseer/issues.toml
//
// Returns an error if the specified config file cannot be loaded, but will
// succeed with defaults if no config file is found in standard locations.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		home := homeDir()
		defaultPaths := []string{
			".sirseer-issues.yaml",
			".sirseer-issues.yml",
			".sirseer-issues.toml",
			filepath.Join(home, ".sirseer", "issues.yaml"),
			filepath.Join(home, ".sirseer", "issues.toml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// loadConfigFile reads and parses a YAML or TOML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if endpoint := os.Getenv("GITHUB_GRAPHQL_ENDPOINT"); endpoint != "" {
		cfg.GitHub.GraphQLEndpoint = endpoint
	}

	if pageSize := os.Getenv("SIRSEER_PAGE_SIZE"); pageSize != "" {
		if size, err := parsePositiveInt(pageSize); err == nil {
			cfg.Defaults.PageSize = size
		}
	}
	if reactions := os.Getenv("SIRSEER_REACTIONS_PER_ISSUE"); reactions != "" {
		if n, err := parsePositiveInt(reactions); err == nil {
			cfg.Defaults.ReactionsPerIssue = n
		}
	}
	if policy := os.Getenv("SIRSEER_STAR_POLICY"); policy != "" {
		cfg.Defaults.StarPolicy = policy
	}

	if rps := os.Getenv("SIRSEER_REQUESTS_PER_SECOND"); rps != "" {
		if v, err := strconv.ParseFloat(strings.TrimSpace(rps), 64); err == nil && v >= 0 {
			cfg.RateLimit.RequestsPerSecond = v
		}
	}
	if progress := os.Getenv("SIRSEER_SHOW_PROGRESS"); progress != "" {
		cfg.RateLimit.ShowProgress = parseBool(progress)
	}
}

func homeDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home = os.Getenv("USERPROFILE") // Windows
	}
	return home
}

// parsePositiveInt parses a string to a positive integer
func parsePositiveInt(s string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s': %w", s, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("value must be positive, got: %d", i)
	}
	return i, nil
}

// parseBool parses various boolean representations
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "yes" || s == "1" || s == "on"
}

// GetPageSize returns the effective page size for a repository, taking
// into account repository-specific overrides.
func (c *Config) GetPageSize(repo string) int {
	if repoConfig, ok := c.Repositories[repo]; ok && repoConfig.PageSize > 0 {
		return repoConfig.PageSize
	}
	return c.Defaults.PageSize
}

// GetStarPolicy returns the configured star policy.
func (c *Config) GetStarPolicy() (state.StarPolicy, error) {
	return state.ParseStarPolicy(c.Defaults.StarPolicy)
}

// Validate checks if the configuration contains valid values. This should
// be called after loading configuration to catch invalid settings early.
func (c *Config) Validate() error {
	if c.Defaults.PageSize <= 0 {
		return fmt.Errorf("default page size must be positive, got: %d", c.Defaults.PageSize)
	}
	if c.Defaults.PageSize > maxPageSize {
		return fmt.Errorf("default page size %d exceeds GitHub API limit of %d", c.Defaults.PageSize, maxPageSize)
	}
	if c.Defaults.ReactionsPerIssue <= 0 || c.Defaults.ReactionsPerIssue > maxPageSize {
		return fmt.Errorf("reactions per issue must be between 1 and %d, got: %d", maxPageSize, c.Defaults.ReactionsPerIssue)
	}
	for repo, rc := range c.Repositories {
		if rc.PageSize > maxPageSize {
			return fmt.Errorf("page size %d for %s exceeds GitHub API limit of %d", rc.PageSize, repo, maxPageSize)
		}
	}
	if _, err := c.GetStarPolicy(); err != nil {
		return err
	}
	if c.RateLimit.RequestsPerSecond < 0 {
		return fmt.Errorf("requests per second cannot be negative, got: %g", c.RateLimit.RequestsPerSecond)
	}
	if c.GitHub.GraphQLEndpoint == "" {
		return fmt.Errorf("GitHub GraphQL endpoint cannot be empty")
	}
	return nil
}
