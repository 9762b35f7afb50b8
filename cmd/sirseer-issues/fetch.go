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
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	relaierrors "github.com/sirseerhq/sirseer-issues/internal/errors"
	"github.com/sirseerhq/sirseer-issues/internal/metadata"
	"github.com/sirseerhq/sirseer-issues/internal/output"
	"github.com/sirseerhq/sirseer-issues/internal/session"
	"github.com/sirseerhq/sirseer-issues/pkg/version"
)

// fetchOptions controls how many pages a fetch walks and what it reports.
type fetchOptions struct {
	all      bool
	pages    int
	summary  bool
	progress bool
	params   metadata.SessionParams
}

func newFetchCommand() *cobra.Command {
	var (
		common     commonFlags
		opts       fetchOptions
		outputFile string
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "fetch <org>/<repo>",
		Short: "Fetch open issues and their latest reactions",
		Long: `Fetch the open issues of a GitHub repository, with the latest reactions on
each issue, and output them in NDJSON format.

The repository must be specified in the format: <org>/<repo>
For example: facebook/react, golang/go

By default one page is fetched. Use --pages to fetch more, or --all to page
until the repository has no more open issues.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			cfg, sess, err := common.setup(args[0])
			if err != nil {
				return err
			}
			defer sess.Close()
			opts.progress = showProgress(cfg)

			owner, repo, _ := session.ParsePath(args[0])
			opts.params = metadata.SessionParams{
				Organization:      owner,
				Repository:        repo,
				FetchAll:          opts.all,
				PageSize:          cfg.GetPageSize(args[0]),
				ReactionsPerIssue: cfg.Defaults.ReactionsPerIssue,
				StarPolicy:        cfg.Defaults.StarPolicy,
			}

			var writer output.OutputWriter
			if outputFile == "" {
				writer = output.NewWriter(os.Stdout)
			} else {
				fileWriter, fErr := output.NewFileWriter(outputFile)
				if fErr != nil {
					return fErr
				}
				writer = fileWriter
			}
			defer writer.Close()

			written, err := runFetch(ctx, sess, args[0], opts, writer, os.Stderr)
			if err != nil {
				return err
			}

			if written > 0 {
				fmt.Fprintf(os.Stderr, "Successfully fetched %d issues\n", written)
			} else {
				fmt.Fprintf(os.Stderr, "No open issues found in %s\n", args[0])
			}
			return nil
		},
	}

	common.register(cmd.Flags())
	cmd.Flags().StringVar(&outputFile, "output", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Fetch all open issues from the repository")
	cmd.Flags().IntVar(&opts.pages, "pages", 1, "Number of pages to fetch when --all is not set")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "Print a JSON session summary to stderr")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "Overall time limit for the fetch")

	return cmd
}

// runFetch loads the first page of path, then pages on as opts asks,
// streaming each merged page to writer. It returns the number of issues
// written.
func runFetch(ctx context.Context, sess *session.Session, path string, opts fetchOptions, writer output.OutputWriter, stderr io.Writer) (int, error) {
	if opts.summary {
		defer writeSummary(sess, opts.params, stderr)
	}

	if opts.progress {
		fmt.Fprintf(stderr, "Fetching open issues from %s...", path)
	}

	if err := sess.Fetch(ctx, path); err != nil {
		clearProgress(opts, stderr)
		return 0, err
	}

	written, err := output.Export(writer, sess.State(), 0)
	if err != nil {
		return written, fmt.Errorf("failed to write issue: %w", err)
	}

	for page := 1; opts.all || page < opts.pages; page++ {
		reportProgress(opts, stderr, sess, page)

		err := sess.FetchMore(ctx)
		if errors.Is(err, relaierrors.ErrNoMorePages) {
			break
		}
		if err != nil {
			clearProgress(opts, stderr)
			return written, err
		}

		written, err = output.Export(writer, sess.State(), written)
		if err != nil {
			return written, fmt.Errorf("failed to write issue: %w", err)
		}
	}

	clearProgress(opts, stderr)
	return written, nil
}

// reportProgress redraws the progress line with the accumulated count.
func reportProgress(opts fetchOptions, stderr io.Writer, sess *session.Session, page int) {
	if !opts.progress {
		return
	}
	repo := sess.State().Repository()
	if repo == nil {
		return
	}

	total := repo.Issues.TotalCount
	current := len(repo.Issues.Edges)
	percent := 100.0
	if total > 0 {
		percent = float64(current) * 100 / float64(total)
	}
	fmt.Fprintf(stderr, "\rProgress: %d / %d issues [%.1f%%] | Page %d", current, total, percent, page)
}

func clearProgress(opts fetchOptions, stderr io.Writer) {
	if opts.progress {
		fmt.Fprintf(stderr, "\r\033[K")
	}
}

func writeSummary(sess *session.Session, params metadata.SessionParams, stderr io.Writer) {
	if err := metadata.WriteMetadataToWriter(sess.Tracker().GenerateMetadata(version.Version, params), stderr); err != nil {
		fmt.Fprintf(stderr, "failed to write summary: %v\n", err)
	}
}
