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
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/sirseer-issues/internal/session"
)

func newStarCommand() *cobra.Command {
	var (
		common commonFlags
		unstar bool
	)

	cmd := &cobra.Command{
		Use:   "star <org>/<repo>",
		Short: "Star or unstar a GitHub repository",
		Long: `Star a GitHub repository for the authenticated user, or remove the star
with --unstar. Nothing is sent when the repository is already in the
requested state.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			_, sess, err := common.setup(args[0])
			if err != nil {
				return err
			}
			defer sess.Close()

			return runStar(ctx, sess, args[0], !unstar, os.Stderr)
		},
	}

	common.register(cmd.Flags())
	cmd.Flags().BoolVar(&unstar, "unstar", false, "Remove the star instead of adding it")

	return cmd
}

// runStar loads path and toggles its star when it differs from want.
func runStar(ctx context.Context, sess *session.Session, path string, want bool, stderr io.Writer) error {
	if err := sess.Fetch(ctx, path); err != nil {
		return err
	}

	repo := sess.State().Repository()
	if repo == nil {
		return fmt.Errorf("repository %s was not returned", path)
	}

	if repo.ViewerHasStarred == want {
		fmt.Fprintf(stderr, "%s\n", describeRepository(sess.State()))
		return nil
	}

	if err := sess.ToggleStar(ctx, repo.ID, repo.ViewerHasStarred); err != nil {
		return err
	}

	fmt.Fprintf(stderr, "%s\n", describeRepository(sess.State()))
	return nil
}
