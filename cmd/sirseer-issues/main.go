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
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sirseerhq/sirseer-issues/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sirseer-issues",
		Short: "Browse open issues and reactions of GitHub repositories",
		Long: `SirSeer Issues pages through the open issues of a GitHub repository,
with the latest reactions on each issue, and exports them as NDJSON.
It can also star or unstar the repository.`,
		Version:       version.Version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// A missing .env is not an error.
			_ = godotenv.Load()
		},
	}

	// glog registers its flags on the standard flag set.
	_ = flag.Set("logtostderr", "true")
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	rootCmd.AddCommand(newFetchCommand())
	rootCmd.AddCommand(newStarCommand())

	err := rootCmd.Execute()
	glog.Flush()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(mapErrorToExitCode(err))
	}
}
