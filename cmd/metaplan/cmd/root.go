// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tinyhumanmd/metaplan/cmd/metaplan/cmd/generate"
	"github.com/tinyhumanmd/metaplan/cmd/metaplan/cmd/sources"
	"github.com/tinyhumanmd/metaplan/internal/version"
)

// Create the root command
var rootCmd = &cobra.Command{
	Use:   "metaplan",
	Short: "Metaplan - Planning Document Resolver",
	Long: `Metaplan ingests the fix queue, website review, and GTM strategy
documents and resolves them into a deduplicated, prioritized,
dependency-ordered action backlog with rendered report, wave, prompt,
and evidence views.`,
	Version: fmt.Sprintf("%s (commit: %s)", version.Version, version.Commit),
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	viper.SetEnvPrefix("META_PLAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.PersistentFlags().String("repo-root", ".", "repository root containing the context files")
	_ = viper.BindPFlag("repo-root", rootCmd.PersistentFlags().Lookup("repo-root"))

	rootCmd.AddCommand(generate.GetGenerateCmd())
	rootCmd.AddCommand(sources.GetSourcesCmd())
}
