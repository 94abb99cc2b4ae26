// SPDX-License-Identifier: Apache-2.0

package generate

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tinyhumanmd/metaplan/internal/metaplan"
)

// GetGenerateCmd returns the generate command
func GetGenerateCmd() *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Resolve the planning documents into an action backlog",
		Long: `Generate reads the required context files, merges overlapping
findings, prioritizes them, derives dependencies, and writes the report,
backlog, waves, prompt, and evidence documents.`,
		Run: func(cmd *cobra.Command, args []string) {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			verbose, _ := cmd.Flags().GetBool("verbose")
			rulesFile, _ := cmd.Flags().GetString("rules")
			outputDir, _ := cmd.Flags().GetString("output-dir")
			optionalFiles, _ := cmd.Flags().GetStringSlice("optional-context-files")

			contextFiles, _ := cmd.Flags().GetStringSlice("context-files")
			if len(contextFiles) == 0 {
				contextFiles = metaplan.ParseContextList(os.Getenv("META_PLAN_CONTEXT_FILES"))
			}

			options := metaplan.GenerateOptions{
				RepoRoot:             viper.GetString("repo-root"),
				OutputDir:            outputDir,
				OutDate:              viper.GetString("out-date"),
				Rounds:               viper.GetInt("rounds"),
				Strict:               viper.GetBool("strict"),
				IncludeOptional:      viper.GetBool("include-optional"),
				WriteOutputs:         !dryRun,
				ContextFiles:         contextFiles,
				OptionalContextFiles: optionalFiles,
				RulesFile:            rulesFile,
				VerboseLogging:       verbose,
			}

			result, err := metaplan.Generate(options)
			if err != nil {
				fmt.Printf("Error generating action plan: %v\n", err)
				os.Exit(1)
			}

			fmt.Println("Meta action plan resolution complete.")
			fmt.Printf("Actions: %d\n", len(result.Backlog.Actions))
			for _, w := range result.Backlog.Warnings {
				fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
			}
			if dryRun {
				fmt.Println("Dry run: no files written.")
				return
			}
			fmt.Printf("Report: %s\n", result.Files["report"])
			fmt.Printf("Backlog: %s\n", result.Files["backlog"])
		},
	}

	generateCmd.Flags().String("out-date", "", "date stamp used in output file names (defaults to today)")
	generateCmd.Flags().Int("rounds", 20, "maximum merge convergence rounds")
	generateCmd.Flags().Bool("strict", false, "fail on missing required context files or an empty backlog")
	generateCmd.Flags().Bool("include-optional", false, "also load the default optional context files")
	generateCmd.Flags().StringSlice("context-files", nil, "override the required context file list")
	generateCmd.Flags().StringSlice("optional-context-files", nil, "override the optional context file list")
	generateCmd.Flags().String("rules", "", "path to an adjustment rules file (YAML or JSON)")
	generateCmd.Flags().String("output-dir", "", "directory for output documents (defaults to <repo-root>/docs)")
	generateCmd.Flags().Bool("dry-run", false, "resolve and report without writing output files")
	generateCmd.Flags().BoolP("verbose", "v", false, "enable verbose output")

	_ = viper.BindPFlag("out-date", generateCmd.Flags().Lookup("out-date"))
	_ = viper.BindPFlag("rounds", generateCmd.Flags().Lookup("rounds"))
	_ = viper.BindPFlag("strict", generateCmd.Flags().Lookup("strict"))
	_ = viper.BindPFlag("include-optional", generateCmd.Flags().Lookup("include-optional"))

	return generateCmd
}
