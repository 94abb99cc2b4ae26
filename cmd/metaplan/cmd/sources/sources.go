// SPDX-License-Identifier: Apache-2.0

package sources

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tinyhumanmd/metaplan/internal/core/format"
	"github.com/tinyhumanmd/metaplan/internal/metaplan"
)

// GetSourcesCmd returns the sources command
func GetSourcesCmd() *cobra.Command {
	sourcesCmd := &cobra.Command{
		Use:   "sources",
		Short: "List the context files a run would load",
		Run: func(cmd *cobra.Command, args []string) {
			repoRoot := viper.GetString("repo-root")
			includeOptional, _ := cmd.Flags().GetBool("include-optional")
			asJSON, _ := cmd.Flags().GetBool("json")

			paths := append([]string{}, metaplan.DefaultRequiredContextFiles...)
			required := len(paths)
			if includeOptional {
				paths = append(paths, metaplan.DefaultOptionalContextFiles...)
			}

			records := make([]interface{}, 0, len(paths))
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Path", "Type", "Required", "Exists", "Hash"})

			for i, rel := range paths {
				record, err := metaplan.ReadSource(repoRoot, rel, i < required)
				if err != nil {
					fmt.Printf("Error reading context file: %v\n", err)
					os.Exit(1)
				}
				records = append(records, record)
				tw.AppendRow(table.Row{record.Path, record.Type, record.Required, record.Exists, record.Hash})
			}

			if asJSON {
				data, err := format.MarshalJSON(records)
				if err != nil {
					fmt.Printf("Error formatting sources: %v\n", err)
					os.Exit(1)
				}
				fmt.Print(string(data))
				return
			}
			tw.Render()
		},
	}

	sourcesCmd.Flags().Bool("include-optional", false, "also list the default optional context files")
	sourcesCmd.Flags().Bool("json", false, "print as JSON instead of a table")

	return sourcesCmd
}
