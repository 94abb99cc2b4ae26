// +build integration

// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyhumanmd/metaplan/internal/core/format"
	"github.com/tinyhumanmd/metaplan/internal/core/models"
	"github.com/tinyhumanmd/metaplan/internal/metaplan"
)

// TestBasicWorkflow tests the resolver workflow end-to-end
func TestBasicWorkflow(t *testing.T) {
	tempDir := t.TempDir()
	docsDir := filepath.Join(tempDir, "docs")
	require.NoError(t, os.MkdirAll(docsDir, 0755))

	fixQueue := `| Priority | Gate | Severity | Owner | Title | Acceptance |
| --- | --- | --- | --- | --- | --- |
| 1 | G-LEGAL-001 | blocker | analytics | Strip DOB date fields from analytics events | No DOB in payloads |
| 2 | G-MED-002 | major | logic | Make catch-up dosing engine date-aware | Doses anchor on real dates |
`
	review := `## Critical

1. [Gate 1][Legal] Strip DOB date fields from analytics events.
   Evidence: docs/QA_GOD_EVIDENCE_2026-02-17.md
`
	gtm := `- Per-dose date capture accuracy
- dosing safety
`

	require.NoError(t, os.WriteFile(filepath.Join(docsDir, "QA_GOD_FIX_QUEUE_2026-02-17.md"), []byte(fixQueue), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(docsDir, "WEBSITE_REVIEW_2026-02-17.md"), []byte(review), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(docsDir, "PEDS_GTM_PLAN_2026-02-17.md"), []byte(gtm), 0644))

	// 1. Run the full pipeline and write outputs
	var result *metaplan.Result
	t.Run("Generate", func(t *testing.T) {
		var err error
		result, err = metaplan.Generate(metaplan.GenerateOptions{
			RepoRoot:     tempDir,
			OutDate:      "2026-02-17",
			WriteOutputs: true,
		})
		require.NoError(t, err)
		require.NotNil(t, result)

		assert.GreaterOrEqual(t, len(result.Backlog.Actions), 2)
		assert.Len(t, result.Backlog.Waves, 4)

		fmt.Printf("✓ Pipeline completed\n")
		fmt.Printf("  Actions: %d\n", len(result.Backlog.Actions))
		fmt.Printf("  Warnings: %d\n", len(result.Backlog.Warnings))
	})

	// 2. Verify the cross-document merge
	t.Run("CrossDocumentMerge", func(t *testing.T) {
		top := result.Backlog.Actions[0]
		assert.Equal(t, models.SeverityBlocker, top.Severity)
		assert.Contains(t, top.SourceSet, "qa_fix_queue")
		assert.Contains(t, top.SourceSet, "website_review")

		fmt.Printf("✓ Review finding merged into fix queue action\n")
		fmt.Printf("  Top action: %s\n", top.ActionID)
	})

	// 3. Verify output files round-trip
	t.Run("OutputFiles", func(t *testing.T) {
		for key, path := range result.Files {
			info, err := os.Stat(path)
			require.NoError(t, err, "output %s must exist", key)
			assert.Greater(t, info.Size(), int64(0))
		}

		var reloaded models.Backlog
		require.NoError(t, format.ParseFile(result.Files["backlog"], &reloaded))
		assert.Equal(t, result.Backlog.RunID, reloaded.RunID)
		assert.Len(t, reloaded.Actions, len(result.Backlog.Actions))

		fmt.Printf("✓ Output files written and backlog reloads\n")
		fmt.Printf("  Backlog: %s\n", result.Files["backlog"])
	})

	// 4. Verify backlog validation rejects broken graphs
	t.Run("BacklogValidation", func(t *testing.T) {
		broken := result.Backlog
		broken.Actions = append([]models.Action{}, result.Backlog.Actions...)
		broken.Actions[0].Dependencies = []string{"action-missing"}

		err := metaplan.ValidateBacklog(&broken)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unknown action")

		fmt.Printf("✓ Broken dependency graph correctly rejected\n")
	})

	fmt.Printf("\n✅ All integration tests passed successfully!\n")
}
