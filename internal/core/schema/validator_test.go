// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyhumanmd/metaplan/internal/core/format"
	"github.com/tinyhumanmd/metaplan/internal/core/models"
)

func validBacklog() models.Backlog {
	return models.Backlog{
		RunID:       "7e7d2684-9a36-4f01-9dbf-2b4986b554a7",
		GeneratedAt: "2026-02-17T10:00:00Z",
		OutDate:     "2026-02-17",
		Config: models.RunConfig{
			Rounds:               20,
			RequiredContextFiles: []string{"docs/QA_GOD_FIX_QUEUE_2026-02-17.md"},
			OptionalContextFiles: []string{},
		},
		Sources: []models.SourceRecord{{
			ID:       "docs-qa-god-fix-queue-2026-02-17-md",
			Path:     "docs/QA_GOD_FIX_QUEUE_2026-02-17.md",
			Type:     "md",
			Required: true,
			Exists:   true,
		}},
		Warnings: []string{},
		Actions: []models.Action{{
			ActionID:      "action-g-legal-001-strip-dob-date-fields-from-analytics-event",
			Title:         "Strip DOB date fields from analytics events",
			Owner:         models.OwnerAnalytics,
			Severity:      models.SeverityBlocker,
			PriorityScore: 90,
			Wave:          models.Wave0,
			GTMAlignment:  models.AlignmentMedium,
			Status:        models.StatusProposed,
			SourceRefs:    []string{"docs/QA_GOD_FIX_QUEUE_2026-02-17.md:5"},
			Dependencies:  []string{},
		}},
		Waves: []models.WavePlan{
			{WaveID: models.Wave0, Goal: "g0", Items: []string{}, OwnerLoad: map[string]int{}},
			{WaveID: models.Wave1, Goal: "g1", Items: []string{}, OwnerLoad: map[string]int{}},
			{WaveID: models.Wave2, Goal: "g2", Items: []string{}, OwnerLoad: map[string]int{}},
			{WaveID: models.Wave3, Goal: "g3", Items: []string{}, OwnerLoad: map[string]int{}},
		},
	}
}

func TestValidateBacklogJSON(t *testing.T) {
	t.Run("ValidBacklog", func(t *testing.T) {
		data, err := format.MarshalJSON(validBacklog())
		require.NoError(t, err)

		assert.NoError(t, ValidateBacklogJSON(data))
	})

	t.Run("BadWaveValue", func(t *testing.T) {
		backlog := validBacklog()
		backlog.Actions[0].Wave = "wave_9"

		data, err := format.MarshalJSON(backlog)
		require.NoError(t, err)

		err = ValidateBacklogJSON(data)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Backlog validation failed")
	})

	t.Run("MissingRunID", func(t *testing.T) {
		backlog := validBacklog()
		backlog.RunID = ""

		data, err := format.MarshalJSON(backlog)
		require.NoError(t, err)

		assert.Error(t, ValidateBacklogJSON(data))
	})

	t.Run("EmptySourceRefs", func(t *testing.T) {
		backlog := validBacklog()
		backlog.Actions[0].SourceRefs = []string{}

		data, err := format.MarshalJSON(backlog)
		require.NoError(t, err)

		assert.Error(t, ValidateBacklogJSON(data))
	})

	t.Run("NotJSON", func(t *testing.T) {
		assert.Error(t, ValidateBacklogJSON([]byte("not json")))
	})
}
