// SPDX-License-Identifier: Apache-2.0

package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyhumanmd/metaplan/internal/core/models"
)

func sampleActions() []models.Action {
	return []models.Action{
		{
			ActionID:           "action-g-legal-001-strip-dob",
			Title:              "Strip DOB date fields from analytics events",
			Owner:              models.OwnerAnalytics,
			Severity:           models.SeverityBlocker,
			PriorityScore:      90,
			Wave:               models.Wave0,
			GTMAlignment:       models.AlignmentMedium,
			Domains:            []models.Domain{models.DomainLegal, models.DomainMedical},
			SourceRefs:         []string{"docs/QA_GOD_FIX_QUEUE_2026-02-17.md:5"},
			Gates:              []string{"G-LEGAL-001"},
			AcceptanceCriteria: []string{"No DOB in payloads", "Consent precedes tracking"},
			Dependencies:       []string{},
		},
		{
			ActionID:      "action-abc1234567-refresh-sitemap",
			Title:         "Refresh sitemap metadata copy",
			Owner:         models.OwnerSEO,
			Severity:      models.SeverityMinor,
			PriorityScore: 20,
			Wave:          models.Wave3,
			GTMAlignment:  models.AlignmentLow,
			SourceRefs:    []string{"docs/WEBSITE_REVIEW_2026-02-17.md:40"},
			Dependencies:  []string{"action-g-legal-001-strip-dob"},
		},
	}
}

func sampleWaves() []models.WavePlan {
	return []models.WavePlan{
		{WaveID: models.Wave0, Goal: "Blocker risk containment", EntryCriteria: []string{"Backlog normalized"},
			ExitCriteria: []string{"Blockers done"}, Items: []string{"action-g-legal-001-strip-dob"},
			OwnerLoad: map[string]int{"analytics": 1}},
		{WaveID: models.Wave1, Goal: "Medical/legal correctness", EntryCriteria: []string{"Wave 0 complete"},
			ExitCriteria: []string{"Criteria met"}, Items: []string{}, OwnerLoad: map[string]int{}},
		{WaveID: models.Wave2, Goal: "Technical hardening", EntryCriteria: []string{"Wave 1 complete"},
			ExitCriteria: []string{"Gates satisfied"}, Items: []string{}, OwnerLoad: map[string]int{}},
		{WaveID: models.Wave3, Goal: "Minor stabilization", EntryCriteria: []string{"Major waves complete"},
			ExitCriteria: []string{"Scheduled"}, Items: []string{"action-abc1234567-refresh-sitemap"},
			OwnerLoad: map[string]int{"seo": 1}},
	}
}

func TestSummarizePriorities(t *testing.T) {
	summary := SummarizePriorities(sampleActions())

	assert.Equal(t, 1, summary.BySeverity[models.SeverityBlocker])
	assert.Equal(t, 0, summary.BySeverity[models.SeverityMajor])
	assert.Equal(t, 1, summary.BySeverity[models.SeverityMinor])
	assert.Equal(t, 1, summary.ByWave[models.Wave0])
	assert.Equal(t, 0, summary.ByWave[models.Wave1])
	assert.Equal(t, 1, summary.ByWave[models.Wave3])
}

func TestTopDependencyNodes(t *testing.T) {
	actions := sampleActions()
	top := TopDependencyNodes(actions, 10)

	require.Len(t, top, 2)
	assert.Equal(t, "action-abc1234567-refresh-sitemap", top[0].ActionID,
		"more dependencies sorts first")

	limited := TopDependencyNodes(actions, 1)
	assert.Len(t, limited, 1)
}

func TestReport(t *testing.T) {
	sources := []models.SourceRecord{
		{Path: "docs/QA_GOD_FIX_QUEUE_2026-02-17.md", Required: true, Exists: true},
		{Path: "docs/PEDS_STRATEGY_REPORT_2026-02-17.md", Required: false, Exists: false},
	}

	out := Report("2026-02-17", sources, []string{"one warning"}, sampleActions(), sampleWaves())

	assert.True(t, strings.HasPrefix(out, "# Meta Action Plan Report (2026-02-17)\n"))
	assert.Contains(t, out, "- docs/QA_GOD_FIX_QUEUE_2026-02-17.md (required): loaded")
	assert.Contains(t, out, "- docs/PEDS_STRATEGY_REPORT_2026-02-17.md (optional): missing")
	assert.Contains(t, out, "- one warning")
	assert.Contains(t, out, "- Blocker: 1")
	assert.Contains(t, out, "- Wave 3: 1")
	assert.Contains(t, out, "1. action-g-legal-001-strip-dob")
	assert.Contains(t, out, "   - rationale: severity=blocker; gtm=medium; domains=legal/medical; refs=1")
	assert.Contains(t, out, "- total dependency edges: 1")
	assert.Contains(t, out, "- wave_0: Blocker risk containment (1 items)")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestReportNoWarnings(t *testing.T) {
	out := Report("2026-02-17", nil, nil, sampleActions(), sampleWaves())
	assert.Contains(t, out, "## Parse Warnings\n\n- none\n")
}

func TestWavesDoc(t *testing.T) {
	out := WavesDoc("2026-02-17", sampleActions(), sampleWaves())

	assert.Contains(t, out, "# Meta Action Plan Waves (2026-02-17)")
	assert.Contains(t, out, "## WAVE_0")
	assert.Contains(t, out, "- Goal: Blocker risk containment")
	assert.Contains(t, out, "- Entry criteria: Backlog normalized")
	assert.Contains(t, out, "  - analytics: 1")
	assert.Contains(t, out, "1. action-g-legal-001-strip-dob")
	assert.Contains(t, out, "   - acceptance: No DOB in payloads | Consent precedes tracking")
	assert.Contains(t, out, "   - acceptance: None provided; define in implementation task.")

	// empty waves render placeholders
	assert.Contains(t, out, "## WAVE_1\n\n- Goal: Medical/legal correctness")
	assert.Contains(t, out, "- Owner load:\n  - none")
	assert.Contains(t, out, "### Items\n\n- none")
}

func TestPromptDoc(t *testing.T) {
	out := PromptDoc("2026-02-17", sampleActions(), sampleWaves())

	assert.Contains(t, out, "# Meta Action Plan Implementation Prompt (2026-02-17)")
	assert.Contains(t, out, "## Guardrails")
	assert.Contains(t, out, "- Execute wave-by-wave in order (wave_0 -> wave_3).")
	assert.Contains(t, out, "## Required Pre-Merge Gates")
	assert.Contains(t, out, "## WAVE_0 Execution")
	assert.Contains(t, out, "- action-g-legal-001-strip-dob: Strip DOB date fields from analytics events")
	assert.Contains(t, out, "## WAVE_1 Execution\nGoal: Medical/legal correctness\nActions:\n- none")
}

func TestEvidenceDoc(t *testing.T) {
	out := EvidenceDoc("2026-02-17", sampleActions())

	assert.Contains(t, out, "# Meta Action Plan Evidence (2026-02-17)")
	assert.Contains(t, out, "## action-g-legal-001-strip-dob")
	assert.Contains(t, out, "- Gates: G-LEGAL-001")
	assert.Contains(t, out, "  - docs/QA_GOD_FIX_QUEUE_2026-02-17.md:5")
	assert.Contains(t, out, "- Gates: none")
}
