// SPDX-License-Identifier: Apache-2.0

// Package render produces the human-readable output documents of a plan
// run: the report, the wave plan, the implementation prompt, and the
// evidence index.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tinyhumanmd/metaplan/internal/core/models"
)

// PrioritySummary is the severity and wave histogram shown in the report.
type PrioritySummary struct {
	BySeverity map[models.Severity]int
	ByWave     map[models.Wave]int
}

// SummarizePriorities counts actions per severity tier and per wave.
func SummarizePriorities(actions []models.Action) PrioritySummary {
	summary := PrioritySummary{
		BySeverity: map[models.Severity]int{
			models.SeverityBlocker: 0,
			models.SeverityMajor:   0,
			models.SeverityMinor:   0,
		},
		ByWave: map[models.Wave]int{
			models.Wave0: 0,
			models.Wave1: 0,
			models.Wave2: 0,
			models.Wave3: 0,
		},
	}
	for _, a := range actions {
		summary.BySeverity[a.Severity]++
		summary.ByWave[a.Wave]++
	}
	return summary
}

// TopDependencyNodes returns up to limit actions ordered by descending
// dependency count, ties broken by identifier.
func TopDependencyNodes(actions []models.Action, limit int) []models.Action {
	sorted := append([]models.Action{}, actions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if len(sorted[i].Dependencies) != len(sorted[j].Dependencies) {
			return len(sorted[i].Dependencies) > len(sorted[j].Dependencies)
		}
		return sorted[i].ActionID < sorted[j].ActionID
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// Report renders the run summary document.
func Report(outDate string, sources []models.SourceRecord, warnings []string, actions []models.Action, waves []models.WavePlan) string {
	summary := SummarizePriorities(actions)
	top10 := actions
	if len(top10) > 10 {
		top10 = top10[:10]
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("# Meta Action Plan Report (%s)", outDate))
	lines = append(lines, "")
	lines = append(lines, "## Source Coverage")
	lines = append(lines, "")
	for _, s := range sources {
		role := "optional"
		if s.Required {
			role = "required"
		}
		state := "missing"
		if s.Exists {
			state = "loaded"
		}
		lines = append(lines, fmt.Sprintf("- %s (%s): %s", s.Path, role, state))
	}
	lines = append(lines, "")
	lines = append(lines, "## Parse Warnings")
	lines = append(lines, "")
	if len(warnings) == 0 {
		lines = append(lines, "- none")
	}
	for _, w := range warnings {
		lines = append(lines, "- "+w)
	}
	lines = append(lines, "")
	lines = append(lines, "## Priority Distribution")
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("- Blocker: %d", summary.BySeverity[models.SeverityBlocker]))
	lines = append(lines, fmt.Sprintf("- Major: %d", summary.BySeverity[models.SeverityMajor]))
	lines = append(lines, fmt.Sprintf("- Minor: %d", summary.BySeverity[models.SeverityMinor]))
	lines = append(lines, fmt.Sprintf("- Wave 0: %d", summary.ByWave[models.Wave0]))
	lines = append(lines, fmt.Sprintf("- Wave 1: %d", summary.ByWave[models.Wave1]))
	lines = append(lines, fmt.Sprintf("- Wave 2: %d", summary.ByWave[models.Wave2]))
	lines = append(lines, fmt.Sprintf("- Wave 3: %d", summary.ByWave[models.Wave3]))
	lines = append(lines, "")
	lines = append(lines, "## Top 10 Actions")
	lines = append(lines, "")
	for idx, a := range top10 {
		domains := strings.Join(models.DomainStrings(a.Domains), "/")
		if domains == "" {
			domains = "none"
		}
		rationale := strings.Join([]string{
			"severity=" + string(a.Severity),
			"gtm=" + string(a.GTMAlignment),
			"domains=" + domains,
			fmt.Sprintf("refs=%d", len(a.SourceRefs)),
		}, "; ")
		lines = append(lines, fmt.Sprintf("%d. %s", idx+1, a.ActionID))
		lines = append(lines, "   - title: "+a.Title)
		lines = append(lines, fmt.Sprintf("   - owner: %s | wave: %s | score: %d", a.Owner, a.Wave, a.PriorityScore))
		lines = append(lines, "   - rationale: "+rationale)
	}
	lines = append(lines, "")
	lines = append(lines, "## Dependency Graph Summary")
	lines = append(lines, "")
	edgeCount := 0
	for _, a := range actions {
		edgeCount += len(a.Dependencies)
	}
	lines = append(lines, fmt.Sprintf("- total actions: %d", len(actions)))
	lines = append(lines, fmt.Sprintf("- total dependency edges: %d", edgeCount))
	for _, a := range TopDependencyNodes(actions, 10) {
		lines = append(lines, fmt.Sprintf("- %s: %d dependencies", a.ActionID, len(a.Dependencies)))
	}
	lines = append(lines, "")
	lines = append(lines, "## Wave Plan")
	lines = append(lines, "")
	for _, wave := range waves {
		lines = append(lines, fmt.Sprintf("- %s: %s (%d items)", wave.WaveID, wave.Goal, len(wave.Items)))
	}

	return strings.Join(lines, "\n") + "\n"
}

// WavesDoc renders the wave-by-wave execution document.
func WavesDoc(outDate string, actions []models.Action, waves []models.WavePlan) string {
	byID := make(map[string]models.Action, len(actions))
	for _, a := range actions {
		byID[a.ActionID] = a
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("# Meta Action Plan Waves (%s)", outDate))
	lines = append(lines, "")

	for _, wave := range waves {
		lines = append(lines, "## "+strings.ToUpper(string(wave.WaveID)))
		lines = append(lines, "")
		lines = append(lines, "- Goal: "+wave.Goal)
		lines = append(lines, "- Entry criteria: "+strings.Join(wave.EntryCriteria, "; "))
		lines = append(lines, "- Exit criteria: "+strings.Join(wave.ExitCriteria, "; "))
		lines = append(lines, "- Owner load:")
		owners := make([]string, 0, len(wave.OwnerLoad))
		for owner := range wave.OwnerLoad {
			owners = append(owners, owner)
		}
		sort.Strings(owners)
		if len(owners) == 0 {
			lines = append(lines, "  - none")
		}
		for _, owner := range owners {
			lines = append(lines, fmt.Sprintf("  - %s: %d", owner, wave.OwnerLoad[owner]))
		}
		lines = append(lines, "")
		lines = append(lines, "### Items")
		lines = append(lines, "")
		if len(wave.Items) == 0 {
			lines = append(lines, "- none")
		}
		for idx, id := range wave.Items {
			item, ok := byID[id]
			if !ok {
				continue
			}
			acceptance := strings.Join(item.AcceptanceCriteria, " | ")
			if acceptance == "" {
				acceptance = "None provided; define in implementation task."
			}
			lines = append(lines, fmt.Sprintf("%d. %s", idx+1, id))
			lines = append(lines, "   - "+item.Title)
			lines = append(lines, fmt.Sprintf("   - severity: %s; score: %d; owner: %s", item.Severity, item.PriorityScore, item.Owner))
			lines = append(lines, "   - acceptance: "+acceptance)
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n") + "\n"
}

// PromptDoc renders the implementation prompt handed to the executing team.
func PromptDoc(outDate string, actions []models.Action, waves []models.WavePlan) string {
	byID := make(map[string]models.Action, len(actions))
	for _, a := range actions {
		byID[a.ActionID] = a
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("# Meta Action Plan Implementation Prompt (%s)", outDate))
	lines = append(lines, "")
	lines = append(lines, "You are implementing TinyHumanMD remediation and growth work from a normalized action backlog.")
	lines = append(lines, "")
	lines = append(lines, "## Guardrails")
	lines = append(lines, "- Execute wave-by-wave in order (wave_0 -> wave_3).")
	lines = append(lines, "- Do not mutate outside the current wave scope unless resolving explicit dependencies.")
	lines = append(lines, "- Keep medical/legal claims aligned with actual runtime behavior.")
	lines = append(lines, "- For each action: implement code changes, tests, and acceptance evidence.")
	lines = append(lines, "")
	lines = append(lines, "## Required Pre-Merge Gates")
	lines = append(lines, "- Relevant unit/integration tests pass.")
	lines = append(lines, "- No blocker action is left partially implemented.")
	lines = append(lines, "- Release notes include changed claims, risk, and rollback notes.")
	lines = append(lines, "")

	for _, wave := range waves {
		lines = append(lines, fmt.Sprintf("## %s Execution", strings.ToUpper(string(wave.WaveID))))
		lines = append(lines, "Goal: "+wave.Goal)
		lines = append(lines, "Actions:")
		if len(wave.Items) == 0 {
			lines = append(lines, "- none")
		}
		for _, id := range wave.Items {
			item, ok := byID[id]
			if !ok {
				continue
			}
			lines = append(lines, fmt.Sprintf("- %s: %s", id, item.Title))
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n") + "\n"
}

// EvidenceDoc renders the per-action evidence index.
func EvidenceDoc(outDate string, actions []models.Action) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("# Meta Action Plan Evidence (%s)", outDate))
	lines = append(lines, "")

	for _, a := range actions {
		gates := strings.Join(a.Gates, ", ")
		if gates == "" {
			gates = "none"
		}
		lines = append(lines, "## "+a.ActionID)
		lines = append(lines, "- Title: "+a.Title)
		lines = append(lines, "- Gates: "+gates)
		lines = append(lines, "- Sources:")
		if len(a.SourceRefs) == 0 {
			lines = append(lines, "  - none")
		}
		for _, ref := range a.SourceRefs {
			lines = append(lines, "  - "+ref)
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n") + "\n"
}
