// SPDX-License-Identifier: Apache-2.0

// Package prioritize turns merged groups into finalized actions: GTM
// alignment, priority score, wave assignment, stable identifier generation,
// and the deterministic final ordering.
package prioritize

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tinyhumanmd/metaplan/internal/core/models"
	"github.com/tinyhumanmd/metaplan/internal/core/text"
	"github.com/tinyhumanmd/metaplan/internal/resolve"
)

// Severity base weights for the priority score.
var severityWeights = map[models.Severity]int{
	models.SeverityBlocker: 70,
	models.SeverityMajor:   40,
	models.SeverityMinor:   20,
}

// coreDomainRegex marks the product's highest-stakes surface; matching
// titles or risk text earn a score bump.
var coreDomainRegex = regexp.MustCompile(`catch-up|catchup|dosing|growth|bilirubin|ga\b|gestational`)

const (
	phraseHitCap  = 2
	keywordHitCap = 4

	gateSlugLen  = 32
	titleSlugLen = 42
)

// Alignment computes an action's GTM alignment tier from phrase and keyword
// overlap with the strategy signals. Phrase scanning stops after two hits
// and keyword scanning after four; the tiers only need those low counts.
func Alignment(action *models.Action, signals models.GTMSignals) models.Alignment {
	blob := strings.ToLower(text.NormalizeSpace(strings.Join([]string{
		action.Title,
		strings.Join(action.AcceptanceCriteria, " "),
		strings.Join(models.DomainStrings(action.Domains), " "),
		action.RiskSummary,
	}, " ")))

	phraseHits := 0
	for _, phrase := range signals.Phrases {
		p := strings.ToLower(text.NormalizeSpace(phrase))
		if len(p) < 4 {
			continue
		}
		if strings.Contains(blob, p) {
			phraseHits++
		}
		if phraseHits >= phraseHitCap {
			break
		}
	}

	keywordSet := make(map[string]bool, len(signals.Keywords))
	for _, kw := range signals.Keywords {
		keywordSet[kw] = true
	}
	keywordHits := 0
	for _, token := range text.Tokenize(blob) {
		if keywordSet[token] {
			keywordHits++
		}
		if keywordHits >= keywordHitCap {
			break
		}
	}

	switch {
	case phraseHits >= 1 || keywordHits >= 3:
		return models.AlignmentHigh
	case keywordHits >= 1:
		return models.AlignmentMedium
	}
	return models.AlignmentLow
}

// Score computes the 0-100 priority score. The severity base dominates;
// medical+legal span, core-domain language, high alignment, and reference
// density add bounded bumps.
func Score(action *models.Action) int {
	score, ok := severityWeights[action.Severity]
	if !ok {
		score = severityWeights[models.SeverityMinor]
	}

	if models.HasDomain(action.Domains, models.DomainMedical) && models.HasDomain(action.Domains, models.DomainLegal) {
		score += 15
	}

	coreText := strings.ToLower(action.Title + " " + action.RiskSummary)
	if coreDomainRegex.MatchString(coreText) {
		score += 10
	}
	if action.GTMAlignment == models.AlignmentHigh {
		score += 10
	}

	if len(action.SourceRefs)+len(action.EvidenceRefs) >= 3 {
		score += 5
	}

	if score > 100 {
		score = 100
	}
	return score
}

// AssignWave maps an action to its execution bucket: blockers first, major
// medical/legal next, remaining majors, then everything else.
func AssignWave(action *models.Action) models.Wave {
	switch {
	case action.Severity == models.SeverityBlocker:
		return models.Wave0
	case action.Severity == models.SeverityMajor &&
		(models.HasDomain(action.Domains, models.DomainMedical) || models.HasDomain(action.Domains, models.DomainLegal)):
		return models.Wave1
	case action.Severity == models.SeverityMajor:
		return models.Wave2
	}
	return models.Wave3
}

// ActionID builds the stable identifier. A preferred canonical gate anchors
// the ID; otherwise a content hash of title and provenance disambiguates
// same-titled actions from different sources across reruns.
func ActionID(action *models.Action) string {
	titleSlug := text.Slugify(action.Title, titleSlugLen)
	if titleSlug == "" {
		titleSlug = "untitled-action"
	}
	if action.PreferredGate != "" {
		return "action-" + text.Slugify(action.PreferredGate, gateSlugLen) + "-" + titleSlug
	}
	return "action-" + text.StableHash(action.Title+strings.Join(action.SourceRefs, "|")) + "-" + titleSlug
}

// Finalize converts merged groups into finalized actions with alignment,
// score, wave, and identifier populated. Dependencies are attached by the
// grapher afterwards, then Sort fixes the final order.
func Finalize(groups []*resolve.Group, signals models.GTMSignals) []models.Action {
	actions := make([]models.Action, 0, len(groups))
	for _, g := range groups {
		risk := g.RiskSummary
		if risk == "" {
			risk = g.Title
		}
		action := models.Action{
			Title:              g.Title,
			SourceRefs:         text.UniqSorted(append(append([]string{}, g.SourceRefs...), g.EvidenceRefs...)),
			EvidenceRefs:       text.UniqSorted(g.EvidenceRefs),
			Owner:              g.Owner,
			Severity:           g.Severity,
			AcceptanceCriteria: g.AcceptanceCriteria,
			RiskSummary:        text.NormalizeSpace(risk),
			Dependencies:       []string{},
			Gates:              text.UniqSorted(g.Gates),
			Domains:            models.UniqSortedDomains(g.Domains),
			GTMAlignment:       models.AlignmentLow,
			Wave:               models.Wave3,
			Status:             models.StatusProposed,
			SourceSet:          g.SourceSet,
			PreferredGate:      g.PreferredGate,
			MergeNotes:         g.MergeNotes,
		}

		action.GTMAlignment = Alignment(&action, signals)
		action.PriorityScore = Score(&action)
		action.Wave = AssignWave(&action)
		action.ActionID = ActionID(&action)

		actions = append(actions, action)
	}
	return actions
}

// Sort orders actions by descending priority score, then descending
// severity rank, then ascending identifier for full determinism.
func Sort(actions []models.Action) {
	sort.SliceStable(actions, func(i, j int) bool {
		if actions[i].PriorityScore != actions[j].PriorityScore {
			return actions[i].PriorityScore > actions[j].PriorityScore
		}
		if actions[i].Severity.Rank() != actions[j].Severity.Rank() {
			return actions[i].Severity.Rank() > actions[j].Severity.Rank()
		}
		return actions[i].ActionID < actions[j].ActionID
	})
}

// WaveDefinition carries the fixed goal and criteria of one wave.
type WaveDefinition struct {
	Goal          string
	EntryCriteria []string
	ExitCriteria  []string
}

// WaveDefinitions returns the fixed goal and entry/exit criteria per wave.
func WaveDefinitions() map[models.Wave]WaveDefinition {
	return map[models.Wave]WaveDefinition{
		models.Wave0: {
			Goal:          "Blocker risk containment and release-safety preconditions",
			EntryCriteria: []string{"Backlog normalized", "Blocker actions identified"},
			ExitCriteria:  []string{"All blocker acceptance criteria passed", "No unresolved blocker dependencies"},
		},
		models.Wave1: {
			Goal:          "Major medical/legal correctness and contradiction removal",
			EntryCriteria: []string{"Wave 0 complete or explicitly waived"},
			ExitCriteria:  []string{"Major medical/legal actions meet acceptance criteria"},
		},
		models.Wave2: {
			Goal:          "Remaining major technical/ops hardening",
			EntryCriteria: []string{"Wave 1 complete"},
			ExitCriteria:  []string{"Infrastructure and runtime major gates satisfied"},
		},
		models.Wave3: {
			Goal:          "Minor governance, SEO, and process stabilization",
			EntryCriteria: []string{"Major waves complete"},
			ExitCriteria:  []string{"Minor actions triaged and scheduled with owners"},
		},
	}
}

// BuildWavePlan groups finalized actions into the four ordered waves with
// per-owner load counts.
func BuildWavePlan(actions []models.Action) []models.WavePlan {
	defs := WaveDefinitions()
	plans := make([]models.WavePlan, 0, len(models.WaveOrder))
	for _, waveID := range models.WaveOrder {
		def := defs[waveID]
		items := []string{}
		ownerLoad := map[string]int{}
		for _, a := range actions {
			if a.Wave != waveID {
				continue
			}
			items = append(items, a.ActionID)
			ownerLoad[string(a.Owner)]++
		}
		plans = append(plans, models.WavePlan{
			WaveID:        waveID,
			Goal:          def.Goal,
			EntryCriteria: def.EntryCriteria,
			ExitCriteria:  def.ExitCriteria,
			Items:         items,
			OwnerLoad:     ownerLoad,
		})
	}
	return plans
}
