// SPDX-License-Identifier: Apache-2.0

// Package resolve clusters raw actions into merged groups. Clustering is
// greedy and order-sensitive: candidates are taken in input order and join
// the first matching group, so the same input always produces the same
// groups. A strict canonical gate is an authoritative merge key; otherwise
// title-token similarity plus owner or domain overlap decides.
package resolve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tinyhumanmd/metaplan/internal/core/models"
	"github.com/tinyhumanmd/metaplan/internal/core/text"
)

// SimilarityThreshold is the minimum title-token Jaccard similarity for two
// records to be considered the same underlying action.
const SimilarityThreshold = 0.58

// DefaultRounds bounds the convergence loop when no limit is configured.
const DefaultRounds = 20

// Group accumulates one or more raw actions that resolve to the same action.
type Group struct {
	Title              string
	TitleTokens        []string
	Severity           models.Severity
	Owner              models.Owner
	Domains            []models.Domain
	AcceptanceCriteria []string
	RiskSummary        string
	SourceRefs         []string
	EvidenceRefs       []string
	Gates              []string
	PreferredGate      string
	SourceSet          []string
	PriorityHint       int
	MergeNotes         []string
}

// MergeRound clusters the candidates into groups, greedily and in input
// order. This is one round; Converge drives it to a fixed point.
func MergeRound(candidates []models.RawAction) []*Group {
	var groups []*Group

	for _, item := range candidates {
		itemTokens := text.Tokenize(item.Title)
		canonical := models.CanonicalGate(item.GateID)

		var target *Group
		if models.IsStrictGate(canonical) {
			target = findByGate(groups, canonical)
		}
		if target == nil {
			target = findBySimilarity(groups, itemTokens, item)
		}
		if target == nil {
			groups = append(groups, newGroup(item, itemTokens, canonical))
			continue
		}
		target.absorb(item, canonical)
	}

	return groups
}

func findByGate(groups []*Group, canonical string) *Group {
	for _, g := range groups {
		for _, gate := range g.Gates {
			if gate == canonical {
				return g
			}
		}
	}
	return nil
}

func findBySimilarity(groups []*Group, itemTokens []string, item models.RawAction) *Group {
	for _, g := range groups {
		if text.Jaccard(itemTokens, g.TitleTokens) < SimilarityThreshold {
			continue
		}
		if g.Owner == item.Owner {
			return g
		}
		for _, d := range g.Domains {
			if models.HasDomain(item.Domains, d) {
				return g
			}
		}
	}
	return nil
}

func newGroup(item models.RawAction, itemTokens []string, canonical string) *Group {
	preferred := ""
	if models.IsStrictGate(canonical) {
		preferred = canonical
	}
	label := item.GateLabel
	if label == "" {
		label = item.GateID
	}
	return &Group{
		Title:              item.Title,
		TitleTokens:        itemTokens,
		Severity:           item.Severity,
		Owner:              item.Owner,
		Domains:            models.UniqSortedDomains(item.Domains),
		AcceptanceCriteria: text.UniqSorted(item.AcceptanceCriteria),
		RiskSummary:        item.RiskSummary,
		SourceRefs:         text.UniqSorted(item.SourceRefs),
		EvidenceRefs:       text.UniqSorted(item.EvidenceRefs),
		Gates:              text.UniqSorted([]string{label}),
		PreferredGate:      preferred,
		SourceSet:          text.UniqSorted([]string{item.Source}),
		PriorityHint:       item.PriorityHint,
		MergeNotes:         []string{},
	}
}

// absorb folds the candidate into the group. Severity only ever rises, the
// first non-default owner and the first strict gate stick, unions are
// deduplicated and sorted, and a merge note records the absorbed item.
func (g *Group) absorb(item models.RawAction, canonical string) {
	g.Severity = models.MergeSeverity(g.Severity, item.Severity)
	if g.Owner == models.OwnerCross && item.Owner != models.OwnerCross {
		g.Owner = item.Owner
	}
	if g.PreferredGate == "" && models.IsStrictGate(canonical) {
		g.PreferredGate = canonical
	}

	g.Domains = models.UniqSortedDomains(append(g.Domains, item.Domains...))
	g.AcceptanceCriteria = text.UniqSorted(append(g.AcceptanceCriteria, item.AcceptanceCriteria...))
	g.SourceRefs = text.UniqSorted(append(g.SourceRefs, item.SourceRefs...))
	g.EvidenceRefs = text.UniqSorted(append(g.EvidenceRefs, item.EvidenceRefs...))

	label := item.GateLabel
	if label == "" {
		label = item.GateID
	}
	g.Gates = text.UniqSorted(append(g.Gates, label))
	g.SourceSet = text.UniqSorted(append(g.SourceSet, item.Source))

	if item.PriorityHint < g.PriorityHint {
		g.PriorityHint = item.PriorityHint
	}
	if len(item.RiskSummary) > len(g.RiskSummary) {
		g.RiskSummary = item.RiskSummary
	}

	g.MergeNotes = append(g.MergeNotes, fmt.Sprintf("merged:%s:%d", item.Source, item.SourceLine))
}

// SourceMerged tags synthetic candidates re-derived from a previous round.
const SourceMerged = "merged"

// Candidate re-flattens a group into a synthetic raw action for the next
// merge round.
func (g *Group) Candidate() models.RawAction {
	gate := g.PreferredGate
	if gate == "" && len(g.Gates) > 0 {
		gate = g.Gates[0]
	}
	sourcePath := SourceMerged
	if len(g.SourceRefs) > 0 {
		sourcePath = g.SourceRefs[0]
	}
	return models.RawAction{
		Source:             SourceMerged,
		SourcePath:         sourcePath,
		SourceLine:         1,
		GateID:             gate,
		GateLabel:          gate,
		Title:              g.Title,
		Severity:           g.Severity,
		Owner:              g.Owner,
		Domains:            g.Domains,
		AcceptanceCriteria: g.AcceptanceCriteria,
		RiskSummary:        g.RiskSummary,
		SourceRefs:         g.SourceRefs,
		EvidenceRefs:       g.EvidenceRefs,
		PriorityHint:       g.PriorityHint,
	}
}

// Converge runs merge rounds until the group set reaches a syntactic fixed
// point or the round cap is hit. Hitting the cap is a normal stop; the last
// round's groups are used as-is.
func Converge(raw []models.RawAction, rounds int) []*Group {
	if rounds < 1 {
		rounds = 1
	}

	var groups []*Group
	candidates := raw
	for i := 0; i < rounds; i++ {
		merged := MergeRound(candidates)
		if i > 0 && len(merged) == len(groups) {
			prev := signature(groups)
			next := signature(merged)
			groups = merged
			if prev == next {
				break
			}
		} else {
			groups = merged
		}

		candidates = make([]models.RawAction, 0, len(groups))
		for _, g := range groups {
			candidates = append(candidates, g.Candidate())
		}
	}

	return groups
}

// signature fingerprints a group set by its (title, severity, owner)
// multiset, which is what the fixed-point check compares between rounds.
func signature(groups []*Group) string {
	keys := make([]string, 0, len(groups))
	for _, g := range groups {
		keys = append(keys, fmt.Sprintf("%s|%s|%s", g.Title, g.Severity, g.Owner))
	}
	sort.Strings(keys)
	return strings.Join(keys, "||")
}
