// SPDX-License-Identifier: Apache-2.0

package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tinyhumanmd/metaplan/internal/core/classify"
	"github.com/tinyhumanmd/metaplan/internal/core/models"
	"github.com/tinyhumanmd/metaplan/internal/core/text"
)

// SourceReview tags raw actions extracted from the narrative review.
const SourceReview = "website_review"

var (
	sectionHeaderRegex = regexp.MustCompile(`^##\s+`)
	findingRegex       = regexp.MustCompile(`^\s*(\d+)\.\s+((?:\[[^\]]+\])+?)\s*(.+)$`)
	findingStartRegex  = regexp.MustCompile(`^\s*\d+\.\s+\[`)
	bracketRegex       = regexp.MustCompile(`\[([^\]]+)\]`)
	gateBracketRegex   = regexp.MustCompile(`(?i)^Gate\s+\d+`)
	gateNumberRegex    = regexp.MustCompile(`(\d+)`)
	evidenceLineRegex  = regexp.MustCompile(`(?i)^Evidence:`)
	evidencePrefix     = regexp.MustCompile(`(?i)^Evidence:\s*`)
)

// ParseReview extracts one raw action per numbered, bracket-tagged finding.
// A `## ` header switches the severity carried by every finding in the
// section; lines between findings accumulate into the risk summary, and an
// `Evidence:` line is split into comma-separated evidence references.
func ParseReview(markdown, sourcePath string) []models.RawAction {
	lines := strings.Split(markdown, "\n")
	out := []models.RawAction{}
	sectionSeverity := models.SeverityMajor

	i := 0
	for i < len(lines) {
		line := lines[i]
		if sectionHeaderRegex.MatchString(line) {
			sectionSeverity = severityForSection(sectionHeaderRegex.ReplaceAllString(line, ""), sectionSeverity)
			i++
			continue
		}

		m := findingRegex.FindStringSubmatch(line)
		if m == nil {
			i++
			continue
		}

		var tags []string
		gateLabel := ""
		for _, bm := range bracketRegex.FindAllStringSubmatch(m[2], -1) {
			part := text.NormalizeSpace(bm[1])
			if gateLabel == "" && gateBracketRegex.MatchString(part) {
				gateLabel = formatGateLabel(part)
				continue
			}
			if gateBracketRegex.MatchString(part) {
				continue
			}
			tags = append(tags, part)
		}

		description := text.NormalizeSpace(m[3])
		block := description
		var evidenceRefs []string

		j := i + 1
		for j < len(lines) && !findingStartRegex.MatchString(lines[j]) && !sectionHeaderRegex.MatchString(lines[j]) {
			row := text.NormalizeSpace(lines[j])
			if row != "" {
				block += " " + row
			}
			if evidenceLineRegex.MatchString(row) {
				evidenceRefs = splitEvidenceRefs(row)
			}
			j++
		}

		tagText := strings.Join(tags, " ") + " " + description
		owner := classify.OwnerFromText(tagText, models.OwnerCross)
		domains := classify.InferDomains(tagText, seedDomainsFromTags(tags))

		priorityHint := models.PriorityHintSentinel
		if n, err := strconv.Atoi(m[1]); err == nil && n != 0 {
			priorityHint = n
		}

		out = append(out, models.RawAction{
			Source:             SourceReview,
			SourcePath:         sourcePath,
			SourceLine:         i + 1,
			GateID:             gateLabel,
			GateLabel:          gateLabel,
			Title:              description,
			Severity:           sectionSeverity,
			Owner:              owner,
			Domains:            domains,
			AcceptanceCriteria: []string{},
			RiskSummary:        block,
			SourceRefs:         []string{fmt.Sprintf("%s:%d", sourcePath, i+1)},
			EvidenceRefs:       evidenceRefs,
			PriorityHint:       priorityHint,
		})

		i = j
	}

	return out
}

// severityForSection maps a section heading to the severity applied to its
// findings; an unrecognized heading keeps the current section severity.
func severityForSection(heading string, current models.Severity) models.Severity {
	v := strings.ToLower(text.NormalizeSpace(heading))
	switch {
	case strings.Contains(v, "critical"):
		return models.SeverityBlocker
	case strings.Contains(v, "high"):
		return models.SeverityMajor
	case strings.Contains(v, "medium"), strings.Contains(v, "low"):
		return models.SeverityMinor
	}
	return current
}

// formatGateLabel zero-pads a "Gate N" bracket to the two-digit label used
// as the merge key for review findings.
func formatGateLabel(bracket string) string {
	nm := gateNumberRegex.FindStringSubmatch(bracket)
	if nm == nil {
		return bracket
	}
	n, err := strconv.Atoi(nm[1])
	if err != nil {
		return bracket
	}
	return fmt.Sprintf("Gate %02d", n)
}

func splitEvidenceRefs(row string) []string {
	rest := evidencePrefix.ReplaceAllString(row, "")
	var refs []string
	for _, part := range strings.Split(rest, ",") {
		if ref := text.NormalizeSpace(part); ref != "" {
			refs = append(refs, ref)
		}
	}
	return refs
}

// seedDomainsFromTags maps each free-form bracket tag to a starting domain;
// tags with no better match seed the product domain.
func seedDomainsFromTags(tags []string) []models.Domain {
	seeds := make([]models.Domain, 0, len(tags))
	for _, tag := range tags {
		n := strings.ToLower(tag)
		switch {
		case strings.Contains(n, "medical"):
			seeds = append(seeds, models.DomainMedical)
		case strings.Contains(n, "technical"):
			seeds = append(seeds, models.DomainTechnical)
		case strings.Contains(n, "legal"):
			seeds = append(seeds, models.DomainLegal)
		case strings.Contains(n, "ops"):
			seeds = append(seeds, models.DomainOps)
		default:
			seeds = append(seeds, models.DomainProduct)
		}
	}
	return seeds
}
