// SPDX-License-Identifier: Apache-2.0

// Package parse turns the three source document shapes into normalized raw
// action records and GTM signal sets. Parsers are pure and never fail: rows
// or findings that do not match the expected shape are skipped, and missing
// attributes degrade to defaults.
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

// SourceFixQueue tags raw actions extracted from the fix-queue table.
const SourceFixQueue = "qa_fix_queue"

var (
	fixQueueHeaderRegex = regexp.MustCompile(`(?i)^\|\s*Priority\s*\|\s*Gate\s*\|`)
	separatorRowRegex   = regexp.MustCompile(`^\|\s*-+`)
	integerRegex        = regexp.MustCompile(`^\d+$`)
)

// ParseFixQueue extracts raw actions from a pipe-delimited fix-queue table.
// Rows before the Priority|Gate header, separator rules, rows with fewer
// than six cells, and rows whose first cell is not a plain integer are all
// skipped.
func ParseFixQueue(markdown, sourcePath string) []models.RawAction {
	lines := strings.Split(markdown, "\n")
	out := []models.RawAction{}
	seenHeader := false

	for i, line := range lines {
		if !seenHeader {
			if fixQueueHeaderRegex.MatchString(line) {
				seenHeader = true
			}
			continue
		}
		if !strings.HasPrefix(strings.TrimSpace(line), "|") {
			continue
		}
		if separatorRowRegex.MatchString(line) {
			continue
		}

		cells := splitTableRow(line)
		if len(cells) < 6 {
			continue
		}
		if !integerRegex.MatchString(cells[0]) {
			continue
		}

		priority, err := strconv.Atoi(cells[0])
		if err != nil {
			continue
		}

		gate := models.CanonicalGate(cells[1])
		severity := classify.SeverityFromText(cells[2], models.SeverityMajor)
		owner := classify.OwnerFromText(cells[3], models.OwnerCross)
		title := cells[4]
		acceptance := cells[5]

		criteria := []string{}
		if acceptance != "" {
			criteria = append(criteria, acceptance)
		}

		domainText := fmt.Sprintf("%s %s %s %s %s", cells[1], cells[2], cells[3], title, acceptance)

		out = append(out, models.RawAction{
			Source:             SourceFixQueue,
			SourcePath:         sourcePath,
			SourceLine:         i + 1,
			GateID:             gate,
			GateLabel:          gate,
			Title:              title,
			Severity:           severity,
			Owner:              owner,
			Domains:            classify.InferDomains(domainText, nil),
			AcceptanceCriteria: criteria,
			RiskSummary:        title,
			SourceRefs:         []string{fmt.Sprintf("%s:%d", sourcePath, i+1)},
			EvidenceRefs:       []string{},
			PriorityHint:       priority,
		})
	}

	return out
}

// splitTableRow returns the normalized inner cells of a pipe-delimited row,
// dropping the empty leading and trailing segments.
func splitTableRow(line string) []string {
	parts := strings.Split(line, "|")
	if len(parts) < 3 {
		return nil
	}
	cells := make([]string, 0, len(parts)-2)
	for _, part := range parts[1 : len(parts)-1] {
		cells = append(cells, text.NormalizeSpace(part))
	}
	return cells
}
