// SPDX-License-Identifier: Apache-2.0

package parse

import (
	"strings"

	"github.com/tinyhumanmd/metaplan/internal/core/models"
	"github.com/tinyhumanmd/metaplan/internal/core/text"
)

// ParseGTMPlan collects every bullet line of the strategy document as a
// phrase and derives the keyword set from the tokenized phrases. The result
// feeds alignment scoring only; no actions come out of this document.
func ParseGTMPlan(markdown string) models.GTMSignals {
	var bullets []string
	for _, line := range strings.Split(markdown, "\n") {
		normalized := text.NormalizeSpace(line)
		if !strings.HasPrefix(normalized, "- ") {
			continue
		}
		if phrase := text.NormalizeSpace(strings.TrimPrefix(normalized, "- ")); phrase != "" {
			bullets = append(bullets, phrase)
		}
	}

	phrases := text.UniqSorted(bullets)
	var keywords []string
	for _, phrase := range phrases {
		keywords = append(keywords, text.Tokenize(phrase)...)
	}

	return models.GTMSignals{
		Phrases:  phrases,
		Keywords: text.UniqSorted(keywords),
	}
}
