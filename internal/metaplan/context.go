// SPDX-License-Identifier: Apache-2.0

package metaplan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tinyhumanmd/metaplan/internal/core/models"
	"github.com/tinyhumanmd/metaplan/internal/core/text"
)

// DefaultRequiredContextFiles are the three planning documents every run
// resolves, relative to the repository root.
var DefaultRequiredContextFiles = []string{
	"docs/QA_GOD_FIX_QUEUE_2026-02-17.md",
	"docs/WEBSITE_REVIEW_2026-02-17.md",
	"docs/PEDS_GTM_PLAN_2026-02-17.md",
}

// DefaultOptionalContextFiles supply extra evidence when present.
var DefaultOptionalContextFiles = []string{
	"docs/QA_GOD_ORCHESTRATOR_REPORT_2026-02-17.md",
	"docs/QA_GOD_GATE_MATRIX_2026-02-17.json",
	"docs/QA_GOD_EVIDENCE_2026-02-17.md",
	"docs/PEDS_EXECUTION_BACKLOG_2026-02-17.md",
	"docs/PEDS_PRODUCT_ROADMAP_2026-02-17.md",
	"docs/PEDS_STRATEGY_REPORT_2026-02-17.md",
}

const sourceIDMaxLen = 120

// ReadSource loads one context file. A missing file is not an error; the
// record comes back with Exists false and the caller decides whether that
// is fatal.
func ReadSource(repoRoot, relPath string, required bool) (models.SourceRecord, error) {
	record := models.SourceRecord{
		ID:       text.Slugify(relPath, sourceIDMaxLen),
		Path:     relPath,
		Type:     sourceType(relPath),
		Required: required,
		LoadedAt: time.Now().UTC().Format(time.RFC3339),
	}

	content, err := os.ReadFile(filepath.Join(repoRoot, relPath))
	if err != nil {
		if os.IsNotExist(err) {
			return record, nil
		}
		return record, fmt.Errorf("error reading context file %s: %w", relPath, err)
	}

	record.Exists = true
	record.Content = string(content)
	record.Hash = text.StableHash(record.Content)
	return record, nil
}

func sourceType(relPath string) string {
	ext := strings.TrimPrefix(filepath.Ext(relPath), ".")
	if ext == "" {
		return "txt"
	}
	return ext
}

// ParseContextList splits a comma-separated file list, trimming and
// dropping empty entries.
func ParseContextList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := text.NormalizeSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
