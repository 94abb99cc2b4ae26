// SPDX-License-Identifier: Apache-2.0

package metaplan

import (
	"fmt"

	"github.com/tinyhumanmd/metaplan/internal/core/models"
)

// ValidateBacklog checks the structural invariants of a finished backlog:
// unique action identifiers, non-empty titles and provenance, closed
// dependency references, and closed-set field values.
func ValidateBacklog(backlog *models.Backlog) error {
	ids := make(map[string]bool, len(backlog.Actions))
	for _, action := range backlog.Actions {
		if action.ActionID == "" {
			return fmt.Errorf("backlog validation failed: action with empty identifier")
		}
		if ids[action.ActionID] {
			return fmt.Errorf("backlog validation failed: duplicate action identifier %s", action.ActionID)
		}
		ids[action.ActionID] = true
	}

	for _, action := range backlog.Actions {
		if action.Title == "" {
			return fmt.Errorf("backlog validation failed: action %s has no title", action.ActionID)
		}
		if len(action.SourceRefs) == 0 {
			return fmt.Errorf("backlog validation failed: action %s has no source references", action.ActionID)
		}
		if !models.Owners[action.Owner] {
			return fmt.Errorf("backlog validation failed: action %s has unknown owner %q", action.ActionID, action.Owner)
		}
		if action.Severity.Rank() == 0 {
			return fmt.Errorf("backlog validation failed: action %s has unknown severity %q", action.ActionID, action.Severity)
		}
		for _, dep := range action.Dependencies {
			if !ids[dep] {
				return fmt.Errorf("backlog validation failed: action %s depends on unknown action %s", action.ActionID, dep)
			}
		}
	}

	if len(backlog.Waves) != len(models.WaveOrder) {
		return fmt.Errorf("backlog validation failed: expected %d waves, got %d", len(models.WaveOrder), len(backlog.Waves))
	}
	for _, wave := range backlog.Waves {
		for _, id := range wave.Items {
			if !ids[id] {
				return fmt.Errorf("backlog validation failed: wave %s lists unknown action %s", wave.WaveID, id)
			}
		}
	}

	return nil
}
