// SPDX-License-Identifier: Apache-2.0

// Package graph derives cross-action dependency edges from title and risk
// language and checks the resulting graph for cycles.
package graph

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/tinyhumanmd/metaplan/internal/core/models"
	"github.com/tinyhumanmd/metaplan/internal/core/text"
)

// Pool membership: actions whose titles mark them as upstream work that
// other actions must wait on.
var (
	governancePoolRegex = regexp.MustCompile(`consent|policy|privacy|legal language|align|harmonize`)
	dataModelPoolRegex  = regexp.MustCompile(`capture|validation|pipeline|model|input|date-aware|persist context|threshold`)
	infraPoolRegex      = regexp.MustCompile(`deploy|cache|service worker|manifest|config|headers|csp|hsts|hash|wrangler`)
)

// Edge triggers: language in an action's title or risk summary that makes
// it depend on a pool.
var (
	measurementRegex = regexp.MustCompile(`analytics|tracking|telemetry|measurement|dnt|geolocation`)
	messagingRegex   = regexp.MustCompile(`copy|metadata|sitemap|claims|messaging|language`)
	surfaceRegex     = regexp.MustCompile(`ui|render|display|nav|chart`)
)

// BuildDependencies populates each action's Dependencies in place. Edges
// only ever point at actions present in the slice, never at the action
// itself, and come out deduplicated and sorted.
func BuildDependencies(actions []models.Action) {
	byID := make(map[string]bool, len(actions))
	for _, a := range actions {
		byID[a.ActionID] = true
	}

	var governanceIDs, dataModelIDs, infraIDs []string
	for _, a := range actions {
		title := strings.ToLower(a.Title)
		if models.HasDomain(a.Domains, models.DomainLegal) && governancePoolRegex.MatchString(title) {
			governanceIDs = append(governanceIDs, a.ActionID)
		}
		if dataModelPoolRegex.MatchString(title) {
			dataModelIDs = append(dataModelIDs, a.ActionID)
		}
		if infraPoolRegex.MatchString(title) {
			infraIDs = append(infraIDs, a.ActionID)
		}
	}

	addPool := func(deps map[string]bool, self string, pool []string) {
		for _, dep := range pool {
			if dep != self {
				deps[dep] = true
			}
		}
	}

	for i := range actions {
		action := &actions[i]
		deps := make(map[string]bool, len(action.Dependencies))
		for _, dep := range action.Dependencies {
			deps[dep] = true
		}

		blob := strings.ToLower(action.Title + " " + action.RiskSummary)

		if measurementRegex.MatchString(blob) {
			addPool(deps, action.ActionID, governanceIDs)
		}
		if messagingRegex.MatchString(blob) || action.Owner == models.OwnerContent || action.Owner == models.OwnerSEO {
			addPool(deps, action.ActionID, dataModelIDs)
			addPool(deps, action.ActionID, infraIDs)
		}
		if (action.Owner == models.OwnerFrontend || action.Owner == models.OwnerLogic) && surfaceRegex.MatchString(blob) {
			addPool(deps, action.ActionID, dataModelIDs)
		}

		out := make([]string, 0, len(deps))
		for dep := range deps {
			if byID[dep] {
				out = append(out, dep)
			}
		}
		sort.Strings(out)
		action.Dependencies = text.UniqSorted(out)
	}
}

// DetectCycle looks for a dependency cycle and returns a human-readable
// description of the first one found, or the empty string. Cycles are
// reported as a warning upstream; edges are never dropped to break them.
func DetectCycle(actions []models.Action) string {
	deps := make(map[string][]string, len(actions))
	ids := make([]string, 0, len(actions))
	for _, a := range actions {
		deps[a.ActionID] = a.Dependencies
		ids = append(ids, a.ActionID)
	}
	sort.Strings(ids)

	visited := make(map[string]bool, len(ids))
	inStack := make(map[string]bool, len(ids))

	var walk func(id string, path []string) string
	walk = func(id string, path []string) string {
		visited[id] = true
		inStack[id] = true
		path = append(path, id)

		sorted := append([]string{}, deps[id]...)
		sort.Strings(sorted)
		for _, dep := range sorted {
			if _, known := deps[dep]; !known {
				continue
			}
			if inStack[dep] {
				start := 0
				for i, p := range path {
					if p == dep {
						start = i
						break
					}
				}
				return fmt.Sprintf("dependency cycle detected: %s -> %s",
					strings.Join(path[start:], " -> "), dep)
			}
			if !visited[dep] {
				if cycle := walk(dep, path); cycle != "" {
					return cycle
				}
			}
		}

		inStack[id] = false
		return ""
	}

	for _, id := range ids {
		if !visited[id] {
			if cycle := walk(id, nil); cycle != "" {
				return cycle
			}
		}
	}
	return ""
}
