// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tinyhumanmd/metaplan/internal/core/models"
)

func TestBuildDependencies(t *testing.T) {
	t.Run("MeasurementDependsOnGovernance", func(t *testing.T) {
		actions := []models.Action{
			{
				ActionID: "action-governance",
				Title:    "Harmonize consent policy language",
				Domains:  []models.Domain{models.DomainLegal},
			},
			{
				ActionID: "action-tracking",
				Title:    "Strip DOB fields from analytics events",
				Owner:    models.OwnerAnalytics,
			},
		}

		BuildDependencies(actions)

		assert.Equal(t, []string{"action-governance"}, actions[1].Dependencies)
		assert.Empty(t, actions[0].Dependencies, "governance work has no upstream pool here")
	})

	t.Run("GovernancePoolRequiresLegalDomain", func(t *testing.T) {
		actions := []models.Action{
			{ActionID: "action-align", Title: "Align consent policy wording", Domains: []models.Domain{models.DomainProduct}},
			{ActionID: "action-tracking", Title: "Review telemetry sampling"},
		}

		BuildDependencies(actions)

		assert.Empty(t, actions[1].Dependencies,
			"a consent title without the legal domain is not a governance dependency")
	})

	t.Run("MessagingDependsOnDataModelAndInfra", func(t *testing.T) {
		actions := []models.Action{
			{ActionID: "action-capture", Title: "Add per-dose date capture and validation"},
			{ActionID: "action-deploy", Title: "Update deploy headers and CSP"},
			{ActionID: "action-copy", Title: "Rewrite dosing claims copy", Owner: models.OwnerContent},
		}

		BuildDependencies(actions)

		assert.Equal(t, []string{"action-capture", "action-deploy"}, actions[2].Dependencies)
	})

	t.Run("OwnerAloneTriggersMessagingEdge", func(t *testing.T) {
		actions := []models.Action{
			{ActionID: "action-capture", Title: "Add growth threshold validation"},
			{ActionID: "action-seo", Title: "Improve crawl budget", Owner: models.OwnerSEO},
		}

		BuildDependencies(actions)

		assert.Equal(t, []string{"action-capture"}, actions[1].Dependencies)
	})

	t.Run("FrontendSurfaceDependsOnDataModel", func(t *testing.T) {
		actions := []models.Action{
			{ActionID: "action-model", Title: "Make growth model date-aware"},
			{ActionID: "action-chart", Title: "Fix growth chart render glitch", Owner: models.OwnerFrontend},
		}

		BuildDependencies(actions)

		assert.Equal(t, []string{"action-model"}, actions[1].Dependencies)
	})

	t.Run("NeverDependsOnSelf", func(t *testing.T) {
		actions := []models.Action{
			{ActionID: "action-both", Title: "Rework capture copy pipeline", Owner: models.OwnerContent},
		}

		BuildDependencies(actions)

		assert.Empty(t, actions[0].Dependencies)
	})

	t.Run("UnknownSeedEdgesAreDropped", func(t *testing.T) {
		actions := []models.Action{
			{ActionID: "action-a", Title: "Tidy footer", Dependencies: []string{"action-missing"}},
		}

		BuildDependencies(actions)

		assert.Empty(t, actions[0].Dependencies)
	})
}

func TestDetectCycle(t *testing.T) {
	t.Run("NoCycle", func(t *testing.T) {
		actions := []models.Action{
			{ActionID: "a", Dependencies: []string{"b"}},
			{ActionID: "b", Dependencies: []string{"c"}},
			{ActionID: "c"},
		}
		assert.Empty(t, DetectCycle(actions))
	})

	t.Run("SimpleCycle", func(t *testing.T) {
		actions := []models.Action{
			{ActionID: "a", Dependencies: []string{"b"}},
			{ActionID: "b", Dependencies: []string{"a"}},
		}
		msg := DetectCycle(actions)
		assert.Contains(t, msg, "dependency cycle detected")
		assert.Contains(t, msg, "a -> b")
	})

	t.Run("SelfCycle", func(t *testing.T) {
		actions := []models.Action{
			{ActionID: "a", Dependencies: []string{"a"}},
		}
		assert.Contains(t, DetectCycle(actions), "a -> a")
	})

	t.Run("EmptyGraph", func(t *testing.T) {
		assert.Empty(t, DetectCycle(nil))
	})
}
