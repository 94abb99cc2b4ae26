// SPDX-License-Identifier: Apache-2.0

// Package classify infers severity tiers, owners, and domain tags from free
// text. Each heuristic is an ordered rule table evaluated first-match-wins,
// so the routing logic stays independently testable.
package classify

import (
	"regexp"
	"strings"

	"github.com/tinyhumanmd/metaplan/internal/core/models"
	"github.com/tinyhumanmd/metaplan/internal/core/text"
)

type severityRule struct {
	keywords []string
	result   models.Severity
}

// Ordered: blocker keywords beat major keywords beat minor keywords.
var severityRules = []severityRule{
	{[]string{"blocker", "critical"}, models.SeverityBlocker},
	{[]string{"major", "high"}, models.SeverityMajor},
	{[]string{"minor", "medium", "low"}, models.SeverityMinor},
}

// SeverityFromText infers a severity tier from free text by case-insensitive
// substring match, falling back when no keyword is present.
func SeverityFromText(value string, fallback models.Severity) models.Severity {
	v := strings.ToLower(text.NormalizeSpace(value))
	for _, rule := range severityRules {
		for _, kw := range rule.keywords {
			if strings.Contains(v, kw) {
				return rule.result
			}
		}
	}
	return fallback
}

type ownerRule struct {
	keywords []string
	result   models.Owner
}

var ownerRules = []ownerRule{
	{[]string{"logic", "medical"}, models.OwnerLogic},
	{[]string{"analytic", "tracking", "telemetry"}, models.OwnerAnalytics},
	{[]string{"legal", "privacy", "policy"}, models.OwnerLegal},
	{[]string{"ops", "deploy", "cache", "infra"}, models.OwnerOps},
	{[]string{"front", "ui", "ux"}, models.OwnerFrontend},
	{[]string{"seo"}, models.OwnerSEO},
	{[]string{"content", "copy"}, models.OwnerContent},
}

// OwnerFromText infers an owner tag from free text. A value that is already
// exactly a valid owner is returned unchanged; otherwise ordered substring
// heuristics apply, then the fallback.
func OwnerFromText(value string, fallback models.Owner) models.Owner {
	v := strings.ToLower(text.NormalizeSpace(value))
	if models.Owners[models.Owner(v)] {
		return models.Owner(v)
	}
	for _, rule := range ownerRules {
		for _, kw := range rule.keywords {
			if strings.Contains(v, kw) {
				return rule.result
			}
		}
	}
	return fallback
}

type domainRule struct {
	pattern *regexp.Regexp
	result  models.Domain
}

var domainRules = []domainRule{
	{regexp.MustCompile(`medical|dose|dosing|vaccine|vaccin|growth|bilirubin|ga |gestational|clinical|catch-up|catchup`), models.DomainMedical},
	{regexp.MustCompile(`technical|runtime|service worker|cache|code|lint|test|qa|js|json|schema|manifest`), models.DomainTechnical},
	{regexp.MustCompile(`legal|privacy|consent|dnt|policy|compliance|claims`), models.DomainLegal},
	{regexp.MustCompile(`ops|deploy|wrangler|header|csp|hsts|pipeline|release|environment|config`), models.DomainOps},
	{regexp.MustCompile(`product|positioning|seo|metadata|sitemap|content|messaging|gtm`), models.DomainProduct},
}

// InferDomains collects domain tags for the text: seeds already in the closed
// set are kept, then every rule whose pattern matches adds its domain. A text
// may map to several domains; nothing is ever removed.
func InferDomains(value string, seed []models.Domain) []models.Domain {
	out := make([]models.Domain, 0, len(seed)+len(domainRules))
	for _, d := range seed {
		if models.Domains[d] {
			out = append(out, d)
		}
	}
	v := strings.ToLower(text.NormalizeSpace(value))
	for _, rule := range domainRules {
		if rule.pattern.MatchString(v) {
			out = append(out, rule.result)
		}
	}
	return models.UniqSortedDomains(out)
}
