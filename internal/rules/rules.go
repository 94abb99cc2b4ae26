// SPDX-License-Identifier: Apache-2.0

// Package rules applies operator-supplied adjustment rules to parsed
// actions before merging. A rule is a CEL condition over a single action
// plus the field overrides to apply when it matches.
package rules

import (
	"fmt"

	"github.com/tinyhumanmd/metaplan/internal/core/format"
	"github.com/tinyhumanmd/metaplan/internal/core/models"
)

// Rule is one conditional adjustment.
type Rule struct {
	ID        string   `yaml:"id" json:"id"`
	Condition string   `yaml:"condition" json:"condition"`
	Owner     string   `yaml:"owner,omitempty" json:"owner,omitempty"`
	Severity  string   `yaml:"severity,omitempty" json:"severity,omitempty"`
	Domains   []string `yaml:"domains,omitempty" json:"domains,omitempty"`
	Reason    string   `yaml:"reason,omitempty" json:"reason,omitempty"`
}

// Config is the top-level structure of a rules file.
type Config struct {
	Rules []Rule `yaml:"rules" json:"rules"`
}

// LoadConfig reads a rules file in YAML or JSON form.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if err := format.ParseFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("error loading rules file: %w", err)
	}
	return &cfg, nil
}

// Apply runs every rule over every action. Rule failures never abort a
// run: a broken condition or an out-of-set override value becomes a
// warning and the rule is skipped for that action.
func Apply(cfg *Config, actions []models.RawAction) ([]models.RawAction, []string) {
	if cfg == nil || len(cfg.Rules) == 0 {
		return actions, nil
	}

	var warnings []string
	evaluator, err := NewCELEvaluator()
	if err != nil {
		return actions, []string{fmt.Sprintf("rules disabled: %v", err)}
	}

	out := make([]models.RawAction, len(actions))
	copy(out, actions)

	for _, rule := range cfg.Rules {
		if rule.Condition == "" {
			warnings = append(warnings, fmt.Sprintf("rule %q has no condition, skipped", rule.ID))
			continue
		}
		for i := range out {
			matched, err := evaluator.EvaluateCondition(rule.Condition, out[i])
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("rule %q: %v", rule.ID, err))
				break
			}
			if !matched {
				continue
			}

			if rule.Owner != "" {
				owner := models.Owner(rule.Owner)
				if !models.Owners[owner] {
					warnings = append(warnings, fmt.Sprintf("rule %q sets unknown owner %q, skipped", rule.ID, rule.Owner))
				} else {
					out[i].Owner = owner
				}
			}
			if rule.Severity != "" {
				severity := models.Severity(rule.Severity)
				if severity.Rank() == 0 {
					warnings = append(warnings, fmt.Sprintf("rule %q sets unknown severity %q, skipped", rule.ID, rule.Severity))
				} else {
					out[i].Severity = severity
				}
			}
			for _, d := range rule.Domains {
				domain := models.Domain(d)
				if !models.Domains[domain] {
					warnings = append(warnings, fmt.Sprintf("rule %q adds unknown domain %q, skipped", rule.ID, d))
					continue
				}
				out[i].Domains = models.UniqSortedDomains(append(out[i].Domains, domain))
			}
		}
	}

	return out, warnings
}
