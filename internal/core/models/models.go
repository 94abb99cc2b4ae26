// SPDX-License-Identifier: Apache-2.0

// Package models holds the shared data model for the meta action plan
// pipeline: the closed severity/owner/domain/wave enumerations, the raw and
// finalized action records, and the backlog envelope handed to the renderers.
package models

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tinyhumanmd/metaplan/internal/core/text"
)

// Severity is one of the three totally ordered severity tiers.
type Severity string

const (
	SeverityBlocker Severity = "blocker"
	SeverityMajor   Severity = "major"
	SeverityMinor   Severity = "minor"
)

// Rank returns the numeric ordering of the severity, higher is more severe.
// Unknown values rank below minor.
func (s Severity) Rank() int {
	switch s {
	case SeverityBlocker:
		return 3
	case SeverityMajor:
		return 2
	case SeverityMinor:
		return 1
	}
	return 0
}

// MergeSeverity returns the higher-ranked of the two severities.
func MergeSeverity(a, b Severity) Severity {
	if a.Rank() >= b.Rank() {
		return a
	}
	return b
}

// Owner identifies which functional group owns an action.
type Owner string

const (
	OwnerLogic     Owner = "logic"
	OwnerAnalytics Owner = "analytics"
	OwnerLegal     Owner = "legal"
	OwnerOps       Owner = "ops"
	OwnerFrontend  Owner = "frontend"
	OwnerContent   Owner = "content"
	OwnerSEO       Owner = "seo"
	OwnerCross     Owner = "cross"
)

// Owners is the closed set of valid owner values.
var Owners = map[Owner]bool{
	OwnerLogic:     true,
	OwnerAnalytics: true,
	OwnerLegal:     true,
	OwnerOps:       true,
	OwnerFrontend:  true,
	OwnerContent:   true,
	OwnerSEO:       true,
	OwnerCross:     true,
}

// Domain tags the product area an action touches.
type Domain string

const (
	DomainMedical   Domain = "medical"
	DomainTechnical Domain = "technical"
	DomainLegal     Domain = "legal"
	DomainOps       Domain = "ops"
	DomainProduct   Domain = "product"
)

// Domains is the closed set of valid domain values.
var Domains = map[Domain]bool{
	DomainMedical:   true,
	DomainTechnical: true,
	DomainLegal:     true,
	DomainOps:       true,
	DomainProduct:   true,
}

// UniqSortedDomains deduplicates and sorts a domain list.
func UniqSortedDomains(values []Domain) []Domain {
	seen := make(map[Domain]bool, len(values))
	out := make([]Domain, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HasDomain reports whether the list contains the given domain.
func HasDomain(values []Domain, d Domain) bool {
	for _, v := range values {
		if v == d {
			return true
		}
	}
	return false
}

// DomainStrings converts a domain list for text concatenation.
func DomainStrings(values []Domain) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, string(v))
	}
	return out
}

// Wave is one of the four ordered execution buckets.
type Wave string

const (
	Wave0 Wave = "wave_0"
	Wave1 Wave = "wave_1"
	Wave2 Wave = "wave_2"
	Wave3 Wave = "wave_3"
)

// WaveOrder lists the waves in execution order.
var WaveOrder = []Wave{Wave0, Wave1, Wave2, Wave3}

// Alignment is the coarse GTM alignment tier of an action.
type Alignment string

const (
	AlignmentHigh   Alignment = "high"
	AlignmentMedium Alignment = "medium"
	AlignmentLow    Alignment = "low"
)

// StatusProposed is the initial status of every finalized action.
const StatusProposed = "proposed"

// PriorityHintSentinel is used when a source provides no parse-order rank.
const PriorityHintSentinel = 999

var strictGateRegex = regexp.MustCompile(`(?i)^G-[A-Z]+-\d+$`)

// CanonicalGate normalizes a gate identifier: strictly shaped gate codes
// (G-AREA-NNN) are upper-cased, anything else is returned as free text.
func CanonicalGate(gateID string) string {
	gate := text.NormalizeSpace(gateID)
	if gate == "" {
		return ""
	}
	if strictGateRegex.MatchString(gate) {
		return strings.ToUpper(gate)
	}
	return gate
}

// IsStrictGate reports whether the value matches the canonical gate shape
// that is treated as an authoritative merge key.
func IsStrictGate(gateID string) bool {
	return strictGateRegex.MatchString(text.NormalizeSpace(gateID))
}

// SourceRecord identifies one loaded input document. Content is kept in
// memory for the duration of the run but never serialized.
type SourceRecord struct {
	ID       string `json:"id"`
	Path     string `json:"path"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
	Exists   bool   `json:"exists"`
	Content  string `json:"-"`
	LoadedAt string `json:"loaded_at"`
	Hash     string `json:"hash"`
}

// RawAction is one finding extracted by a format parser, before merging.
type RawAction struct {
	Source             string   `json:"source"`
	SourcePath         string   `json:"source_path"`
	SourceLine         int      `json:"source_line"`
	GateID             string   `json:"gate_id"`
	GateLabel          string   `json:"gate_label"`
	Title              string   `json:"title"`
	Severity           Severity `json:"severity"`
	Owner              Owner    `json:"owner"`
	Domains            []Domain `json:"domains"`
	AcceptanceCriteria []string `json:"acceptance_criteria"`
	RiskSummary        string   `json:"risk_summary"`
	SourceRefs         []string `json:"source_refs"`
	EvidenceRefs       []string `json:"evidence_refs"`
	PriorityHint       int      `json:"priority_hint"`
}

// Action is the immutable finalized output unit.
type Action struct {
	ActionID           string    `json:"action_id"`
	Title              string    `json:"title"`
	SourceRefs         []string  `json:"source_refs"`
	EvidenceRefs       []string  `json:"evidence_refs"`
	Owner              Owner     `json:"owner"`
	Severity           Severity  `json:"severity"`
	PriorityScore      int       `json:"priority_score"`
	AcceptanceCriteria []string  `json:"acceptance_criteria"`
	RiskSummary        string    `json:"risk_summary"`
	Dependencies       []string  `json:"dependencies"`
	Gates              []string  `json:"gates"`
	Domains            []Domain  `json:"domains"`
	GTMAlignment       Alignment `json:"gtm_alignment"`
	Wave               Wave      `json:"wave"`
	Status             string    `json:"status"`
	SourceSet          []string  `json:"source_set"`
	PreferredGate      string    `json:"preferred_gate"`
	MergeNotes         []string  `json:"merge_notes"`
}

// GTMSignals is the deduplicated phrase and keyword set extracted from the
// strategy document, used for alignment scoring only.
type GTMSignals struct {
	Phrases  []string `json:"phrases"`
	Keywords []string `json:"keywords"`
}

// WavePlan is one execution bucket of the finished plan.
type WavePlan struct {
	WaveID        Wave           `json:"wave_id"`
	Goal          string         `json:"goal"`
	EntryCriteria []string       `json:"entry_criteria"`
	ExitCriteria  []string       `json:"exit_criteria"`
	Items         []string       `json:"items"`
	OwnerLoad     map[string]int `json:"owner_load"`
}

// RunConfig is the resolved configuration echoed into the backlog envelope.
type RunConfig struct {
	Strict               bool     `json:"strict"`
	IncludeOptional      bool     `json:"include_optional"`
	Rounds               int      `json:"rounds"`
	RequiredContextFiles []string `json:"required_context_files"`
	OptionalContextFiles []string `json:"optional_context_files"`
}

// Backlog is the single structured output object of a run.
type Backlog struct {
	RunID       string         `json:"run_id"`
	GeneratedAt string         `json:"generated_at"`
	OutDate     string         `json:"out_date"`
	Config      RunConfig      `json:"config"`
	Sources     []SourceRecord `json:"sources"`
	Warnings    []string       `json:"warnings"`
	Actions     []Action       `json:"actions"`
	Waves       []WavePlan     `json:"waves"`
}
