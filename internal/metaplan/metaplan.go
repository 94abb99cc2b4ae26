// SPDX-License-Identifier: Apache-2.0

// Package metaplan drives a full resolver run: load context files, parse
// them into raw actions, merge, prioritize, wire dependencies, validate,
// render, and optionally write the output documents.
package metaplan

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tinyhumanmd/metaplan/internal/core/format"
	"github.com/tinyhumanmd/metaplan/internal/core/models"
	"github.com/tinyhumanmd/metaplan/internal/core/schema"
	"github.com/tinyhumanmd/metaplan/internal/graph"
	"github.com/tinyhumanmd/metaplan/internal/metaplan/render"
	"github.com/tinyhumanmd/metaplan/internal/parse"
	"github.com/tinyhumanmd/metaplan/internal/prioritize"
	"github.com/tinyhumanmd/metaplan/internal/resolve"
	"github.com/tinyhumanmd/metaplan/internal/rules"
)

// Source role detection is by path, not position, so overridden context
// lists keep working as long as the file names carry the role.
var (
	fixQueueRoleRegex = regexp.MustCompile(`(?i)QA_GOD_FIX_QUEUE`)
	reviewRoleRegex   = regexp.MustCompile(`(?i)WEBSITE_REVIEW`)
	gtmRoleRegex      = regexp.MustCompile(`(?i)PEDS_GTM_PLAN`)
)

// GenerateOptions configures a resolver run. Zero values fall back to the
// documented defaults.
type GenerateOptions struct {
	RepoRoot             string
	OutputDir            string
	OutDate              string
	Rounds               int
	Strict               bool
	IncludeOptional      bool
	WriteOutputs         bool
	ContextFiles         []string
	OptionalContextFiles []string
	RulesFile            string
	VerboseLogging       bool
}

// Result carries everything a run produced.
type Result struct {
	Backlog      models.Backlog
	Files        map[string]string
	ReportText   string
	WavesText    string
	PromptText   string
	EvidenceText string
}

// Generate runs the whole pipeline.
func Generate(options GenerateOptions) (*Result, error) {
	repoRoot := options.RepoRoot
	if repoRoot == "" {
		repoRoot = "."
	}
	outDate := options.OutDate
	if outDate == "" {
		outDate = time.Now().UTC().Format("2006-01-02")
	}
	rounds := options.Rounds
	if rounds < 1 {
		rounds = resolve.DefaultRounds
	}
	outputDir := options.OutputDir
	if outputDir == "" {
		outputDir = filepath.Join(repoRoot, "docs")
	}

	requiredPaths := options.ContextFiles
	if len(requiredPaths) == 0 {
		requiredPaths = append([]string{}, DefaultRequiredContextFiles...)
	}
	optionalPaths := options.OptionalContextFiles
	if len(optionalPaths) == 0 && options.IncludeOptional {
		optionalPaths = append([]string{}, DefaultOptionalContextFiles...)
	}
	if optionalPaths == nil {
		optionalPaths = []string{}
	}

	sources, err := loadSources(repoRoot, requiredPaths, optionalPaths, options.VerboseLogging)
	if err != nil {
		return nil, err
	}

	var warnings []string
	var missingRequired []string
	for _, s := range sources {
		if s.Required && !s.Exists {
			missingRequired = append(missingRequired, s.Path)
		}
	}
	if len(missingRequired) > 0 {
		msg := "Missing required context files: " + strings.Join(missingRequired, ", ")
		if options.Strict {
			return nil, fmt.Errorf("%s", msg)
		}
		warnings = append(warnings, msg)
	}

	rawActions, gtmSignals := parseSources(sources, options.VerboseLogging)

	if len(rawActions) == 0 {
		msg := "No actions parsed from required context files."
		if options.Strict {
			return nil, fmt.Errorf("%s", msg)
		}
		warnings = append(warnings, msg)
	}

	if options.RulesFile != "" {
		cfg, err := rules.LoadConfig(options.RulesFile)
		if err != nil {
			return nil, err
		}
		var ruleWarnings []string
		rawActions, ruleWarnings = rules.Apply(cfg, rawActions)
		warnings = append(warnings, ruleWarnings...)
	}

	groups := resolve.Converge(rawActions, rounds)
	if options.VerboseLogging {
		fmt.Printf("Merged %d raw actions into %d groups\n", len(rawActions), len(groups))
	}

	actions := prioritize.Finalize(groups, gtmSignals)
	graph.BuildDependencies(actions)
	if cycle := graph.DetectCycle(actions); cycle != "" {
		warnings = append(warnings, cycle)
	}
	prioritize.Sort(actions)
	waves := prioritize.BuildWavePlan(actions)

	backlog := models.Backlog{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		OutDate:     outDate,
		Config: models.RunConfig{
			Strict:               options.Strict,
			IncludeOptional:      options.IncludeOptional,
			Rounds:               rounds,
			RequiredContextFiles: requiredPaths,
			OptionalContextFiles: optionalPaths,
		},
		Sources:  sources,
		Warnings: warnings,
		Actions:  actions,
		Waves:    waves,
	}
	if backlog.Warnings == nil {
		backlog.Warnings = []string{}
	}

	if err := ValidateBacklog(&backlog); err != nil {
		return nil, err
	}

	backlogJSON, err := format.MarshalJSON(backlog)
	if err != nil {
		return nil, fmt.Errorf("error serializing backlog: %w", err)
	}
	if err := schema.ValidateBacklogJSON(backlogJSON); err != nil {
		return nil, err
	}

	result := &Result{
		Backlog:      backlog,
		ReportText:   render.Report(outDate, sources, warnings, actions, waves),
		WavesText:    render.WavesDoc(outDate, actions, waves),
		PromptText:   render.PromptDoc(outDate, actions, waves),
		EvidenceText: render.EvidenceDoc(outDate, actions),
		Files: map[string]string{
			"report":   filepath.Join(outputDir, fmt.Sprintf("META_ACTION_PLAN_REPORT_%s.md", outDate)),
			"backlog":  filepath.Join(outputDir, fmt.Sprintf("META_ACTION_PLAN_BACKLOG_%s.json", outDate)),
			"waves":    filepath.Join(outputDir, fmt.Sprintf("META_ACTION_PLAN_WAVES_%s.md", outDate)),
			"prompt":   filepath.Join(outputDir, fmt.Sprintf("META_ACTION_PLAN_PROMPT_%s.md", outDate)),
			"evidence": filepath.Join(outputDir, fmt.Sprintf("META_ACTION_PLAN_EVIDENCE_%s.md", outDate)),
		},
	}

	if options.WriteOutputs {
		if err := writeOutputs(result, backlogJSON, outputDir); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func loadSources(repoRoot string, requiredPaths, optionalPaths []string, verbose bool) ([]models.SourceRecord, error) {
	sources := make([]models.SourceRecord, 0, len(requiredPaths)+len(optionalPaths))
	seen := make(map[string]bool, len(requiredPaths))

	for _, rel := range requiredPaths {
		record, err := ReadSource(repoRoot, rel, true)
		if err != nil {
			return nil, err
		}
		seen[rel] = true
		sources = append(sources, record)
		if verbose {
			fmt.Printf("Loaded required context file: %s (exists=%t)\n", rel, record.Exists)
		}
	}
	for _, rel := range optionalPaths {
		if seen[rel] {
			continue
		}
		record, err := ReadSource(repoRoot, rel, false)
		if err != nil {
			return nil, err
		}
		sources = append(sources, record)
		if verbose {
			fmt.Printf("Loaded optional context file: %s (exists=%t)\n", rel, record.Exists)
		}
	}
	return sources, nil
}

func parseSources(sources []models.SourceRecord, verbose bool) ([]models.RawAction, models.GTMSignals) {
	var rawActions []models.RawAction
	gtmContent := ""

	for _, s := range sources {
		if !s.Exists {
			continue
		}
		switch {
		case fixQueueRoleRegex.MatchString(s.Path):
			parsed := parse.ParseFixQueue(s.Content, s.Path)
			rawActions = append(rawActions, parsed...)
			if verbose {
				fmt.Printf("Parsed %d fix queue actions from %s\n", len(parsed), s.Path)
			}
		case reviewRoleRegex.MatchString(s.Path):
			parsed := parse.ParseReview(s.Content, s.Path)
			rawActions = append(rawActions, parsed...)
			if verbose {
				fmt.Printf("Parsed %d review findings from %s\n", len(parsed), s.Path)
			}
		case gtmRoleRegex.MatchString(s.Path):
			if gtmContent == "" {
				gtmContent = s.Content
			}
		}
	}

	return rawActions, parse.ParseGTMPlan(gtmContent)
}

func writeOutputs(result *Result, backlogJSON []byte, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	texts := map[string]string{
		"report":   result.ReportText,
		"waves":    result.WavesText,
		"prompt":   result.PromptText,
		"evidence": result.EvidenceText,
	}
	for key, content := range texts {
		if err := os.WriteFile(result.Files[key], []byte(content), 0644); err != nil {
			return fmt.Errorf("error writing %s document: %w", key, err)
		}
	}
	if err := os.WriteFile(result.Files["backlog"], backlogJSON, 0644); err != nil {
		return fmt.Errorf("error writing backlog document: %w", err)
	}
	return nil
}
