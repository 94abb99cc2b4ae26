// SPDX-License-Identifier: Apache-2.0

// Package text provides the normalization primitives shared by the parsers,
// the dedup resolver, and the prioritizer: whitespace collapsing, slug
// generation, stable content hashing, tokenization, and token-set similarity.
package text

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"sort"
	"strings"
)

// StableHashLength is the number of hex characters kept from the digest.
// Long enough that collisions are rare, short enough for readable IDs.
const StableHashLength = 10

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	nonSlugRegex    = regexp.MustCompile(`[^a-z0-9]+`)
	nonTokenRegex   = regexp.MustCompile(`[^a-z0-9\s]`)
)

// stopWords are dropped during tokenization so that similarity scoring
// compares content words only.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "or": true, "the": true, "to": true,
	"for": true, "of": true, "in": true, "on": true, "with": true, "by": true,
	"at": true, "is": true, "are": true, "be": true, "as": true, "from": true,
	"that": true, "this": true, "should": true, "can": true, "into": true,
	"before": true, "after": true, "add": true, "use": true, "using": true,
	"only": true, "not": true, "if": true, "it": true, "all": true,
	"any": true, "plus": true,
}

// NormalizeSpace collapses runs of whitespace to single spaces and trims.
func NormalizeSpace(value string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(value, " "))
}

// Slugify lowercases the value, replaces runs of non-alphanumeric characters
// with single hyphens, strips leading/trailing hyphens, and truncates to
// maxLen. Truncation happens last, so a truncated slug may end mid-word.
func Slugify(value string, maxLen int) string {
	slug := strings.ToLower(NormalizeSpace(value))
	slug = nonSlugRegex.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if maxLen > 0 && len(slug) > maxLen {
		slug = slug[:maxLen]
	}
	return slug
}

// StableHash returns a short deterministic hex digest of the value, used for
// content fingerprints and identifier disambiguation.
func StableHash(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])[:StableHashLength]
}

// Tokenize lowercases the value, strips non-alphanumeric characters, splits
// on whitespace, and drops short tokens and stop words. The returned slice
// preserves input order and may contain duplicates.
func Tokenize(value string) []string {
	cleaned := nonTokenRegex.ReplaceAllString(strings.ToLower(NormalizeSpace(value)), " ")
	fields := strings.Fields(cleaned)
	tokens := make([]string, 0, len(fields))
	for _, token := range fields {
		if len(token) <= 2 || stopWords[token] {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// Jaccard computes intersection-over-union of two token lists treated as
// sets. Two empty inputs are considered identical.
func Jaccard(aTokens, bTokens []string) float64 {
	a := make(map[string]bool, len(aTokens))
	for _, t := range aTokens {
		a[t] = true
	}
	b := make(map[string]bool, len(bTokens))
	for _, t := range bTokens {
		b[t] = true
	}
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	intersection := 0
	for t := range a {
		if b[t] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// UniqSorted deduplicates the values, drops empty strings, and sorts.
func UniqSorted(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
