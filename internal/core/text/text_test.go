// SPDX-License-Identifier: Apache-2.0

package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSpace(t *testing.T) {
	assert.Equal(t, "a b c", NormalizeSpace("  a \t b \n c  "))
	assert.Equal(t, "", NormalizeSpace("   \t\n  "))
	assert.Equal(t, "unchanged", NormalizeSpace("unchanged"))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "add-per-dose-date-capture", Slugify("Add per-dose date capture!", 80))
	assert.Equal(t, "g-med-001", Slugify("G-MED-001", 32))
	assert.Equal(t, "", Slugify("!!!", 80))

	// Truncation happens after trimming, so a cut can land mid-word or on a hyphen.
	assert.Equal(t, "add-per-d", Slugify("Add per-dose date capture", 9))
	assert.Equal(t, "add-", Slugify("Add per-dose", 4))
}

func TestStableHash(t *testing.T) {
	h1 := StableHash("some content")
	h2 := StableHash("some content")
	h3 := StableHash("other content")

	assert.Len(t, h1, StableHashLength)
	assert.Equal(t, h1, h2, "hash should be deterministic")
	assert.NotEqual(t, h1, h3, "different content should hash differently")
}

func TestTokenize(t *testing.T) {
	tokens := Tokenize("Add per-dose date capture AND validation for the doses")
	// "add", "and", "for", "the" are stop words or too short; hyphen splits.
	assert.Equal(t, []string{"per", "dose", "date", "capture", "validation", "doses"}, tokens)

	assert.Empty(t, Tokenize("a to of in"))
	assert.Empty(t, Tokenize(""))
}

func TestTokenizeKeepsDuplicates(t *testing.T) {
	tokens := Tokenize("dosing dosing dosing")
	assert.Equal(t, []string{"dosing", "dosing", "dosing"}, tokens)
}

func TestJaccard(t *testing.T) {
	a := []string{"date", "capture", "validation"}
	b := []string{"date", "capture", "doses"}

	assert.InDelta(t, 0.5, Jaccard(a, b), 0.001)
	assert.Equal(t, 1.0, Jaccard(nil, nil), "two empty sets are identical")
	assert.Equal(t, 0.0, Jaccard(a, nil))
	assert.Equal(t, 1.0, Jaccard(a, a))
}

func TestUniqSorted(t *testing.T) {
	out := UniqSorted([]string{"b", "", "a", "b", "c", "a"})
	assert.Equal(t, []string{"a", "b", "c"}, out)
	assert.Empty(t, UniqSorted(nil))
}
