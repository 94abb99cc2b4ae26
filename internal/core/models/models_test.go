// SPDX-License-Identifier: Apache-2.0

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityRank(t *testing.T) {
	assert.Greater(t, SeverityBlocker.Rank(), SeverityMajor.Rank())
	assert.Greater(t, SeverityMajor.Rank(), SeverityMinor.Rank())
	assert.Equal(t, 0, Severity("bogus").Rank())
}

func TestMergeSeverity(t *testing.T) {
	assert.Equal(t, SeverityBlocker, MergeSeverity(SeverityBlocker, SeverityMinor))
	assert.Equal(t, SeverityBlocker, MergeSeverity(SeverityMinor, SeverityBlocker))
	assert.Equal(t, SeverityMajor, MergeSeverity(SeverityMajor, SeverityMajor))
}

func TestCanonicalGate(t *testing.T) {
	assert.Equal(t, "G-MED-001", CanonicalGate("g-med-001"))
	assert.Equal(t, "G-LEGAL-012", CanonicalGate("  G-Legal-012 "))
	assert.Equal(t, "Gate 01", CanonicalGate("Gate 01"), "free-text labels are left as-is")
	assert.Equal(t, "", CanonicalGate("   "))
}

func TestIsStrictGate(t *testing.T) {
	assert.True(t, IsStrictGate("G-MED-001"))
	assert.True(t, IsStrictGate("g-ops-42"))
	assert.False(t, IsStrictGate("Gate 01"))
	assert.False(t, IsStrictGate(""))
	assert.False(t, IsStrictGate("G-MED-"))
}

func TestUniqSortedDomains(t *testing.T) {
	out := UniqSortedDomains([]Domain{DomainTechnical, DomainMedical, DomainTechnical, ""})
	assert.Equal(t, []Domain{DomainMedical, DomainTechnical}, out)
}

func TestHasDomain(t *testing.T) {
	domains := []Domain{DomainMedical, DomainLegal}
	assert.True(t, HasDomain(domains, DomainLegal))
	assert.False(t, HasDomain(domains, DomainOps))
}
