// Package catalog holds the static gate catalogue: which gates run for each
// work-item category, and the per-kind remediation checklists and effort
// estimates attached to failures.
package catalog

import (
	"fmt"
	"time"

	"github.com/donegate/donegate/internal/domain"
)

// Base gates run for every category.
var baseGates = []domain.GateDefinition{
	{Name: "clean-worktree", Kind: domain.GateKindVCS, Severity: domain.SeverityWarning, Timeout: 30 * time.Second},
	{Name: "file-integrity", Kind: domain.GateKindIntegrity, Severity: domain.SeverityError, Timeout: 30 * time.Second},
}

var categoryGates = map[domain.Category][]domain.GateDefinition{
	domain.CategoryTask: {
		{Name: "build", Kind: domain.GateKindBuild, Severity: domain.SeverityError},
		{Name: "unit-tests", Kind: domain.GateKindTest, Severity: domain.SeverityError},
		{Name: "lint", Kind: domain.GateKindLint, Severity: domain.SeverityWarning},
	},
	domain.CategoryFeature: {
		{Name: "build", Kind: domain.GateKindBuild, Severity: domain.SeverityError},
		{Name: "unit-tests", Kind: domain.GateKindTest, Severity: domain.SeverityError},
		{Name: "lint", Kind: domain.GateKindLint, Severity: domain.SeverityWarning},
		{Name: "security-scan", Kind: domain.GateKindSecurity, Severity: domain.SeverityWarning},
		{Name: "docs-updated", Kind: domain.GateKindDocs, Severity: domain.SeverityInfo},
	},
	domain.CategoryProject: {
		{Name: "build", Kind: domain.GateKindBuild, Severity: domain.SeverityError},
		{Name: "unit-tests", Kind: domain.GateKindTest, Severity: domain.SeverityError},
		{Name: "integration-tests", Kind: domain.GateKindTest, Severity: domain.SeverityError},
		{Name: "lint", Kind: domain.GateKindLint, Severity: domain.SeverityWarning},
		{Name: "security-scan", Kind: domain.GateKindSecurity, Severity: domain.SeverityError},
		{Name: "docs-updated", Kind: domain.GateKindDocs, Severity: domain.SeverityWarning},
	},
	domain.CategoryCommit: {
		{Name: "build", Kind: domain.GateKindBuild, Severity: domain.SeverityError},
		{Name: "unit-tests", Kind: domain.GateKindTest, Severity: domain.SeverityWarning},
		{Name: "lint", Kind: domain.GateKindLint, Severity: domain.SeverityInfo},
	},
}

// For returns the ordered gate set for a category: the always-included base
// gates followed by the category-specific ones, with config overrides applied.
func For(category domain.Category, cfg domain.Config) ([]domain.GateDefinition, error) {
	specific, ok := categoryGates[category]
	if !ok {
		return nil, fmt.Errorf("no gates defined for category %q", category)
	}

	defs := make([]domain.GateDefinition, 0, len(baseGates)+len(specific))
	for _, d := range baseGates {
		defs = append(defs, cfg.GateWithOverrides(d))
	}
	for _, d := range specific {
		defs = append(defs, cfg.GateWithOverrides(d))
	}
	return defs, nil
}

// remediation lists the static checklist shown when a gate of each kind fails.
var remediation = map[domain.GateKind][]string{
	domain.GateKindVCS: {
		"Commit or stash uncommitted changes",
		"Verify no untracked files were left behind by the work item",
	},
	domain.GateKindIntegrity: {
		"Restore or regenerate the missing project files",
		"Check that the project root path is correct",
	},
	domain.GateKindBuild: {
		"Run the build locally and fix compile errors",
		"Check for missing or mismatched dependency versions",
	},
	domain.GateKindTest: {
		"Run the failing test suite locally and fix regressions",
		"Update tests that encode superseded behavior",
	},
	domain.GateKindLint: {
		"Run the linter locally and apply its auto-fixes",
		"Suppress only rules with a recorded justification",
	},
	domain.GateKindSecurity: {
		"Review the scanner findings and patch vulnerable dependencies",
		"Rotate any credentials the scanner flagged",
	},
	domain.GateKindDocs: {
		"Update user-facing documentation for the changed behavior",
	},
}

// effort estimates how hard a failure of each kind is to fix.
var effort = map[domain.GateKind]domain.Effort{
	domain.GateKindVCS:       domain.EffortLow,
	domain.GateKindIntegrity: domain.EffortLow,
	domain.GateKindBuild:     domain.EffortMedium,
	domain.GateKindTest:      domain.EffortMedium,
	domain.GateKindLint:      domain.EffortLow,
	domain.GateKindSecurity:  domain.EffortHigh,
	domain.GateKindDocs:      domain.EffortLow,
}

// RemediationFor returns the static checklist for a gate kind.
func RemediationFor(kind domain.GateKind) []string {
	return remediation[kind]
}

// EffortFor returns the static effort estimate for a gate kind.
func EffortFor(kind domain.GateKind) domain.Effort {
	if e, ok := effort[kind]; ok {
		return e
	}
	return domain.EffortMedium
}
