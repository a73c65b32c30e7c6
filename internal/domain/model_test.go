package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fluttervet/fluttervet/internal/domain"
)

func TestNormalizeSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"error", domain.SeverityError},
		{"ERROR", domain.SeverityError},
		{"Error", domain.SeverityError},
		{"warning", domain.SeverityWarning},
		{"WARNING", domain.SeverityWarning},
		{"info", domain.SeverityInfo},
		{"hint", domain.SeverityInfo},
		{"lint", domain.SeverityInfo},
		{"", domain.SeverityInfo},
		{"banana", domain.SeverityInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.NormalizeSeverity(tt.in), "severity %q", tt.in)
	}
}

func TestCountBySeverity_SumsToTotal(t *testing.T) {
	result := &domain.ValidationResult{Issues: []domain.ValidationIssue{
		{Severity: domain.SeverityError},
		{Severity: domain.SeverityError},
		{Severity: domain.SeverityWarning},
		{Severity: domain.SeverityInfo},
		{Severity: domain.SeverityInfo},
		{Severity: domain.SeverityInfo},
	}}

	errs, warns, infos := result.CountBySeverity()
	assert.Equal(t, 2, errs)
	assert.Equal(t, 1, warns)
	assert.Equal(t, 3, infos)
	assert.Equal(t, len(result.Issues), errs+warns+infos)
}

func TestHasErrors(t *testing.T) {
	onlyWarnings := &domain.ValidationResult{Issues: []domain.ValidationIssue{
		{Severity: domain.SeverityWarning},
	}}
	assert.False(t, onlyWarnings.HasErrors())

	withError := &domain.ValidationResult{Issues: []domain.ValidationIssue{
		{Severity: domain.SeverityWarning},
		{Severity: domain.SeverityError},
	}}
	assert.True(t, withError.HasErrors())
}

func TestClassNames_Sorted(t *testing.T) {
	pc := &domain.ProjectContext{Classes: map[string]domain.ClassInfo{
		"Zebra": {Name: "Zebra"},
		"Alpha": {Name: "Alpha"},
		"Mango": {Name: "Mango"},
	}}

	assert.Equal(t, []string{"Alpha", "Mango", "Zebra"}, pc.ClassNames())
}
