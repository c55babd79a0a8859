package domain

import (
	"strings"

	"radlic/internal/textnorm"
)

// ApplicantType classifies who requests the license.
type ApplicantType string

const (
	ApplicantNatural  ApplicantType = "PERSONA NATURAL"
	ApplicantJuridica ApplicantType = "PERSONA JURIDICA"
)

// ApplicantTypeFromText infers the applicant type from free text: exact match
// against the enum values first, then substring heuristics. Empty when the
// text matches nothing.
func ApplicantTypeFromText(s string) ApplicantType {
	normalized := textnorm.NormalizeLabel(s)
	switch normalized {
	case string(ApplicantNatural):
		return ApplicantNatural
	case string(ApplicantJuridica):
		return ApplicantJuridica
	}
	if strings.Contains(normalized, "NAT") {
		return ApplicantNatural
	}
	if strings.Contains(normalized, "JUR") {
		return ApplicantJuridica
	}
	return ""
}

// LicenseCategory classifies the license per equipment practice.
type LicenseCategory string

const (
	CategoryOne LicenseCategory = "CATEGORIA 1"
	CategoryTwo LicenseCategory = "CATEGORIA 2"
)

// LicenseCategoryFromText infers the category from a category or equipment
// type value. Best-effort substring heuristics; empty means unresolved and the
// case should be flagged for manual review rather than guessed further.
func LicenseCategoryFromText(s string) LicenseCategory {
	normalized := textnorm.NormalizeLabel(s)
	if normalized == "" {
		return ""
	}
	if strings.Contains(normalized, "1") && strings.Contains(normalized, "CAT") {
		return CategoryOne
	}
	if strings.Contains(normalized, "II") ||
		(strings.Contains(normalized, "2") && strings.Contains(normalized, "CAT")) {
		return CategoryTwo
	}
	if strings.Contains(normalized, "PERIAP") {
		return CategoryOne
	}
	if strings.Contains(normalized, "PANOR") || strings.Contains(normalized, "TOMOG") {
		return CategoryTwo
	}
	return ""
}
