package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"radlic/internal/parser"
)

func TestBuildLicensePrompt(t *testing.T) {
	prompt := parser.BuildLicensePrompt("Radicado: 2024001234")

	assert.Contains(t, prompt, `"RADICADO"`)
	assert.Contains(t, prompt, `"EQUIPOS"`)
	assert.Contains(t, prompt, `"MARCA_TUBO"`)
	assert.Contains(t, prompt, "Radicado: 2024001234")
}

func TestBuildLicensePromptTruncatesLongText(t *testing.T) {
	long := strings.Repeat("x", 100000)
	prompt := parser.BuildLicensePrompt(long)
	assert.Less(t, len(prompt), 50000)
}
