package naming

import (
	"path/filepath"
	"strings"

	"radlic/internal/textnorm"
)

// BuildOutputName derives the generated license file name from the source
// document name and the resolved radicado. The stem's trailing segment is
// replaced with "LICENCIA" when the name has three or more underscore
// segments, the leading segment (a prior case id) is dropped, and the
// radicado is prefixed. An optional suffix distinguishes per-equipment
// outputs.
func BuildOutputName(sourceFilename, radicado, suffix string) string {
	stem := strings.TrimSuffix(filepath.Base(sourceFilename), filepath.Ext(sourceFilename))

	parts := strings.Split(stem, "_")
	var renamed string
	if len(parts) >= 3 {
		parts[len(parts)-1] = "LICENCIA"
		renamed = strings.Join(parts, "_")
	} else {
		renamed = stem + "_LICENCIA"
	}

	if _, tail, found := strings.Cut(renamed, "_"); found {
		renamed = tail
	}
	name := textnorm.NormalizeValue(radicado) + "_" + renamed

	if suffix != "" {
		name += "_" + textnorm.NormalizePlaceholderKey(suffix)
	}
	return name
}
