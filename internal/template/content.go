// Package template fills {{KEY}} markers in license template documents. Keys
// match case, accent and spacing insensitively; replacement content carries
// per-fragment bold styling so composite clauses can mix plain and emphasized
// spans. Unknown markers are left as literal text so template typos stay
// visible in the output.
package template

import "strings"

// Fragment is one styled span of replacement text.
type Fragment struct {
	Text string
	Bold bool
}

// Content is the ordered fragment list substituted for one placeholder. An
// empty list replaces the marker with nothing.
type Content []Fragment

// Text returns single-fragment plain content, or nil for an empty string.
func Text(s string) Content {
	if s == "" {
		return nil
	}
	return Content{{Text: s}}
}

// BoldText returns single-fragment bold content, or nil for an empty string.
func BoldText(s string) Content {
	if s == "" {
		return nil
	}
	return Content{{Text: s, Bold: true}}
}

// Plain returns the concatenated fragment text without styling.
func (c Content) Plain() string {
	var sb strings.Builder
	for _, f := range c {
		sb.WriteString(f.Text)
	}
	return sb.String()
}
