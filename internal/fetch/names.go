package fetch

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// SanitizeFileName reduces a service-reported filename to runes that are safe
// as a local path component: letters, digits, space, hyphen, underscore and
// period. Everything else is dropped and trailing spaces are trimmed, so
// "My File?*.zip" comes out as "My File.zip".
func SanitizeFileName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// localName produces the final key and path component for one batch entry:
// sanitized, never empty or a directory reference, and unique within the
// batch.
func localName(raw string, index int, taken map[string]bool) string {
	name := SanitizeFileName(raw)
	switch name {
	case "", ".", "..":
		name = fmt.Sprintf("file_%d", index)
	}
	return uniqueName(name, taken)
}

// uniqueName resolves collisions by inserting a positional counter before
// the extension: report.txt, report_2.txt, report_3.txt.
func uniqueName(name string, taken map[string]bool) string {
	if !taken[name] {
		return name
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, n, ext)
		if !taken[candidate] {
			return candidate
		}
	}
}
