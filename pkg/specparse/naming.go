package specparse

import (
	"strings"
	"unicode"
)

// GoName converts a specification name to an exported Go identifier:
// "engine_status" and "engine-status" become "EngineStatus", "RPM" stays
// "RPM". Names starting with a digit get an "N" prefix.
func GoName(name string) string {
	var result strings.Builder
	upper := true
	for _, r := range name {
		switch {
		case r == '_' || r == '-' || r == ' ' || r == '.':
			upper = true
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if result.Len() == 0 && unicode.IsDigit(r) {
				result.WriteByte('N')
			}
			if upper {
				r = unicode.ToUpper(r)
				upper = false
			}
			result.WriteRune(r)
		}
	}
	return result.String()
}
