package completion

import "strings"

// typedProjectionColumns returns the bare name of every completed
// comma-separated item in the SELECT list preceding offset, excluding the
// still-being-typed trailing fragment, so SelectProjection completion does
// not re-suggest a column the user has already picked.
func typedProjectionColumns(text string, offset int) []string {
	upperPrefix := strings.ToUpper(text[:offset])

	selectIdx := strings.LastIndex(upperPrefix, "SELECT")
	if selectIdx == -1 {
		return nil
	}

	segment := text[selectIdx+len("SELECT") : offset]

	parts := strings.Split(segment, ",")
	if len(parts) <= 1 {
		return nil
	}

	var names []string

	for _, p := range parts[:len(parts)-1] {
		fields := strings.Fields(p)
		if len(fields) == 0 {
			continue
		}

		name := fields[len(fields)-1]
		if idx := strings.LastIndex(name, "."); idx >= 0 {
			name = name[idx+1:]
		}

		names = append(names, name)
	}

	return names
}

// typedIdentifierPrefix returns the run of identifier bytes immediately
// preceding offset (the fragment the user is still typing).
func typedIdentifierPrefix(text string, offset int) string {
	start := offset
	for start > 0 && isIdentByte(text[start-1]) {
		start--
	}

	return text[start:offset]
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
