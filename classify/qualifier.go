package classify

// extractQualifier implements §4.6's "the last `.` at the end of the text
// preceded by an identifier yields the qualifier" rule: it only fires when
// the cursor sits immediately after `ident.` with nothing typed in
// between. prefix is the document text up to (not including) the cursor
// offset.
func extractQualifier(prefix string) (string, bool) {
	if prefix == "" || prefix[len(prefix)-1] != '.' {
		return "", false
	}

	end := len(prefix) - 1
	start := end

	for start > 0 && isIdentByte(prefix[start-1]) {
		start--
	}

	if start == end {
		return "", false
	}

	return prefix[start:end], true
}

func isIdentByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
