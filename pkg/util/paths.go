package util

import (
	"path"
	"strings"
)

// SafeFilePath cleans a relative file path and rejects anything that is
// absolute, escapes its base directory via "..", or carries a backslash
// (a common path-traversal vector on case-insensitive filesystems).
//
// Used by the Router's XSD lookup: the path configured for the schema that a
// client's `?xsd&name=` value selects must pass this check before it is read.
func SafeFilePath(p string) (string, bool) {
	return safePath(p, false)
}

// SafeFilePathAllowAbsolute behaves like SafeFilePath but permits absolute
// paths through (after cleaning). Used for operator-supplied configuration
// paths (e.g. dispatch.Options.WSDLFile), never for client input.
func SafeFilePathAllowAbsolute(p string) (string, bool) {
	return safePath(p, true)
}

func safePath(p string, allowAbsolute bool) (string, bool) {
	if p == "" {
		return "", false
	}
	if strings.ContainsRune(p, '\\') {
		return "", false
	}

	clean := path.Clean(p)
	isAbsolute := strings.HasPrefix(clean, "/")

	if isAbsolute {
		if !allowAbsolute {
			return "", false
		}
		return clean, true
	}

	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", false
	}

	return clean, true
}
