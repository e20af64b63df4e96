package utils

import (
	"path/filepath"

	"github.com/funvibe/funxy/internal/config"
)

// ExtractModuleName derives a package name from a file path: the base
// filename with any recognized source extension trimmed. Used as the
// fallback package name for a file with no `package` clause (SPEC_FULL.md's
// package clause is optional at the syntax level).
func ExtractModuleName(path string) string {
	name := filepath.Base(path)
	return config.TrimSourceExt(name)
}
