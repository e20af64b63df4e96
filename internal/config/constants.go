package config

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".lang", ".funxy", ".fx"}

// TrimSourceExt removes any recognized source extension from a filename.
// Returns the original string if no extension matches.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if the path ends with any recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// IsTestMode indicates the process is running under `go test`, or an equivalent
// harness. No package in this module reads it; type-variable names in String()
// output are not normalized on it.
var IsTestMode = false

// IsLSPMode indicates the process is running under an editor-integration server.
// No such server ships with this module, and no package in this module reads it.
var IsLSPMode = false

// StrictKinds holds the strictKinds setting installed by Apply. No package in
// this module reads it: kind-constraint violations are reported as ordinary
// diagnostics and inference continues whatever its value.
var StrictKinds = false

// LongDiagnostics holds the longDiagnostics setting installed by Apply. No
// package in this module reads it; rendering the long form is done by calling
// diagnostics.Error.Long directly.
var LongDiagnostics = false
