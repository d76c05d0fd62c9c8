// Package shared provides common utility functions used across multiple
// packages in the pindown codebase.
package shared

import (
	"fmt"
	"regexp"
	"strings"
)

var pipNameSeparators = regexp.MustCompile(`[-_.]+`)

// NormalizePipName lowercases a Python package name and collapses runs
// of underscores, dots, and hyphens into single hyphens, following
// PEP 503 normalization.
func NormalizePipName(value string) string {
	lower := strings.ToLower(strings.TrimSpace(value))
	return pipNameSeparators.ReplaceAllString(lower, "-")
}

// NormalizeDebName lowercases an apt package name and replaces
// underscores with hyphens.
func NormalizeDebName(value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	return strings.ReplaceAll(normalized, "_", "-")
}

// HTTPStatusError creates a formatted error for non-2xx HTTP responses.
func HTTPStatusError(status int, url string) error {
	return fmt.Errorf("status=%d url=%s", status, url)
}
