// Package pathutil provides path template parsing helpers for OAS paths
// objects: parameter extraction, well-formedness checks, and the
// normalization used for parameter-name-insensitive collision detection.
package pathutil

import (
	"fmt"
	"regexp"
	"strings"
)

// ParamRegex matches a single {name} expression in a path template.
var ParamRegex = regexp.MustCompile(`\{([^{}]*)\}`)

// ExtractParams extracts parameter names from a path template.
// e.g., "/pets/{petId}/owners/{ownerId}" -> {"petId": true, "ownerId": true}
func ExtractParams(template string) map[string]bool {
	params := make(map[string]bool)
	for _, match := range ParamRegex.FindAllStringSubmatch(template, -1) {
		if len(match) > 1 {
			params[match[1]] = true
		}
	}
	return params
}

// Normalize replaces every template expression with "{}" so that two
// templates that differ only in parameter names compare equal.
// e.g., "/users/{id}" and "/users/{name}" both normalize to "/users/{}".
func Normalize(template string) string {
	return ParamRegex.ReplaceAllString(template, "{}")
}

// CheckTemplate validates that a path template is well-formed.
// Returns an error describing the first problem found: unclosed or nested
// braces, empty or duplicate parameter names, consecutive slashes, or
// reserved characters.
func CheckTemplate(template string) error {
	if strings.Contains(template, "{}") {
		return fmt.Errorf("empty parameter name in path template")
	}
	if strings.Contains(template, "//") {
		return fmt.Errorf("path contains consecutive slashes")
	}
	if strings.Contains(template, "#") {
		return fmt.Errorf("path contains reserved character '#'")
	}
	if strings.Contains(template, "?") {
		return fmt.Errorf("path contains reserved character '?'")
	}

	openCount := 0
	for i, ch := range template {
		switch ch {
		case '{':
			openCount++
			if openCount > 1 {
				return fmt.Errorf("nested braces are not allowed at position %d", i)
			}
		case '}':
			openCount--
			if openCount < 0 {
				return fmt.Errorf("unexpected closing brace at position %d", i)
			}
		}
	}
	if openCount != 0 {
		return fmt.Errorf("unclosed brace in path template")
	}

	seen := make(map[string]bool)
	for _, match := range ParamRegex.FindAllStringSubmatch(template, -1) {
		if len(match) < 2 {
			continue
		}
		name := match[1]
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("empty parameter name in path template")
		}
		if seen[name] {
			return fmt.Errorf("duplicate parameter name '%s' in path template", name)
		}
		seen[name] = true
	}

	return nil
}
