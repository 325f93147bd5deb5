// Package config handles depthcap.yaml loading.
package config

import (
	"os"
	"regexp"
	"sort"
)

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// - ${VAR} expands to the env var value, or empty string if unset
// - ${VAR:-default} expands to the env var value, or "default" if unset/empty
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// ExpandEnv replaces ${VAR} and ${VAR:-default} patterns in the input string
// with their corresponding environment variable values.
// Unset variables without defaults expand to empty string.
func ExpandEnv(input string) string {
	out, _ := expandEnv(input)
	return out
}

// expandEnv is ExpandEnv that also reports, sorted and deduplicated, the
// variables that were unset and had no default.
func expandEnv(input string) (string, []string) {
	missing := make(map[string]struct{})

	out := envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}

		varName := groups[1]
		if value, ok := os.LookupEnv(varName); ok && value != "" {
			return value
		}
		if len(groups) >= 3 && groups[2] != "" {
			return groups[2]
		}

		missing[varName] = struct{}{}
		return ""
	})

	if len(missing) == 0 {
		return out, nil
	}
	names := make([]string, 0, len(missing))
	for name := range missing {
		names = append(names, name)
	}
	sort.Strings(names)
	return out, names
}
