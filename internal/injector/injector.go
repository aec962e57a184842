package injector

import (
	"fmt"
	"path/filepath"
	"strings"

	"confex/internal/artifact"
	"confex/internal/confex"
	"confex/internal/resolver"
)

// InjectFile writes the artifact to a file for the target process to read.
// Relative paths are resolved against the current working directory.
func InjectFile(art artifact.ConfigArtifact, path string) (string, error) {
	if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		path = abs
	}

	if err := art.WriteToFile(path); err != nil {
		return "", err
	}
	return path, nil
}

// InjectEnv adds the artifact JSON to the environment under varName.
// Returns a new environ slice; the input is not modified.
func InjectEnv(art artifact.ConfigArtifact, environ []string, varName string) ([]string, error) {
	jsonBytes, err := art.ToCanonicalJSON()
	if err != nil {
		return nil, err
	}
	return SetEnv(environ, varName, string(jsonBytes)), nil
}

// ExportDefaults adds every value that was filled in from a default to the
// environment, so the target process sees the same configuration that was
// validated. resolved must come from the same source as values.
func ExportDefaults(environ []string, resolved []resolver.ResolvedValue, values confex.Values) []string {
	result := environ
	for _, rv := range resolved {
		if rv.Present {
			continue
		}
		value, ok := values.Get(rv.Key)
		if !ok {
			continue
		}
		result = SetEnv(result, rv.EnvVar, artifact.Stringify(value))
	}
	return result
}

// SetEnv returns a copy of environ with name set to value, replacing any
// earlier entry for name.
func SetEnv(environ []string, name, value string) []string {
	result := make([]string, 0, len(environ)+1)
	prefix := name + "="
	for _, env := range environ {
		if !strings.HasPrefix(env, prefix) {
			result = append(result, env)
		}
	}
	return append(result, prefix+value)
}
