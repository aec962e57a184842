package artifact

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteToFile writes the artifact to the specified path, creating parent
// directories if needed. The file is replaced atomically.
func (a ConfigArtifact) WriteToFile(path string) error {
	// Create parent directories if needed
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	jsonBytes, err := a.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".artifact-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(jsonBytes, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// ReadFromFile loads an artifact written by WriteToFile.
func ReadFromFile(path string) (ConfigArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ConfigArtifact{}, err
	}
	return Parse(data)
}
