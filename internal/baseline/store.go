package baseline

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"confex/internal/artifact"
)

var (
	// ErrBaselineNotFound is returned when a baseline doesn't exist.
	ErrBaselineNotFound = errors.New("baseline not found")

	// ErrInvalidName is returned for names that are not safe file names.
	ErrInvalidName = errors.New("invalid baseline name")
)

// nameRegex validates baseline names: alphanumeric, dots, hyphens, underscores
var nameRegex = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9._-]*$`)

// Store manages baseline persistence as one JSON file per baseline.
type Store struct {
	Dir string // Base directory for baselines
}

// NewStore creates a store with the given directory.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// DefaultDir returns the default baseline directory (~/.confex/baselines).
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".confex", "baselines")
	}
	return filepath.Join(home, ".confex", "baselines")
}

// ResolveDir returns configured when set, otherwise the default directory.
func ResolveDir(configured string) string {
	if configured != "" {
		return configured
	}
	return DefaultDir()
}

// ValidateName checks that name can be used as a baseline identifier.
func ValidateName(name string) error {
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("%w: '%s'", ErrInvalidName, name)
	}
	return nil
}

// Save stores a baseline, replacing any baseline with the same name.
func (s *Store) Save(b Baseline) error {
	if err := ValidateName(b.Name); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create baseline directory: %w", err)
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal baseline: %w", err)
	}

	return os.WriteFile(s.path(b.Name), append(data, '\n'), 0644)
}

// Load retrieves a baseline by name. A baseline whose version no longer
// matches its values is rejected.
func (s *Store) Load(name string) (Baseline, error) {
	if err := ValidateName(name); err != nil {
		return Baseline{}, err
	}

	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return Baseline{}, fmt.Errorf("%w: '%s'", ErrBaselineNotFound, name)
		}
		return Baseline{}, fmt.Errorf("failed to read baseline: %w", err)
	}

	b, err := decode(data)
	if err != nil {
		return Baseline{}, fmt.Errorf("baseline '%s': %w", name, err)
	}
	return b, nil
}

// List returns all stored baselines as summaries, sorted by name.
// Unreadable or invalid files are skipped.
func (s *Store) List() ([]Summary, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Summary{}, nil
		}
		return nil, fmt.Errorf("failed to list baselines: %w", err)
	}

	summaries := []Summary{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.Dir, entry.Name()))
		if err != nil {
			continue
		}
		b, err := decode(data)
		if err != nil {
			continue
		}
		summaries = append(summaries, b.Summary())
	}

	slices.SortFunc(summaries, func(a, b Summary) int {
		return strings.Compare(a.Name, b.Name)
	})
	return summaries, nil
}

// Delete removes a baseline by name.
func (s *Store) Delete(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	if err := os.Remove(s.path(name)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: '%s'", ErrBaselineNotFound, name)
		}
		return fmt.Errorf("failed to delete baseline: %w", err)
	}
	return nil
}

// Exists checks if a baseline exists.
func (s *Store) Exists(name string) bool {
	if ValidateName(name) != nil {
		return false
	}
	_, err := os.Stat(s.path(name))
	return err == nil
}

// path returns the file path for a baseline name.
func (s *Store) path(name string) string {
	return filepath.Join(s.Dir, name+".json")
}

func decode(data []byte) (Baseline, error) {
	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return Baseline{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if b.Values == nil {
		b.Values = map[string]string{}
	}
	if want := artifact.ComputeConfigVersion(b.Values); b.ConfigVersion != want {
		return Baseline{}, artifact.ErrVersionMismatch
	}
	return b, nil
}
