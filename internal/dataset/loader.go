package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/stellarlinkco/phys-eval/internal/answer"
)

// LoadFromFile loads and validates a pair suite from a YAML file.
func LoadFromFile(path string) (*Suite, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read %q: %w", path, err)
	}

	var s Suite
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("dataset: parse %q: %w", path, err)
	}
	if err := Validate(&s); err != nil {
		return nil, fmt.Errorf("dataset: validate %q: %w", path, err)
	}
	return &s, nil
}

// LoadFromDir loads and validates all suites from a directory.
func LoadFromDir(dir string) ([]*Suite, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("dataset: read dir %q: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	out := make([]*Suite, 0, len(paths))
	for _, path := range paths {
		s, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Validate checks a suite for consistency.
func Validate(s *Suite) error {
	if s == nil {
		return fmt.Errorf("nil suite")
	}
	if strings.TrimSpace(s.Suite) == "" {
		return fmt.Errorf("suite: missing suite name")
	}
	if len(s.Pairs) == 0 {
		return fmt.Errorf("suite: no pairs")
	}

	seenIDs := make(map[string]struct{}, len(s.Pairs))
	for i, p := range s.Pairs {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return fmt.Errorf("pairs[%d]: missing id", i)
		}
		if _, ok := seenIDs[id]; ok {
			return fmt.Errorf("pairs[%d] (%s): duplicate id", i, id)
		}
		seenIDs[id] = struct{}{}

		if strings.TrimSpace(p.Reference) == "" {
			return fmt.Errorf("pairs[%d] (%s): missing reference", i, id)
		}
		for _, declared := range []string{p.Category, p.PredictionCategory} {
			if strings.TrimSpace(declared) == "" {
				continue
			}
			if _, err := answer.ParseCategory(declared); err != nil {
				return fmt.Errorf("pairs[%d] (%s): %w", i, id, err)
			}
		}
	}
	return nil
}
