package template

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadDir builds a library from an asset directory laid out as
//
//	icons/<name>.json
//	structures/<name>.json
//	geography/<name>.json
//
// A template without a "name" field takes its file name.
func LoadDir(assetsPath string) (*Library, error) {
	l, err := NewLibrary()
	if err != nil {
		return nil, err
	}

	err = loadEach(filepath.Join(assetsPath, "icons"), func(name string, data []byte) error {
		var spec IconSpec
		if err := json.Unmarshal(data, &spec); err != nil {
			return err
		}
		if spec.Name == "" {
			spec.Name = name
		}
		return l.AddIcon(spec)
	})
	if err == nil {
		err = loadEach(filepath.Join(assetsPath, "structures"), func(name string, data []byte) error {
			var s Structure
			if err := json.Unmarshal(data, &s); err != nil {
				return err
			}
			if s.Name == "" {
				s.Name = name
			}
			return l.AddStructure(s)
		})
	}
	if err == nil {
		err = loadEach(filepath.Join(assetsPath, "geography"), func(name string, data []byte) error {
			var g Geography
			if err := json.Unmarshal(data, &g); err != nil {
				return err
			}
			if g.Name == "" {
				g.Name = name
			}
			return l.AddGeography(g)
		})
	}
	if err != nil {
		l.Close()
		return nil, err
	}
	return l, nil
}

func loadEach(dir string, add func(name string, data []byte) error) error {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return fmt.Errorf("could not list %s: %w", dir, err)
	}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("could not read template file: %w", err)
		}
		name := strings.TrimSuffix(filepath.Base(path), ".json")
		if err := add(name, data); err != nil {
			return fmt.Errorf("could not load template %s: %w", path, err)
		}
	}
	return nil
}
