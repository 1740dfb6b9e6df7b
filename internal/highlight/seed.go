package highlight

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Seed holds preset highlights per document URL. A document opened under one
// of these URLs starts with a copy of its list.
type Seed map[string][]Highlight

// LoadSeed reads a seed file. JSON files load too since YAML is a superset.
// An empty path yields an empty seed.
func LoadSeed(path string) (Seed, error) {
	if path == "" {
		return Seed{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) (Seed, error) {
	seed := Seed{}
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	for url, list := range seed {
		for i, h := range list {
			if h.Position.PageNumber < 1 {
				return nil, fmt.Errorf("seed %s highlight %d: pageNumber must be >= 1", url, i)
			}
		}
	}
	return seed, nil
}

// For returns a copy of the seeded highlights for url.
func (s Seed) For(url string) []Highlight {
	list := s[url]
	out := make([]Highlight, len(list))
	for i, h := range list {
		out[i] = h.clone()
	}
	return out
}

// ParseList reads a bare list of highlights (YAML or JSON), as sent for bulk
// replacement or given to the command-line exporter.
func ParseList(data []byte) ([]Highlight, error) {
	var list []Highlight
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse highlights: %w", err)
	}
	return list, nil
}
