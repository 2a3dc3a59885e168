package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// StationRegistry maps a station's display name to its configuration.
// Loaded once at startup and read-only afterwards.
type StationRegistry map[string]Station

// LoadStations reads the station registry from a JSON file keyed by
// station name.
func LoadStations(path string) (StationRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading stations file: %w", err)
	}

	registry := StationRegistry{}
	if err := json.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return registry, nil
}
