package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// WriteScenario writes a scenario to a YAML file.
func WriteScenario(s *Scenario, path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadScenario reads a scenario from a YAML file.
func ReadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	return &s, nil
}

// GeneratePath creates a timestamped scenario filename inside dir.
func GeneratePath(dir string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("scenario_%s.yaml", timestamp))
}

// FindLatest returns the most recently modified scenario file in dir.
func FindLatest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read scenarios dir: %w", err)
	}

	var scenarios []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".yaml") {
			scenarios = append(scenarios, filepath.Join(dir, entry.Name()))
		}
	}
	if len(scenarios) == 0 {
		return "", fmt.Errorf("no scenario files in %s", dir)
	}

	sort.Slice(scenarios, func(i, j int) bool {
		infoI, _ := os.Stat(scenarios[i])
		infoJ, _ := os.Stat(scenarios[j])
		return infoI.ModTime().After(infoJ.ModTime())
	})
	return scenarios[0], nil
}
