package conformance

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadedScenario pairs a parsed Scenario with the fixture file it came
// from, so failures can be reported with their source path.
type LoadedScenario struct {
	File     string
	Scenario Scenario
}

// LoadDir walks dir for *.yaml fixtures and parses each into a Scenario.
func LoadDir(dir string) ([]LoadedScenario, error) {
	var loaded []LoadedScenario
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".yaml" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var s Scenario
		if err := yaml.Unmarshal(data, &s); err != nil {
			return err
		}
		rel, _ := filepath.Rel(dir, path)
		loaded = append(loaded, LoadedScenario{File: rel, Scenario: s})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loaded, nil
}
