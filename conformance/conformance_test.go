package conformance

import (
	"context"
	"testing"
)

func TestScenarios(t *testing.T) {
	scenarios, err := LoadDir("testdata")
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(scenarios) == 0 {
		t.Fatal("no scenarios loaded from testdata")
	}

	for _, s := range scenarios {
		s := s
		t.Run(s.Scenario.Name, func(t *testing.T) {
			result := Run(context.Background(), s)
			if !result.Passed {
				t.Fatalf("%s: %v", s.File, result.Error)
			}
		})
	}
}
