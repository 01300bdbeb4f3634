package sim

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempYAML(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return path
}

func TestLoadServices_Valid(t *testing.T) {
	path := writeTempYAML(t, "services.yaml", `
services:
  - id: 0
    execTime: 2.0
    alpha: 1.5
  - id: 1
    execTime: 1.0
    alpha: 2.0
`)
	services, err := LoadServices(path)
	if err != nil {
		t.Fatalf("LoadServices: %v", err)
	}
	if len(services) != 2 {
		t.Fatalf("got %d services, want 2", len(services))
	}
	if got := services.Rate(0); got != 0.5 {
		t.Errorf("Rate(0): got %v, want 0.5", got)
	}
}

func TestLoadServices_RejectsNonPositiveExecTime(t *testing.T) {
	path := writeTempYAML(t, "services.yaml", `
services:
  - id: 0
    execTime: 0
    alpha: 1.0
`)
	if _, err := LoadServices(path); err == nil {
		t.Errorf("LoadServices: expected error for zero execTime, got nil")
	}
}

func TestLoadServices_RejectsGapInIDs(t *testing.T) {
	path := writeTempYAML(t, "services.yaml", `
services:
  - id: 0
    execTime: 1.0
    alpha: 1.0
  - id: 2
    execTime: 1.0
    alpha: 1.0
`)
	if _, err := LoadServices(path); err == nil {
		t.Errorf("LoadServices: expected error for missing id 1, got nil")
	}
}

func TestLoadServices_RejectsEmptyFile(t *testing.T) {
	path := writeTempYAML(t, "services.yaml", `services: []`)
	if _, err := LoadServices(path); err == nil {
		t.Errorf("LoadServices: expected error for empty services, got nil")
	}
}
