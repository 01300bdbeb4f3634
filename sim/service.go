package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Service is immutable reference data for one service: its identifier,
// execution time, and the utility-curve shape parameter used by the pricing
// engine (spec §3).
type Service struct {
	ID       int     `yaml:"id"`
	ExecTime float64 `yaml:"execTime"` // seconds (1/μ_s)
	Alpha    float64 `yaml:"alpha"`    // > 0
	Deadline float64 `yaml:"deadline,omitempty"`
}

// Services is the external table indexed by service id, s ∈ [0, S).
type Services []Service

// Rate returns μ_s = 1/ExecTime for service s.
func (s Services) Rate(service int) float64 {
	return 1.0 / s[service].ExecTime
}

// servicesFile is the on-disk shape for LoadServices.
type servicesFile struct {
	Services []Service `yaml:"services"`
}

// LoadServices reads a YAML file of {id, execTime, alpha, deadline} records
// into a Services table, indexed by ID (spec.md treats Services as an
// external collaborator; this is the concrete loader SPEC_FULL.md adds so
// the CLI is runnable end to end).
func LoadServices(path string) (Services, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sim: reading services file %s: %w", path, err)
	}
	var f servicesFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("sim: parsing services file %s: %w", path, err)
	}
	if len(f.Services) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoServices, path)
	}

	maxID := 0
	for _, svc := range f.Services {
		if svc.ID > maxID {
			maxID = svc.ID
		}
	}
	table := make(Services, maxID+1)
	seen := make([]bool, maxID+1)
	for _, svc := range f.Services {
		if svc.ExecTime <= 0 || svc.Alpha <= 0 {
			return nil, fmt.Errorf("%w: service %d: execTime and alpha must be positive", ErrInvalidService, svc.ID)
		}
		table[svc.ID] = svc
		seen[svc.ID] = true
	}
	for id, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("%w: service %d missing from %s", ErrInvalidService, id, path)
		}
	}
	return table, nil
}
