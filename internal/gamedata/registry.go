package gamedata

import (
	"errors"
	"fmt"
	"sort"
)

// ErrScenarioNotFound is returned when a scenario ID is not in the registry.
var ErrScenarioNotFound = errors.New("scenario not found")

// ScenarioRegistry holds loaded scenario definitions and provides lookup utilities.
type ScenarioRegistry struct {
	scenarios map[string]*ScenarioDef
	all       []ScenarioDef
}

// NewScenarioRegistry creates a registry from loaded scenario definitions.
func NewScenarioRegistry(scenarios []ScenarioDef) *ScenarioRegistry {
	registry := &ScenarioRegistry{
		scenarios: make(map[string]*ScenarioDef),
		all:       scenarios,
	}
	for i := range scenarios {
		registry.scenarios[scenarios[i].ID] = &scenarios[i]
	}
	return registry
}

// LoadScenarioRegistry loads and creates a registry from the embedded scenarios.json.
func LoadScenarioRegistry() (*ScenarioRegistry, error) {
	scenarios, err := LoadScenarios()
	if err != nil {
		return nil, err
	}
	if len(scenarios) == 0 {
		return nil, errors.New("no scenarios loaded from scenarios.json")
	}
	return NewScenarioRegistry(scenarios), nil
}

// MustLoadScenarioRegistry loads a registry, panicking on error.
func MustLoadScenarioRegistry() *ScenarioRegistry {
	registry, err := LoadScenarioRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// GetByID returns the scenario definition with the given ID, or nil if not found.
func (r *ScenarioRegistry) GetByID(id string) *ScenarioDef {
	return r.scenarios[id]
}

// Lookup is GetByID with an error for unknown IDs.
func (r *ScenarioRegistry) Lookup(id string) (*ScenarioDef, error) {
	def := r.scenarios[id]
	if def == nil {
		return nil, fmt.Errorf("%w: %q", ErrScenarioNotFound, id)
	}
	return def, nil
}

// IDs returns the sorted scenario identifiers.
func (r *ScenarioRegistry) IDs() []string {
	ids := make([]string, 0, len(r.all))
	for _, s := range r.all {
		ids = append(ids, s.ID)
	}
	sort.Strings(ids)
	return ids
}

// All returns all scenario definitions.
func (r *ScenarioRegistry) All() []ScenarioDef {
	return r.all
}

// Count returns the number of scenarios in the registry.
func (r *ScenarioRegistry) Count() int {
	return len(r.all)
}
