package gamedata

import "io/fs"

// SideDef describes one side of a scenario.
type SideDef struct {
	Units     int       `json:"units"`     // Number of units in the force
	BaseSkill int       `json:"baseSkill"` // DEX/REF + combat stat of each unit
	HP        int       `json:"hp"`        // Hit points of each unit
	Armor     int       `json:"armor"`     // Armor of each unit
	Dice      int       `json:"dice"`      // d6 rolled by each unit's main weapon
	Tactics   int       `json:"tactics"`   // Tactics of the squad leader
	Condition Condition `json:"condition"` // Optional condition tag (e.g., "ambush")
}

// ScenarioDef is a named attacker/defender matchup loaded from JSON.
type ScenarioDef struct {
	ID          string  `json:"id"`          // Unique identifier (e.g., "even-squads")
	Name        string  `json:"name"`        // Display name
	Description string  `json:"description"` // One-line summary
	Attacker    SideDef `json:"attacker"`
	Defender    SideDef `json:"defender"`
}

// ScenariosFile represents the structure of scenarios.json.
type ScenariosFile struct {
	Scenarios []ScenarioDef `json:"scenarios"`
}

// LoadScenarios loads scenario definitions from the embedded scenarios.json file.
func LoadScenarios() ([]ScenarioDef, error) {
	file, err := Load[ScenariosFile]("scenarios.json")
	if err != nil {
		return nil, err
	}
	return file.Scenarios, nil
}

// LoadScenariosFS loads scenario definitions from a JSON file in fsys, using
// the same layout as the embedded scenarios.json.
func LoadScenariosFS(fsys fs.FS, filename string) ([]ScenarioDef, error) {
	file, err := LoadFS[ScenariosFile](fsys, filename)
	if err != nil {
		return nil, err
	}
	return file.Scenarios, nil
}
