package object

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed annoyances.yaml
var defaultTableYAML []byte

// TypeConfig is the static configuration of one annoyance type.
type TypeConfig struct {
	Name           Type    `yaml:"name"`
	BaseHP         int     `yaml:"baseHp"`
	Speed          float64 `yaml:"speed"`        // Units per motion tick at game speed 1
	Size           float64 `yaml:"size"`         // Side of the square footprint
	SpawnWeight    float64 `yaml:"spawnWeight"`  // Relative weight for random selection
	MinGameSpeed   float64 `yaml:"minGameSpeed"` // Type becomes eligible at this game speed
	Draggable      bool    `yaml:"draggable"`
	SkipBottomEdge bool    `yaml:"skipBottomEdge"` // Never spawns on the bottom edge
	LoopSound      string  `yaml:"loopSound"`      // Played while any of this type is alive
	DefeatSound    string  `yaml:"defeatSound"`    // One-shot played on defeat
}

// tableFile is the YAML document layout.
type tableFile struct {
	Types []TypeConfig `yaml:"types"`
}

// Table is the immutable annoyance type table.
type Table struct {
	order  []Type
	byType map[Type]TypeConfig
}

// requiredTypes must all be present in every table.
var requiredTypes = []Type{TypeFly, TypeRoomba, TypeUFO}

var defaultTable = mustParseTable(defaultTableYAML)

// DefaultTable returns the built-in type table.
func DefaultTable() *Table {
	return defaultTable
}

// LoadTable reads a type table from a YAML file.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read annoyance table: %w", err)
	}
	return ParseTable(data)
}

// ParseTable decodes and validates a YAML type table.
func ParseTable(data []byte) (*Table, error) {
	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse annoyance table YAML: %w", err)
	}
	if err := validateTable(file.Types); err != nil {
		return nil, fmt.Errorf("invalid annoyance table: %w", err)
	}

	t := &Table{byType: make(map[Type]TypeConfig, len(file.Types))}
	for _, cfg := range file.Types {
		t.order = append(t.order, cfg.Name)
		t.byType[cfg.Name] = cfg
	}
	return t, nil
}

func mustParseTable(data []byte) *Table {
	t, err := ParseTable(data)
	if err != nil {
		panic(err)
	}
	return t
}

// validateTable checks every entry and the presence of all required types.
func validateTable(types []TypeConfig) error {
	if len(types) == 0 {
		return fmt.Errorf("types cannot be empty")
	}

	seen := make(map[Type]bool, len(types))
	totalWeight := 0.0
	for _, cfg := range types {
		if cfg.Name == "" {
			return fmt.Errorf("type name cannot be empty")
		}
		if seen[cfg.Name] {
			return fmt.Errorf("duplicate type %q", cfg.Name)
		}
		seen[cfg.Name] = true

		if cfg.BaseHP < 1 {
			return fmt.Errorf("baseHp must be >= 1, got %d for %s", cfg.BaseHP, cfg.Name)
		}
		if cfg.Speed <= 0 {
			return fmt.Errorf("speed must be > 0, got %v for %s", cfg.Speed, cfg.Name)
		}
		if cfg.Size <= 0 {
			return fmt.Errorf("size must be > 0, got %v for %s", cfg.Size, cfg.Name)
		}
		if cfg.SpawnWeight < 0 {
			return fmt.Errorf("spawnWeight must be >= 0, got %v for %s", cfg.SpawnWeight, cfg.Name)
		}
		if cfg.MinGameSpeed < 1 {
			return fmt.Errorf("minGameSpeed must be >= 1, got %v for %s", cfg.MinGameSpeed, cfg.Name)
		}
		if cfg.Name == TypeUFO {
			if cfg.Draggable {
				return fmt.Errorf("ufo cannot be draggable")
			}
			if !cfg.SkipBottomEdge {
				return fmt.Errorf("ufo must skip the bottom edge")
			}
		}
		totalWeight += cfg.SpawnWeight
	}

	for _, name := range requiredTypes {
		if !seen[name] {
			return fmt.Errorf("missing type %q", name)
		}
	}
	if totalWeight <= 0 {
		return fmt.Errorf("spawn weights must sum to a positive value")
	}
	return nil
}

// Types returns the type names in table order.
func (t *Table) Types() []Type {
	return append([]Type(nil), t.order...)
}

// Config returns the configuration for a type.
func (t *Table) Config(typ Type) (TypeConfig, bool) {
	cfg, ok := t.byType[typ]
	return cfg, ok
}

// LowestTier returns the type that becomes eligible first.
func (t *Table) LowestTier() Type {
	lowest := t.order[0]
	for _, typ := range t.order[1:] {
		if t.byType[typ].MinGameSpeed < t.byType[lowest].MinGameSpeed {
			lowest = typ
		}
	}
	return lowest
}

// PickType chooses a type by weighted random selection among the types whose
// MinGameSpeed does not exceed gameSpeed. It falls back to the lowest tier
// when no eligible type carries weight.
func PickType(t *Table, gameSpeed float64, rng Rand) Type {
	total := 0.0
	for _, typ := range t.order {
		cfg := t.byType[typ]
		if cfg.MinGameSpeed <= gameSpeed {
			total += cfg.SpawnWeight
		}
	}
	if total <= 0 {
		return t.LowestTier()
	}

	r := rng.Float64() * total
	for _, typ := range t.order {
		cfg := t.byType[typ]
		if cfg.MinGameSpeed > gameSpeed {
			continue
		}
		if r < cfg.SpawnWeight {
			return typ
		}
		r -= cfg.SpawnWeight
	}
	return t.LowestTier()
}
