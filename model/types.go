package model

import (
	"fmt"
	"strings"
)

// BuildingType is the kind of structure a player can place. The ordinal is
// the code used in the command string, so the order must not change.
type BuildingType int

const (
	Attack  BuildingType = 0
	Defense BuildingType = 1
	Energy  BuildingType = 2
)

// BuildingTypes lists every building type in code order.
var BuildingTypes = []BuildingType{Attack, Defense, Energy}

var buildingTypeNames = [...]string{"ATTACK", "DEFENSE", "ENERGY"}

func (t BuildingType) String() string {
	if t < 0 || int(t) >= len(buildingTypeNames) {
		return fmt.Sprintf("BuildingType(%d)", int(t))
	}
	return buildingTypeNames[t]
}

// ParseBuildingType accepts the engine's names case-insensitively.
func ParseBuildingType(s string) (BuildingType, error) {
	for i, name := range buildingTypeNames {
		if strings.EqualFold(s, name) {
			return BuildingType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown building type %q", s)
}

func (t BuildingType) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(buildingTypeNames) {
		return nil, fmt.Errorf("unknown building type %d", int(t))
	}
	return []byte(buildingTypeNames[t]), nil
}

func (t *BuildingType) UnmarshalText(b []byte) error {
	parsed, err := ParseBuildingType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// PlayerType identifies a side. A is always the acting player.
type PlayerType string

const (
	PlayerA PlayerType = "A"
	PlayerB PlayerType = "B"
)

// Opponent returns the other side.
func (p PlayerType) Opponent() PlayerType {
	if p == PlayerA {
		return PlayerB
	}
	return PlayerA
}
