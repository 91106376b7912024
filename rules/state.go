package rules

import "github.com/nstehr/bastion/model"

// BuildingsOf returns the cells owned by owner that hold at least one building
// of type t, in row-major order. The map is rescanned on every call.
func BuildingsOf(gs model.GameState, owner model.PlayerType, t model.BuildingType) []model.Cell {
	var out []model.Cell
	for _, row := range gs.GameMap {
		for _, c := range row {
			if c.CellOwner == owner && c.HasBuilding(t) {
				out = append(out, c)
			}
		}
	}
	return out
}

// EnemyMissileCells returns the cells currently covered by a missile fired by
// the opponent of the acting player.
func EnemyMissileCells(gs model.GameState) []model.Cell {
	enemy := model.PlayerA.Opponent()
	var out []model.Cell
	for _, row := range gs.GameMap {
		for _, c := range row {
			if c.HasMissileFrom(enemy) {
				out = append(out, c)
			}
		}
	}
	return out
}

// Side is one player's buildings split by type, computed once per turn.
type Side struct {
	Attack  []model.Cell
	Defense []model.Cell
	Energy  []model.Cell
}

func NewSide(gs model.GameState, owner model.PlayerType) Side {
	return Side{
		Attack:  BuildingsOf(gs, owner, model.Attack),
		Defense: BuildingsOf(gs, owner, model.Defense),
		Energy:  BuildingsOf(gs, owner, model.Energy),
	}
}

// All is the union of the three typed sets. A cell holding buildings of two
// types appears once per type.
func (s Side) All() []model.Cell {
	out := make([]model.Cell, 0, s.Count())
	out = append(out, s.Attack...)
	out = append(out, s.Defense...)
	return append(out, s.Energy...)
}

func (s Side) Count() int { return len(s.Attack) + len(s.Defense) + len(s.Energy) }

// Occupied reports whether any of the side's buildings sit at (x, y).
func (s Side) Occupied(x, y int) bool {
	for _, c := range s.All() {
		if c.X == x && c.Y == y && len(c.Buildings) > 0 {
			return true
		}
	}
	return false
}

// occupancy indexes the side's building cells for repeated lookups.
func (s Side) occupancy() map[model.Coord]bool {
	occ := make(map[model.Coord]bool, s.Count())
	for _, c := range s.All() {
		if len(c.Buildings) > 0 {
			occ[c.Coord()] = true
		}
	}
	return occ
}
