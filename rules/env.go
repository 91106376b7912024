package rules

import (
	"fmt"
	"slices"

	"github.com/nstehr/bastion/model"
)

// RuleEnv is the per-turn view shared by the classifier and the command
// generators. It is built once from the snapshot and passed by value; its
// methods are callable from expr rule conditions.
type RuleEnv struct {
	State   model.GameState
	Player  model.Player
	Me      Side
	Enemy   Side
	Threats []model.Cell // cells under an enemy missile
}

// NewRuleEnv scans the snapshot once. It fails only if the acting player is
// missing from the snapshot.
func NewRuleEnv(gs model.GameState) (RuleEnv, error) {
	me, err := gs.Player(model.PlayerA)
	if err != nil {
		return RuleEnv{}, fmt.Errorf("acting player: %w", err)
	}
	return RuleEnv{
		State:   gs,
		Player:  me,
		Me:      NewSide(gs, model.PlayerA),
		Enemy:   NewSide(gs, model.PlayerB),
		Threats: EnemyMissileCells(gs),
	}, nil
}

func (e RuleEnv) Energy() int { return e.Player.Energy }

// Types missing from the stats table are treated as unaffordable.
const unaffordable = int(^uint(0) >> 1)

func (e RuleEnv) price(bt model.BuildingType) int {
	p, ok := e.State.Price(bt)
	if !ok {
		return unaffordable
	}
	return p
}

// CanAffordAny is false only when every building type costs more than the
// current energy balance.
func (e RuleEnv) CanAffordAny() bool {
	for _, bt := range model.BuildingTypes {
		if e.Energy() >= e.price(bt) {
			return true
		}
	}
	return false
}

func (e RuleEnv) MyBuildingCount() int    { return e.Me.Count() }
func (e RuleEnv) EnemyBuildingCount() int { return e.Enemy.Count() }
func (e RuleEnv) AttackCount() int        { return len(e.Me.Attack) }
func (e RuleEnv) DefenseCount() int       { return len(e.Me.Defense) }
func (e RuleEnv) EnergyCount() int        { return len(e.Me.Energy) }
func (e RuleEnv) MissilesInFlight() int   { return len(e.Threats) }
func (e RuleEnv) UnderAttack() bool       { return len(e.Threats) > 0 }
func (e RuleEnv) MapWidth() int           { return e.State.MapWidth() }
func (e RuleEnv) MapHeight() int          { return e.State.MapHeight() }

// ThreatRows returns, ascending, the rows with an enemy missile in flight.
func (e RuleEnv) ThreatRows() []int {
	return uniqueRows(e.Threats)
}

// UndefendedRows returns, ascending, the rows holding an enemy attack building
// and none of our defense buildings.
func (e RuleEnv) UndefendedRows() []int {
	defended := make(map[int]bool, len(e.Me.Defense))
	for _, c := range e.Me.Defense {
		defended[c.Y] = true
	}
	var rows []int
	for _, y := range uniqueRows(e.Enemy.Attack) {
		if !defended[y] {
			rows = append(rows, y)
		}
	}
	return rows
}

func uniqueRows(cells []model.Cell) []int {
	var rows []int
	for _, c := range cells {
		rows = append(rows, c.Y)
	}
	slices.Sort(rows)
	return slices.Compact(rows)
}
