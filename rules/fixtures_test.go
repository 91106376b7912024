package rules

import (
	"testing"

	"github.com/nstehr/bastion/model"
)

// newState returns an empty w x h map with both players at the given energy
// and every building priced at price.
func newState(w, h, energy, price int) model.GameState {
	gs := model.GameState{
		GameDetails: model.GameDetails{
			MapWidth:  w,
			MapHeight: h,
			BuildingsStats: map[model.BuildingType]model.BuildingStats{
				model.Attack:  {Price: price},
				model.Defense: {Price: price},
				model.Energy:  {Price: price},
			},
		},
		Players: []model.Player{
			{PlayerType: model.PlayerA, Energy: energy},
			{PlayerType: model.PlayerB, Energy: energy},
		},
	}
	gs.GameMap = make([][]model.Cell, h)
	for y := range h {
		gs.GameMap[y] = make([]model.Cell, w)
		for x := range w {
			owner := model.PlayerA
			if x >= w/2 {
				owner = model.PlayerB
			}
			gs.GameMap[y][x] = model.Cell{X: x, Y: y, CellOwner: owner}
		}
	}
	return gs
}

func place(gs model.GameState, x, y int, t model.BuildingType) {
	c := &gs.GameMap[y][x]
	c.Buildings = append(c.Buildings, model.Building{X: x, Y: y, PlayerType: c.CellOwner, BuildingType: t})
}

func fire(gs model.GameState, x, y int, owner model.PlayerType) {
	c := &gs.GameMap[y][x]
	c.Missiles = append(c.Missiles, model.Missile{X: x, Y: y, Damage: 5, Speed: 2, PlayerType: owner})
}

func mustEnv(t testing.TB, gs model.GameState) RuleEnv {
	t.Helper()
	env, err := NewRuleEnv(gs)
	if err != nil {
		t.Fatalf("NewRuleEnv: %v", err)
	}
	return env
}
