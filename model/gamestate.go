package model

import (
	"errors"
	"fmt"
)

// ErrPlayerNotFound is returned when a snapshot has no entry for the requested player.
var ErrPlayerNotFound = errors.New("player not found")

// GameState is the per-turn snapshot written by the game engine (state.json).
// The agent never mutates it.
type GameState struct {
	GameDetails GameDetails `json:"gameDetails"`
	Players     []Player    `json:"players"`
	GameMap     [][]Cell    `json:"gameMap"` // indexed [y][x]
}

type GameDetails struct {
	Round             int                            `json:"round"`
	MapWidth          int                            `json:"mapWidth"`
	MapHeight         int                            `json:"mapHeight"`
	RoundIncomeEnergy int                            `json:"roundIncomeEnergy"`
	BuildingsStats    map[BuildingType]BuildingStats `json:"buildingsStats"`
}

type BuildingStats struct {
	Health                 int `json:"health"`
	ConstructionTime       int `json:"constructionTime"`
	Price                  int `json:"price"`
	WeaponDamage           int `json:"weaponDamage"`
	WeaponSpeed            int `json:"weaponSpeed"`
	WeaponCooldownPeriod   int `json:"weaponCooldownPeriod"`
	EnergyGeneratedPerTurn int `json:"energyGeneratedPerTurn"`
	DestroyMultiplier      int `json:"destroyMultiplier"`
	ConstructionScore      int `json:"constructionScore"`
}

type Player struct {
	PlayerType PlayerType `json:"playerType"`
	Energy     int        `json:"energy"`
	Health     int        `json:"health"`
	HitsTaken  int        `json:"hitsTaken"`
	Score      int        `json:"score"`
}

type Cell struct {
	X         int        `json:"x"`
	Y         int        `json:"y"`
	CellOwner PlayerType `json:"cellOwner"`
	Buildings []Building `json:"buildings"`
	Missiles  []Missile  `json:"missiles"`
}

// Coord returns the cell position.
func (c Cell) Coord() Coord { return Coord{X: c.X, Y: c.Y} }

// HasBuilding reports whether at least one building of type t sits on the cell.
func (c Cell) HasBuilding(t BuildingType) bool {
	for _, b := range c.Buildings {
		if b.BuildingType == t {
			return true
		}
	}
	return false
}

// HasMissileFrom reports whether a missile owned by p is over the cell.
func (c Cell) HasMissileFrom(p PlayerType) bool {
	for _, m := range c.Missiles {
		if m.PlayerType == p {
			return true
		}
	}
	return false
}

type Building struct {
	X                    int          `json:"x"`
	Y                    int          `json:"y"`
	PlayerType           PlayerType   `json:"playerType"`
	BuildingType         BuildingType `json:"buildingType"`
	Health               int          `json:"health"`
	ConstructionTimeLeft int          `json:"constructionTimeLeft"`
	Price                int          `json:"price"`
	WeaponDamage         int          `json:"weaponDamage"`
	WeaponSpeed          int          `json:"weaponSpeed"`
	WeaponCooldownPeriod int          `json:"weaponCooldownPeriod"`
}

// Missile is an in-flight projectile. Only its presence and owner matter to the agent.
type Missile struct {
	X          int        `json:"x"`
	Y          int        `json:"y"`
	Damage     int        `json:"damage"`
	Speed      int        `json:"speed"`
	PlayerType PlayerType `json:"playerType"`
}

type Coord struct {
	X int
	Y int
}

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// Player returns the entry for p.
func (gs GameState) Player(p PlayerType) (Player, error) {
	for _, pl := range gs.Players {
		if pl.PlayerType == p {
			return pl, nil
		}
	}
	return Player{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, p)
}

// CellAt returns the cell at (x, y). The bool is false for out-of-bounds
// coordinates or a ragged map row.
func (gs GameState) CellAt(x, y int) (Cell, bool) {
	if y < 0 || y >= len(gs.GameMap) {
		return Cell{}, false
	}
	row := gs.GameMap[y]
	if x < 0 || x >= len(row) {
		return Cell{}, false
	}
	return row[x], true
}

// Price looks up the construction cost of t. Missing entries report ok=false.
func (gs GameState) Price(t BuildingType) (int, bool) {
	stats, ok := gs.GameDetails.BuildingsStats[t]
	if !ok {
		return 0, false
	}
	return stats.Price, true
}

func (gs GameState) MapWidth() int  { return gs.GameDetails.MapWidth }
func (gs GameState) MapHeight() int { return gs.GameDetails.MapHeight }
