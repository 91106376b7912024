package rules

import (
	"errors"
	"log/slog"
	"math/rand"
	"slices"

	"github.com/nstehr/bastion/model"
)

// ErrNoAvailableCell means every candidate cell for a placement is occupied.
var ErrNoAvailableCell = errors.New("no available cell")

// ActionFunc turns a classified turn into a command. rng must not be shared
// between concurrent callers.
type ActionFunc func(env RuleEnv, rng *rand.Rand) (model.Command, error)

var actions = map[Phase]ActionFunc{
	Attack: ActionAttack,
	Defend: ActionDefend,
	Save:   ActionSave,
	Nop:    ActionNop,
}

// ActionFor returns the generator for p. Unknown phases map to ActionNop.
func ActionFor(p Phase) ActionFunc {
	if fn, ok := actions[p]; ok {
		return fn
	}
	return ActionNop
}

// ActionAttack places an attack building on a uniformly chosen free cell of
// our half of the map.
func ActionAttack(env RuleEnv, rng *rand.Rand) (model.Command, error) {
	free := freeCells(env, 0, env.MapWidth()/2)
	if len(free) == 0 {
		return model.NoOp, ErrNoAvailableCell
	}
	c := free[rng.Intn(len(free))]
	slog.Debug("attack placement", "cell", c, "candidates", len(free))
	return model.Build(c.X, c.Y, model.Attack), nil
}

// ActionSave places an energy building on a uniformly chosen free row of the
// back column.
func ActionSave(env RuleEnv, rng *rand.Rand) (model.Command, error) {
	free := freeCells(env, 0, min(1, env.MapWidth()/2))
	if len(free) == 0 {
		return model.NoOp, ErrNoAvailableCell
	}
	c := free[rng.Intn(len(free))]
	slog.Debug("energy placement", "cell", c, "candidates", len(free))
	return model.Build(c.X, c.Y, model.Energy), nil
}

// Defensive slots are the two columns in front of the energy column.
var defenseColumns = []int{1, 2}

// ActionDefend reinforces our front defense line. Rows already holding one of
// our defense buildings in column 1 or 2 are tried first, in map order. Only
// when none of them has a free slot does it open a new row: rows with enemy
// missiles, then rows facing an undefended enemy attack building, then the
// rest. Within a row column 1 is preferred over column 2.
func ActionDefend(env RuleEnv, _ *rand.Rand) (model.Command, error) {
	occ := env.Me.occupancy()
	half := env.MapWidth() / 2
	free := func(rows []int) (model.Coord, bool) {
		for _, y := range rows {
			for _, x := range defenseColumns {
				if x >= half {
					break
				}
				c := model.Coord{X: x, Y: y}
				if !occ[c] {
					return c, true
				}
			}
		}
		return model.Coord{}, false
	}

	if c, ok := free(frontDefenseRows(env)); ok {
		return model.Build(c.X, c.Y, model.Defense), nil
	}
	if c, ok := free(openingRows(env)); ok {
		slog.Debug("opening defense row", "cell", c)
		return model.Build(c.X, c.Y, model.Defense), nil
	}
	return model.NoOp, ErrNoAvailableCell
}

// ActionNop never places anything.
func ActionNop(RuleEnv, *rand.Rand) (model.Command, error) {
	return model.NoOp, nil
}

// frontDefenseRows lists, in map order, the rows where we hold a defense
// building in a defensive column.
func frontDefenseRows(env RuleEnv) []int {
	var rows []int
	for _, c := range env.Me.Defense {
		if slices.Contains(defenseColumns, c.X) && !slices.Contains(rows, c.Y) {
			rows = append(rows, c.Y)
		}
	}
	return rows
}

// openingRows orders every row of the map for starting a new defense line.
func openingRows(env RuleEnv) []int {
	height := env.MapHeight()
	seen := make(map[int]bool, height)
	rows := make([]int, 0, height)
	add := func(y int) {
		if y < 0 || y >= height || seen[y] {
			return
		}
		seen[y] = true
		rows = append(rows, y)
	}

	for _, y := range env.ThreatRows() {
		add(y)
	}
	for _, y := range env.UndefendedRows() {
		add(y)
	}
	for y := range height {
		add(y)
	}
	return rows
}

// freeCells lists the cells with x in [fromX, toX) and any y that hold none of
// our buildings, scanning x then y so a seeded rng picks reproducibly.
func freeCells(env RuleEnv, fromX, toX int) []model.Coord {
	occ := env.Me.occupancy()
	var out []model.Coord
	for x := fromX; x < toX; x++ {
		for y := range env.MapHeight() {
			c := model.Coord{X: x, Y: y}
			if !occ[c] {
				out = append(out, c)
			}
		}
	}
	return out
}
