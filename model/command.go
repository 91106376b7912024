package model

import "fmt"

// Command is a single build order. NoOp renders as the empty string, which
// the game reads as "do nothing this turn".
type Command struct {
	X    int
	Y    int
	Type BuildingType
	nop  bool
}

var NoOp = Command{nop: true}

// Build returns a placement of t at (x, y).
func Build(x, y int, t BuildingType) Command {
	return Command{X: x, Y: y, Type: t}
}

func (c Command) IsNoOp() bool { return c.nop }

func (c Command) String() string {
	if c.nop {
		return ""
	}
	return fmt.Sprintf("%d,%d,%d", c.X, c.Y, int(c.Type))
}
