package rules

import "github.com/expr-lang/expr/vm"

// Rule maps a condition over the turn's RuleEnv to a phase. The classifier
// walks rules by priority and the first true condition decides the turn.
type Rule struct {
	Name         string      // human-readable identifier
	Priority     int         // higher = evaluated first
	Phase        Phase       // outcome when the condition holds
	ConditionSrc string      // expr source (preserved for logging)
	program      *vm.Program // compiled bytecode
}
