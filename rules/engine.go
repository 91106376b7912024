package rules

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Decision is the classifier's output for one turn.
type Decision struct {
	Phase Phase
	Rule  string // name of the rule that fired; empty if none did
}

// Classifier runs compiled rules against a turn's RuleEnv. Rules are tried in
// priority order and the first match wins. It holds no per-turn state.
type Classifier struct {
	rules []*Rule
}

// NewClassifier compiles all rule conditions into expr bytecode and sorts by priority.
func NewClassifier(rules []*Rule) (*Classifier, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	return &Classifier{rules: compiled}, nil
}

// Classify returns the phase of the first rule whose condition holds. A rule
// whose condition errors at runtime is skipped. With no match the turn is a Nop.
func (c *Classifier) Classify(env RuleEnv) Decision {
	for _, r := range c.rules {
		result, err := vm.Run(r.program, env)
		if err != nil {
			slog.Warn("rule condition error", "rule", r.Name, "error", err)
			continue
		}

		match, ok := result.(bool)
		if !ok || !match {
			continue
		}

		slog.Debug("rule fired", "rule", r.Name, "priority", r.Priority, "phase", r.Phase)
		return Decision{Phase: r.Phase, Rule: r.Name}
	}

	slog.Debug("no rule fired", "energy", env.Energy())
	return Decision{Phase: Nop}
}

// Rules returns the compiled rules in evaluation order.
func (c *Classifier) Rules() []*Rule {
	out := make([]*Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

func compileRules(rules []*Rule) ([]*Rule, error) {
	for _, r := range rules {
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(RuleEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules, nil
}
