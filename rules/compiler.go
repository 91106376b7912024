package rules

import "fmt"

// CompileDoctrine generates the classifier rule set. Conditions are built with
// fmt.Sprintf from validated integers, so the output always compiles.
func CompileDoctrine(d Doctrine) []*Rule {
	d.Validate()
	var rules []*Rule

	// Energy gates everything: nothing is affordable, nothing to do.
	rules = append(rules, &Rule{
		Name:         "starved",
		Priority:     1000,
		Phase:        Nop,
		ConditionSrc: `!CanAffordAny()`,
	})

	// --- Opponent has not built anything yet ---

	rules = append(rules, &Rule{
		Name:         "opening-strike",
		Priority:     900,
		Phase:        Attack,
		ConditionSrc: `EnemyBuildingCount() == 0 && !UnderAttack() && MyBuildingCount() == 0`,
	})

	rules = append(rules, &Rule{
		Name:         "fortify",
		Priority:     850,
		Phase:        Defend,
		ConditionSrc: fmt.Sprintf(`EnemyBuildingCount() == 0 && !UnderAttack() && DefenseCount() < %d`, d.DefenseTarget),
	})

	rules = append(rules, &Rule{
		Name:         "stockpile",
		Priority:     800,
		Phase:        Save,
		ConditionSrc: `EnemyBuildingCount() == 0 && !UnderAttack()`,
	})

	// Missiles without any enemy building: something was destroyed mid-flight.
	rules = append(rules, &Rule{
		Name:         "unexplained-fire",
		Priority:     750,
		Phase:        Defend,
		ConditionSrc: `EnemyBuildingCount() == 0`,
	})

	// --- Opponent has buildings ---

	rules = append(rules, &Rule{
		Name:         "attack-capped",
		Priority:     700,
		Phase:        Defend,
		ConditionSrc: fmt.Sprintf(`!UnderAttack() && AttackCount() == %d`, d.AttackCap),
	})

	rules = append(rules, &Rule{
		Name:         "press-attack",
		Priority:     650,
		Phase:        Attack,
		ConditionSrc: `!UnderAttack()`,
	})

	rules = append(rules, &Rule{
		Name:         "repel",
		Priority:     100,
		Phase:        Defend,
		ConditionSrc: `true`,
	})

	return rules
}

// DefaultRules compiles the default doctrine.
func DefaultRules() []*Rule {
	return CompileDoctrine(DefaultDoctrine())
}
