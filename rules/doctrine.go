package rules

// Doctrine holds the build thresholds the classifier rules are compiled from.
type Doctrine struct {
	// DefenseTarget is how many defense buildings to raise while the opponent
	// has built nothing, before switching to saving energy.
	DefenseTarget int `yaml:"defense_target" json:"defense_target"`
	// AttackCap is the attack building count treated as full capacity.
	AttackCap int `yaml:"attack_cap" json:"attack_cap"`
}

func DefaultDoctrine() Doctrine {
	return Doctrine{
		DefenseTarget: 3,
		AttackCap:     3,
	}
}

// Validate clamps the thresholds to their valid ranges.
func (d *Doctrine) Validate() {
	d.DefenseTarget = clampInt(d.DefenseTarget, 1, 32)
	d.AttackCap = clampInt(d.AttackCap, 1, 32)
}

// clampInt restricts v to [min, max].
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
