package rules

// Phase is the tactical classification of a turn.
type Phase int

const (
	Attack Phase = iota
	Defend
	Save
	Nop
)

var phaseNames = [...]string{"attack", "defend", "save", "nop"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}
