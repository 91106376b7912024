package ipc

// CommandMessage answers a game_state message. Command is the exact text the
// game expects ("x,y,type" or empty for no-op); Phase and Rule explain it.
// Error is set when the snapshot could not be decided and Command is the no-op.
type CommandMessage struct {
	Round   int    `json:"round"`
	Command string `json:"command"`
	Phase   string `json:"phase"`
	Rule    string `json:"rule,omitempty"`
	Error   string `json:"error,omitempty"`
}
