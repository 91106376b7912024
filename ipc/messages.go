package ipc

// Message types shared with the match runner.
const (
	TypeHello     = "hello"
	TypeAck       = "ack"
	TypeGameState = "game_state" // data: model.GameState
	TypeCommand   = "command"    // data: CommandMessage
)

type HelloMessage struct {
	Player string `json:"player"`
	Bot    string `json:"bot,omitempty"`
}

type AckMessage struct {
	Status string `json:"status"`
}
