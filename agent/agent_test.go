package agent

import (
	"encoding/json"
	"errors"
	"math/rand"
	"regexp"
	"testing"

	"github.com/nstehr/bastion/ipc"
	"github.com/nstehr/bastion/model"
	"github.com/nstehr/bastion/rules"
)

// baseGameState returns an empty w x h board with every building priced at price.
func baseGameState(w, h, energy, price int) model.GameState {
	gs := model.GameState{
		GameDetails: model.GameDetails{
			Round:     1,
			MapWidth:  w,
			MapHeight: h,
			BuildingsStats: map[model.BuildingType]model.BuildingStats{
				model.Attack:  {Price: price},
				model.Defense: {Price: price},
				model.Energy:  {Price: price},
			},
		},
		Players: []model.Player{
			{PlayerType: model.PlayerA, Energy: energy},
			{PlayerType: model.PlayerB, Energy: energy},
		},
	}
	gs.GameMap = make([][]model.Cell, h)
	for y := range h {
		gs.GameMap[y] = make([]model.Cell, w)
		for x := range w {
			owner := model.PlayerA
			if x >= w/2 {
				owner = model.PlayerB
			}
			gs.GameMap[y][x] = model.Cell{X: x, Y: y, CellOwner: owner}
		}
	}
	return gs
}

func addBuilding(gs model.GameState, x, y int, t model.BuildingType) {
	c := &gs.GameMap[y][x]
	c.Buildings = append(c.Buildings, model.Building{X: x, Y: y, PlayerType: c.CellOwner, BuildingType: t})
}

func addMissile(gs model.GameState, x, y int, owner model.PlayerType) {
	c := &gs.GameMap[y][x]
	c.Missiles = append(c.Missiles, model.Missile{X: x, Y: y, Damage: 5, Speed: 2, PlayerType: owner})
}

func newTestAgent(t *testing.T, seed int64) *Agent {
	t.Helper()
	c, err := rules.NewClassifier(rules.DefaultRules())
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}
	return New(c, rand.New(rand.NewSource(seed)))
}

func TestDecideOpeningAttack(t *testing.T) {
	a := newTestAgent(t, 1)
	pattern := regexp.MustCompile(`^[0-3],[0-5],0$`)

	for range 50 {
		d, err := a.Decide(baseGameState(8, 6, 100, 10))
		if err != nil {
			t.Fatalf("Decide: %v", err)
		}
		if d.Phase != rules.Attack {
			t.Fatalf("phase = %s, want attack", d.Phase)
		}
		if got := d.Command.String(); !pattern.MatchString(got) {
			t.Fatalf("command = %q, want match %s", got, pattern)
		}
	}
}

func TestDecideTurnStarved(t *testing.T) {
	a := newTestAgent(t, 1)

	boards := []model.GameState{
		baseGameState(8, 6, 9, 10),
		baseGameState(16, 8, 0, 20),
	}
	// Busy board: buildings everywhere and missiles in flight.
	busy := baseGameState(8, 6, 5, 10)
	addBuilding(busy, 6, 1, model.Attack)
	addBuilding(busy, 1, 1, model.Defense)
	addMissile(busy, 3, 1, model.PlayerB)
	boards = append(boards, busy)

	for i, gs := range boards {
		got, err := a.DecideTurn(gs)
		if err != nil {
			t.Fatalf("board %d: DecideTurn: %v", i, err)
		}
		if got != "" {
			t.Errorf("board %d: DecideTurn = %q, want \"\"", i, got)
		}
	}
}

func TestDecideAttackCapForcesDefense(t *testing.T) {
	a := newTestAgent(t, 1)

	gs := baseGameState(8, 6, 100, 10)
	addBuilding(gs, 5, 3, model.Defense) // opponent's only building
	d, err := a.Decide(gs)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if d.Phase != rules.Attack || d.Command.Type != model.Attack {
		t.Errorf("attack count 0: phase = %s command = %q, want attack", d.Phase, d.Command)
	}

	addBuilding(gs, 3, 0, model.Attack)
	addBuilding(gs, 3, 1, model.Attack)
	addBuilding(gs, 3, 2, model.Attack)
	d, err = a.Decide(gs)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if d.Phase != rules.Defend {
		t.Errorf("attack count 3: phase = %s, want defend", d.Phase)
	}
	if d.Command.Type != model.Defense || (d.Command.X != 1 && d.Command.X != 2) {
		t.Errorf("attack count 3: command = %q, want a defense in column 1 or 2", d.Command)
	}
}

func TestDecideUnderFire(t *testing.T) {
	a := newTestAgent(t, 1)

	gs := baseGameState(8, 6, 100, 10)
	addBuilding(gs, 7, 4, model.Attack)
	addMissile(gs, 5, 4, model.PlayerB)
	got, err := a.DecideTurn(gs)
	if err != nil {
		t.Fatalf("DecideTurn: %v", err)
	}
	if got != "1,4,1" {
		t.Errorf("DecideTurn = %q, want 1,4,1", got)
	}
}

func TestDecideUnderFireReinforcesFrontLine(t *testing.T) {
	a := newTestAgent(t, 1)

	gs := baseGameState(8, 6, 100, 10)
	addBuilding(gs, 1, 2, model.Defense)
	addBuilding(gs, 7, 4, model.Attack)
	addMissile(gs, 5, 4, model.PlayerB)
	d, err := a.Decide(gs)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if d.Phase != rules.Defend || d.Command.String() != "2,2,1" {
		t.Errorf("Decide = %s %q, want defend 2,2,1", d.Phase, d.Command)
	}
}

func TestDecideSave(t *testing.T) {
	a := newTestAgent(t, 3)

	gs := baseGameState(8, 6, 100, 10)
	for y := range 3 {
		addBuilding(gs, 1, y, model.Defense)
	}
	d, err := a.Decide(gs)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if d.Phase != rules.Save || d.Command.X != 0 || d.Command.Type != model.Energy {
		t.Errorf("Decide = %s %q, want save at column 0", d.Phase, d.Command)
	}
}

func TestDecideDefendFallsBackToAttack(t *testing.T) {
	a := newTestAgent(t, 1)

	// Both defensive columns are full; only column 3 is open.
	gs := baseGameState(8, 2, 100, 10)
	addBuilding(gs, 7, 0, model.Attack)
	addMissile(gs, 5, 0, model.PlayerB)
	for y := range 2 {
		addBuilding(gs, 0, y, model.Energy)
		addBuilding(gs, 1, y, model.Defense)
		addBuilding(gs, 2, y, model.Defense)
	}

	d, err := a.Decide(gs)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if d.Phase != rules.Defend || d.Placed != rules.Attack {
		t.Errorf("phase/placed = %s/%s, want defend/attack", d.Phase, d.Placed)
	}
	if d.Command.X != 3 || d.Command.Type != model.Attack {
		t.Errorf("command = %q, want an attack in column 3", d.Command)
	}
}

func TestDecideSaturatedIsNoOp(t *testing.T) {
	a := newTestAgent(t, 1)

	gs := baseGameState(4, 2, 100, 10)
	addBuilding(gs, 3, 0, model.Attack)
	for y := range 2 {
		addBuilding(gs, 0, y, model.Energy)
		addBuilding(gs, 1, y, model.Defense)
	}

	d, err := a.Decide(gs)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if !d.Command.IsNoOp() || d.Placed != rules.Nop {
		t.Errorf("Decide = %s %q, want no-op", d.Placed, d.Command)
	}
}

func TestDecideMissingPlayer(t *testing.T) {
	a := newTestAgent(t, 1)
	gs := baseGameState(8, 6, 100, 10)
	gs.Players = nil
	if _, err := a.DecideTurn(gs); !errors.Is(err, model.ErrPlayerNotFound) {
		t.Errorf("DecideTurn without players: err = %v, want ErrPlayerNotFound", err)
	}
}

func TestDecideNeverPlacesOnOwnBuilding(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	a := newTestAgent(t, 99)

	for range 200 {
		gs := baseGameState(8, 6, 100, 10)
		if rng.Intn(2) == 0 {
			addBuilding(gs, 6, rng.Intn(6), model.Attack)
		}
		for x := range 4 {
			for y := range 6 {
				if rng.Intn(4) == 0 {
					addBuilding(gs, x, y, model.BuildingTypes[rng.Intn(3)])
				}
			}
		}
		d, err := a.Decide(gs)
		if err != nil {
			t.Fatalf("Decide: %v", err)
		}
		if d.Command.IsNoOp() {
			continue
		}
		if rules.NewSide(gs, model.PlayerA).Occupied(d.Command.X, d.Command.Y) {
			t.Fatalf("%s placed %q on an occupied cell", d.Placed, d.Command)
		}
	}
}

func TestSameSeedSameCommands(t *testing.T) {
	a, b := newTestAgent(t, 2024), newTestAgent(t, 2024)
	for i := range 20 {
		gs := baseGameState(16, 8, 100, 10)
		got, _ := a.DecideTurn(gs)
		want, _ := b.DecideTurn(gs)
		if got != want {
			t.Fatalf("turn %d: %q != %q with the same seed", i, got, want)
		}
	}
}

func TestHandleGameState(t *testing.T) {
	a := newTestAgent(t, 1)

	gs := baseGameState(8, 6, 100, 10)
	gs.GameDetails.Round = 12
	env, err := ipc.NewEnvelope(ipc.TypeGameState, gs)
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}

	reply, err := a.HandleGameState(env)
	if err != nil {
		t.Fatalf("HandleGameState: %v", err)
	}
	if reply == nil || reply.Type != ipc.TypeCommand {
		t.Fatalf("reply = %+v, want a command envelope", reply)
	}
	var msg ipc.CommandMessage
	if err := json.Unmarshal(reply.Data, &msg); err != nil {
		t.Fatalf("unmarshal reply: %v", err)
	}
	if msg.Round != 12 || msg.Phase != "attack" || msg.Rule != "opening-strike" {
		t.Errorf("reply = %+v", msg)
	}
	if !regexp.MustCompile(`^[0-3],[0-5],0$`).MatchString(msg.Command) {
		t.Errorf("reply command = %q", msg.Command)
	}
}

func TestHandleGameStateUndecidable(t *testing.T) {
	noA := baseGameState(8, 6, 100, 10)
	noA.GameDetails.Round = 7
	noA.Players = noA.Players[1:]
	missing, err := ipc.NewEnvelope(ipc.TypeGameState, noA)
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}

	tests := []struct {
		name      string
		env       ipc.Envelope
		wantRound int
	}{
		{"malformed payload", ipc.Envelope{Type: ipc.TypeGameState, Data: json.RawMessage(`[1,2]`)}, 0},
		{"acting player missing", missing, 7},
	}

	for _, tc := range tests {
		a := newTestAgent(t, 1)
		reply, err := a.HandleGameState(tc.env)
		if err != nil {
			t.Errorf("%s: HandleGameState: %v", tc.name, err)
			continue
		}
		if reply == nil || reply.Type != ipc.TypeCommand {
			t.Errorf("%s: reply = %+v, want a command envelope", tc.name, reply)
			continue
		}
		var msg ipc.CommandMessage
		if err := json.Unmarshal(reply.Data, &msg); err != nil {
			t.Fatalf("%s: unmarshal reply: %v", tc.name, err)
		}
		if msg.Command != "" || msg.Phase != "nop" {
			t.Errorf("%s: reply = %+v, want the no-op command", tc.name, msg)
		}
		if msg.Round != tc.wantRound {
			t.Errorf("%s: reply round = %d, want %d", tc.name, msg.Round, tc.wantRound)
		}
		if msg.Error == "" {
			t.Errorf("%s: reply carries no error", tc.name)
		}
	}
}

func TestHandleHello(t *testing.T) {
	a := newTestAgent(t, 1)
	env, _ := ipc.NewEnvelope(ipc.TypeHello, ipc.HelloMessage{Player: "A", Bot: "runner"})

	reply, err := a.HandleHello(env)
	if err != nil {
		t.Fatalf("HandleHello: %v", err)
	}
	if reply.Type != ipc.TypeAck {
		t.Errorf("reply type = %q, want ack", reply.Type)
	}
	if a.Player != "A" {
		t.Errorf("Player = %q, want A", a.Player)
	}
}
