package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/nstehr/bastion/ipc"
	"github.com/nstehr/bastion/model"
	"github.com/nstehr/bastion/rules"
)

// Decision records how a turn's command was produced.
type Decision struct {
	Round   int
	Phase   rules.Phase // classified phase
	Rule    string      // rule that selected Phase
	Placed  rules.Phase // phase whose generator produced Command
	Command model.Command
}

// When a phase's generator finds no free cell, the turn is retried once with
// the fallback phase before giving up with a no-op.
var fallbacks = map[rules.Phase]rules.Phase{
	rules.Defend: rules.Attack,
}

// Agent owns the decision-making for a single player session.
type Agent struct {
	Player     string
	classifier *rules.Classifier

	mu  sync.Mutex // guards rng, which is not safe for concurrent use
	rng *rand.Rand
}

// New returns an agent that draws from rng for the whole match. rng should be
// explicitly seeded so runs can be replayed.
func New(classifier *rules.Classifier, rng *rand.Rand) *Agent {
	return &Agent{classifier: classifier, rng: rng}
}

// DecideTurn returns the command text for the snapshot, "" meaning no-op.
func (a *Agent) DecideTurn(gs model.GameState) (string, error) {
	d, err := a.Decide(gs)
	if err != nil {
		return "", err
	}
	return d.Command.String(), nil
}

// Decide classifies the turn and runs the matching generator. The only error
// is a malformed snapshot; running out of free cells degrades to a no-op.
func (a *Agent) Decide(gs model.GameState) (Decision, error) {
	env, err := rules.NewRuleEnv(gs)
	if err != nil {
		return Decision{}, fmt.Errorf("round %d: %w", gs.GameDetails.Round, err)
	}

	c := a.classifier.Classify(env)
	d := Decision{Round: gs.GameDetails.Round, Phase: c.Phase, Rule: c.Rule, Placed: c.Phase}

	a.mu.Lock()
	defer a.mu.Unlock()

	d.Command, err = rules.ActionFor(d.Placed)(env, a.rng)
	if errors.Is(err, rules.ErrNoAvailableCell) {
		if next, ok := fallbacks[d.Placed]; ok {
			slog.Warn("no free cell, falling back", "phase", d.Placed, "fallback", next)
			d.Placed = next
			d.Command, err = rules.ActionFor(next)(env, a.rng)
		}
	}
	if errors.Is(err, rules.ErrNoAvailableCell) {
		slog.Warn("no free cell, skipping turn", "phase", d.Placed)
		d.Placed = rules.Nop
		d.Command = model.NoOp
		err = nil
	}
	if err != nil {
		return Decision{}, fmt.Errorf("round %d: %s command: %w", d.Round, d.Placed, err)
	}

	slog.Info("turn decided",
		"round", d.Round,
		"energy", env.Energy(),
		"myBuildings", env.MyBuildingCount(),
		"enemyBuildings", env.EnemyBuildingCount(),
		"missiles", env.MissilesInFlight(),
		"phase", d.Phase,
		"rule", d.Rule,
		"command", d.Command.String(),
	)
	return d, nil
}

// HandleHello completes the handshake so the runner knows the agent is ready.
func (a *Agent) HandleHello(env ipc.Envelope) (*ipc.Envelope, error) {
	var hello ipc.HelloMessage
	if err := json.Unmarshal(env.Data, &hello); err != nil {
		return nil, fmt.Errorf("unmarshal hello: %w", err)
	}

	a.Player = hello.Player
	slog.Info("player identified", "player", a.Player, "bot", hello.Bot)

	ack, err := ipc.NewEnvelope(ipc.TypeAck, ipc.AckMessage{Status: "ok"})
	if err != nil {
		return nil, err
	}
	return &ack, nil
}

// HandleGameState answers each snapshot with the turn's command. A snapshot
// that cannot be decided still gets a reply: the no-op command, with the
// failure in Error, so the runner is never left waiting for this turn.
func (a *Agent) HandleGameState(env ipc.Envelope) (*ipc.Envelope, error) {
	msg, err := a.commandFor(env.Data)
	if err != nil {
		slog.Error("cannot decide turn, replying no-op", "error", err)
		msg.Command = model.NoOp.String()
		msg.Phase = rules.Nop.String()
		msg.Error = err.Error()
	}

	reply, err := ipc.NewEnvelope(ipc.TypeCommand, msg)
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

func (a *Agent) commandFor(data json.RawMessage) (ipc.CommandMessage, error) {
	var gs model.GameState
	if err := json.Unmarshal(data, &gs); err != nil {
		return ipc.CommandMessage{}, fmt.Errorf("unmarshal GameState: %w", err)
	}

	d, err := a.Decide(gs)
	if err != nil {
		return ipc.CommandMessage{Round: gs.GameDetails.Round}, err
	}
	return ipc.CommandMessage{
		Round:   d.Round,
		Command: d.Command.String(),
		Phase:   d.Phase.String(),
		Rule:    d.Rule,
	}, nil
}
