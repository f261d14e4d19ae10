// Package room implements the single-writer event loop that owns the
// authoritative Table (spec §4.5, §5): a Room serializes GameEvents,
// invokes the pure engine transitions, publishes state updates, and
// schedules the system events (auto-start, next-round, auto-restart) that
// spec §4.5 says the Room itself must produce. Grounded in the teacher's
// internal/game/engine.go (PlayHand driving the table via an event bus) and
// internal/testing/test_infrastructure.go's quartz.Clock injection for
// deterministic scheduling tests.
package room

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem-engine/config"
	"github.com/lox/holdem-engine/engine"
	"github.com/lox/holdem-engine/poker"
	"github.com/lox/holdem-engine/scenario"
)

// Room owns one table's authoritative state.
type Room struct {
	mu     sync.RWMutex
	table  *engine.Table
	logger *log.Logger
	clock  quartz.Clock
	cfg    config.RoomConfig

	startDelay       time.Duration
	roundOverDelay   time.Duration
	autoRestartDelay time.Duration

	events chan GameEvent
	done   chan struct{}

	subMu       sync.Mutex
	subscribers map[int]chan *engine.Table
	nextSubID   int

	pendingMu sync.Mutex
	pending   *quartz.Timer
}

// New builds a Room in the Waiting state for the given config and deck
// source, logging through logger (never a package-level global, per the
// teacher's injected-logger convention) and scheduling through clock
// (quartz.NewReal() in production, quartz.NewMock(t) in tests). A nil ds
// is derived from cfg's deterministic_mode/scenario_id (spec §6.2): callers
// that want an explicit deck source (tests, the deterministic harness) pass
// one directly and bypass that derivation.
func New(cfg config.RoomConfig, ds poker.DeckSource, logger *log.Logger, clock quartz.Clock) (*Room, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ds == nil {
		var err error
		ds, err = deckSourceFromConfig(cfg)
		if err != nil {
			return nil, err
		}
	}
	start, roundOver, autoRestart, err := cfg.Durations()
	if err != nil {
		return nil, err
	}
	return &Room{
		table:            engine.NewTable(cfg.ToEngineConfig(), ds),
		logger:           logger.With("component", "room"),
		clock:            clock,
		cfg:              cfg,
		startDelay:       start,
		roundOverDelay:   roundOver,
		autoRestartDelay: autoRestart,
		events:           make(chan GameEvent, 64),
		done:             make(chan struct{}),
		subscribers:      make(map[int]chan *engine.Table),
	}, nil
}

// deckSourceFromConfig selects the deck source spec §6.2's deterministic_mode
// and scenario_id describe: a named Scenario when deterministic_mode is set,
// otherwise a freshly seeded random shuffle per hand.
func deckSourceFromConfig(cfg config.RoomConfig) (poker.DeckSource, error) {
	if !cfg.DeterministicMode {
		return poker.RandomSource{Rng: rand.New(rand.NewSource(time.Now().UnixNano()))}, nil
	}
	sc, ok := scenario.ByID(cfg.ScenarioID)
	if !ok {
		return nil, fmt.Errorf("room: unknown scenario_id %q", cfg.ScenarioID)
	}
	return sc, nil
}

// Run drives the event loop until ctx is cancelled. It is the Room's only
// suspension point besides timers and publishing (spec §5).
func (r *Room) Run(ctx context.Context) {
	defer close(r.done)
	for {
		select {
		case ev := <-r.events:
			r.handle(ev)
		case <-ctx.Done():
			r.cancelPending()
			return
		}
	}
}

// Submit enqueues an event for processing. It never blocks the caller on
// transition execution; ordering is preserved by the channel.
func (r *Room) Submit(ev GameEvent) {
	select {
	case r.events <- ev:
	case <-r.done:
	}
}

// StartGame requests the initial hand, honoring start_delay (spec §4.5).
func (r *Room) StartGame() {
	if r.startDelay <= 0 {
		r.Submit(Start())
		return
	}
	r.clock.AfterFunc(r.startDelay, func() { r.Submit(Start()) })
}

// CurrentState returns the current authoritative table. Callers must treat
// it as read-only; Clone before mutating.
func (r *Room) CurrentState() *engine.Table {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.table
}

// PlayerView projects the current state for seatID (spec §6.1).
func (r *Room) PlayerView(seatID engine.SeatID) engine.PlayerView {
	return engine.BuildPlayerView(r.CurrentState(), seatID)
}

// Subscribe registers a new state-update listener. The returned channel is
// closed, and the subscription dropped, if the subscriber falls behind
// (spec §5: "back-pressure manifests as dropped subscribers").
func (r *Room) Subscribe() <-chan *engine.Table {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	ch := make(chan *engine.Table, 8)
	id := r.nextSubID
	r.nextSubID++
	r.subscribers[id] = ch
	return ch
}

func (r *Room) setTable(t *engine.Table) {
	r.mu.Lock()
	r.table = t
	r.mu.Unlock()
}

// handle applies the dispatch rules of spec §4.5, runs the matching
// transition, and on success publishes the new state and reschedules
// system events.
func (r *Room) handle(ev GameEvent) {
	r.cancelPending()

	t := r.CurrentState()
	next, err := r.apply(t, ev)
	if err != nil {
		if terr, ok := err.(*engine.TransitionError); ok && terr.Kind == engine.ErrInconsistentState {
			r.logger.Error("inconsistent state", "error", err, "event", ev.Kind)
		} else {
			r.logger.Debug("event rejected", "error", err, "event", ev.Kind)
		}
		r.scheduleSystemEvents(t)
		return
	}

	r.setTable(next)
	r.broadcast(next)
	r.scheduleSystemEvents(next)
}

func (r *Room) apply(t *engine.Table, ev GameEvent) (*engine.Table, error) {
	switch ev.Kind {
	case EventJoin:
		return engine.AddSeat(t, ev.SeatID, ev.Name)
	case EventLeave:
		return engine.RemoveSeat(t, ev.SeatID)
	case EventMove:
		seat, idx, ok := t.SeatByID(ev.SeatID)
		_ = seat
		if !ok || t.ActorIdx != idx {
			return nil, &engine.TransitionError{Kind: engine.ErrNotYourTurn, Msg: "seat is not the current actor"}
		}
		return engine.ProcessMove(t, ev.SeatID, ev.Move)
	case EventStart:
		if t.Status != engine.Waiting {
			return nil, &engine.TransitionError{Kind: engine.ErrTableLocked, Msg: "start requires status=waiting"}
		}
		if len(t.Seats) < r.cfg.MinPlayers {
			return nil, &engine.TransitionError{Kind: engine.ErrInsufficientPlayers, Msg: "below min_players"}
		}
		return engine.StartRound(t)
	case EventTransitionPhase:
		return engine.NextPhase(t)
	case EventNextRound:
		return engine.NextRound(t)
	case EventEndGame:
		return engine.EndGame(t)
	case EventAutoRestart:
		return engine.AutoRestart(t)
	default:
		return nil, &engine.TransitionError{Kind: engine.ErrInconsistentState, Msg: "unknown event kind"}
	}
}

// scheduleSystemEvents implements spec §4.5's system-event scheduling,
// inspecting the (possibly unchanged) state after every processed event.
func (r *Room) scheduleSystemEvents(t *engine.Table) {
	switch t.Status {
	case engine.Waiting:
		if r.cfg.AutoStartEnabled && len(t.Seats) >= r.cfg.MinPlayers {
			r.scheduleAfter(r.startDelay, Start())
		}
	case engine.RoundOver:
		r.scheduleAfter(r.roundOverDelay, NextRound())
	case engine.GameOver:
		if r.cfg.AutoRestartEnabled {
			r.scheduleAfter(r.autoRestartDelay, AutoRestart())
		}
	}
}

func (r *Room) scheduleAfter(d time.Duration, ev GameEvent) {
	r.pendingMu.Lock()
	defer r.pendingMu.Unlock()
	if d <= 0 {
		r.Submit(ev)
		return
	}
	r.pending = r.clock.AfterFunc(d, func() { r.Submit(ev) })
}

// cancelPending stops any scheduled system event still in flight; any new
// event arriving supersedes prior scheduling decisions (spec §5).
func (r *Room) cancelPending() {
	r.pendingMu.Lock()
	defer r.pendingMu.Unlock()
	if r.pending != nil {
		r.pending.Stop()
		r.pending = nil
	}
}
