package room_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-engine/config"
	"github.com/lox/holdem-engine/engine"
	"github.com/lox/holdem-engine/room"
	"github.com/lox/holdem-engine/scenario"
)

func newTestRoom(t *testing.T, clock quartz.Clock) *room.Room {
	t.Helper()
	cfg := config.DefaultRoomConfig()
	cfg.MinPlayers = 2
	cfg.StartDelay = "0s"
	cfg.RoundOverDelay = "100ms"
	cfg.AutoRestartEnabled = false

	logger := log.New(io.Discard)
	r, err := room.New(cfg, scenario.Player1Wins, logger, clock)
	require.NoError(t, err)
	return r
}

func TestRoomAutoStartsOnMinPlayers(t *testing.T) {
	clock := quartz.NewMock(t)
	r := newTestRoom(t, clock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	r.Submit(room.Join("A", "Alice"))
	r.Submit(room.Join("B", "Bob"))

	require.Eventually(t, func() bool {
		return r.CurrentState().Status.String() == "playing"
	}, time.Second, 5*time.Millisecond)

	require.Equal(t, "A", string(r.PlayerView("A").ViewerID))
}

func TestRoomSchedulesNextRoundAfterRoundOverDelay(t *testing.T) {
	clock := quartz.NewMock(t)
	r := newTestRoom(t, clock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	r.Submit(room.Join("A", "Alice"))
	r.Submit(room.Join("B", "Bob"))

	require.Eventually(t, func() bool {
		return r.CurrentState().Status.String() == "playing"
	}, time.Second, 5*time.Millisecond)

	actor := r.CurrentState().Seats[r.CurrentState().ActorIdx].ID
	r.Submit(room.PlayerMove(actor, engine.Move{Kind: engine.Fold}))

	require.Eventually(t, func() bool {
		return r.CurrentState().Status.String() == "round_over"
	}, time.Second, 5*time.Millisecond)

	clock.Advance(100 * time.Millisecond).MustWait(ctx)

	require.Eventually(t, func() bool {
		return r.CurrentState().Round.Number == 2
	}, time.Second, 5*time.Millisecond)
}
