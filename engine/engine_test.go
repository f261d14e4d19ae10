package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-engine/engine"
	"github.com/lox/holdem-engine/poker"
	"github.com/lox/holdem-engine/scenario"
)

func newHeadsUpTable(t *testing.T, startingChips int, ds poker.DeckSource) *engine.Table {
	t.Helper()
	cfg := engine.DefaultConfig()
	cfg.StartingChips = startingChips
	tbl := engine.NewTable(cfg, ds)
	var err error
	tbl, err = engine.AddSeat(tbl, "A", "Alice")
	require.NoError(t, err)
	tbl, err = engine.AddSeat(tbl, "B", "Bob")
	require.NoError(t, err)
	return tbl
}

func TestHeadsUpPreFlopFold(t *testing.T) {
	tbl := newHeadsUpTable(t, 1000, scenario.Player1Wins)
	tbl, err := engine.StartRound(tbl)
	require.NoError(t, err)

	require.Equal(t, 30, tbl.Round.RoundVolume)
	require.Equal(t, 990, tbl.Seats[0].Chips)
	require.Equal(t, 980, tbl.Seats[1].Chips)
	require.Equal(t, "A", string(tbl.Seats[tbl.ActorIdx].ID))

	tbl, err = engine.ProcessMove(tbl, "A", engine.Move{Kind: engine.Fold})
	require.NoError(t, err)

	require.Equal(t, engine.RoundOver, tbl.Status)
	require.Equal(t, 1010, tbl.Seats[1].Chips)
	require.Equal(t, 990, tbl.Seats[0].Chips)
	require.NotNil(t, tbl.LastResult)
	require.Equal(t, []engine.SeatID{"B"}, tbl.LastResult.WinnerIDs)
}

func TestHeadsUpAllInShowdown(t *testing.T) {
	tbl := newHeadsUpTable(t, 1000, scenario.Player1Wins)
	tbl, err := engine.StartRound(tbl)
	require.NoError(t, err)

	tbl, err = engine.ProcessMove(tbl, "A", engine.Move{Kind: engine.AllInMove})
	require.NoError(t, err)
	require.Equal(t, "B", string(tbl.Seats[tbl.ActorIdx].ID))

	tbl, err = engine.ProcessMove(tbl, "B", engine.Move{Kind: engine.AllInMove})
	require.NoError(t, err)

	require.Equal(t, engine.GameOver, tbl.Status)
	require.Equal(t, 2000, tbl.Seats[0].Chips)
	require.Equal(t, 0, tbl.Seats[1].Chips)
	require.Equal(t, engine.Eliminated, tbl.Seats[1].Status)
	require.Equal(t, []engine.SeatID{"A"}, tbl.LastResult.WinnerIDs)
}

func TestTieSplitsEvenly(t *testing.T) {
	tbl := newHeadsUpTable(t, 100, scenario.Tie)
	tbl, err := engine.StartRound(tbl)
	require.NoError(t, err)

	tbl, err = engine.ProcessMove(tbl, "A", engine.Move{Kind: engine.AllInMove})
	require.NoError(t, err)
	tbl, err = engine.ProcessMove(tbl, "B", engine.Move{Kind: engine.AllInMove})
	require.NoError(t, err)

	require.Equal(t, 100, tbl.Seats[0].Chips)
	require.Equal(t, 100, tbl.Seats[1].Chips)
	require.ElementsMatch(t, []engine.SeatID{"A", "B"}, tbl.LastResult.WinnerIDs)
}

func TestSidePotConstruction(t *testing.T) {
	board := scenario.SidePot.Board
	tbl := &engine.Table{
		Status: engine.PlayingHand,
		Seats: []engine.Seat{
			{ID: "S1", Chips: 50, Status: engine.Playing, Bet: engine.Bet{RoundVolume: 250}, Hole: scenario.SidePot.Hole[0], HasHole: true},
			{ID: "S2", Chips: 0, Status: engine.AllIn, Bet: engine.Bet{RoundVolume: 200}, Hole: scenario.SidePot.Hole[1], HasHole: true},
			{ID: "S3", Chips: 0, Status: engine.AllIn, Bet: engine.Bet{RoundVolume: 250}, Hole: scenario.SidePot.Hole[2], HasHole: true},
		},
		Community: board[:],
		Round:     engine.Round{Number: 1, RoundVolume: 700},
		DealerIdx: 0,
	}

	result, err := engine.FinalizeRound(tbl)
	require.NoError(t, err)
	require.Equal(t, 750, result.Seats[0].Chips) // main pot 600 + side pot 100, both won by S1's pair of kings
	require.Equal(t, 0, result.Seats[1].Chips)
	require.Equal(t, 0, result.Seats[2].Chips)
	require.Equal(t, 700, result.LastResult.Pot)
}

func TestEliminatedSeatStaysEliminated(t *testing.T) {
	cfg := engine.DefaultConfig()
	tbl := engine.NewTable(cfg, scenario.Player1Wins)
	var err error
	tbl, err = engine.AddSeat(tbl, "A", "Alice")
	require.NoError(t, err)
	tbl, err = engine.AddSeat(tbl, "B", "Bob")
	require.NoError(t, err)
	tbl, err = engine.AddSeat(tbl, "C", "Carol")
	require.NoError(t, err)

	nt := tbl.Clone()
	nt.Status = engine.RoundOver
	nt.Seats[2].Status = engine.Eliminated
	nt.Seats[2].Chips = 0

	nt, err = engine.NextRound(nt)
	require.NoError(t, err)

	require.Equal(t, engine.Eliminated, nt.Seats[2].Status)
	require.False(t, nt.Seats[2].HasHole)
	require.Equal(t, engine.NoPosition, nt.Seats[2].Position)
}

func TestRaiseReopensAction(t *testing.T) {
	tbl := &engine.Table{
		Status:   engine.PlayingHand,
		ActorIdx: 1,
		Seats: []engine.Seat{
			{ID: "A", Chips: 990, Status: engine.Playing, Position: engine.SmallBlind, Bet: engine.Bet{RoundVolume: 10}},
			{ID: "B", Chips: 980, Status: engine.Playing, Position: engine.BigBlind, Bet: engine.Bet{RoundVolume: 20}},
		},
		Round: engine.Round{Number: 1, RoundVolume: 30, CurrentBet: 0},
		Phase: engine.Phase{Street: engine.Flop},
	}

	tbl, err := engine.ProcessMove(tbl, "B", engine.Move{Kind: engine.Check})
	require.NoError(t, err)
	require.Equal(t, "A", string(tbl.Seats[tbl.ActorIdx].ID))

	tbl, err = engine.ProcessMove(tbl, "A", engine.Move{Kind: engine.Raise, Amount: 20})
	require.NoError(t, err)

	require.False(t, tbl.Seats[1].ActedThisStreet)
	require.Equal(t, "B", string(tbl.Seats[tbl.ActorIdx].ID))
}
