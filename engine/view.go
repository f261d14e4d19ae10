package engine

import "github.com/lox/holdem-engine/poker"

// OpponentView is another seat as seen by a given viewer (spec §6.1).
type OpponentView struct {
	ID     SeatID
	Status Status
	Chips  int
	Bet    Bet
	Hand   []poker.Card // nil unless revealed
}

// PlayerView is the per-seat projection of a Table handed to external
// observers (spec §6.1).
type PlayerView struct {
	ViewerID     SeatID
	OwnHole      []poker.Card
	Community    []poker.Card
	TableStatus  TableStatus
	DealerID     SeatID
	SmallBlindID SeatID
	BigBlindID   SeatID
	CurrentActor SeatID // empty if none
	Street       Street
	RoundNumber  int
	OwnChips     int
	OwnStatus    Status
	OwnBet       Bet
	OwnPosition  Position
	Opponents    []OpponentView

	// LastRoundActions is the prior hand's full move ledger (spec §11's
	// RecordedAction history), nil until the first hand finalizes.
	LastRoundActions []RecordedAction
}

// handsRevealed reports whether opponent hands should be shown, per spec
// §6.1: showdown at River with the table settled, or every non-folded seat
// being AllIn.
func handsRevealed(t *Table) bool {
	if t.Status == RoundOver && t.Phase.Street == River {
		return true
	}
	nonFolded := 0
	allInCount := 0
	for _, s := range t.Seats {
		if s.Status == Folded || s.Status == Eliminated {
			continue
		}
		nonFolded++
		if s.Status == AllIn {
			allInCount++
		}
	}
	return nonFolded > 0 && nonFolded == allInCount
}

// BuildPlayerView projects t from the perspective of seatID.
func BuildPlayerView(t *Table, seatID SeatID) PlayerView {
	reveal := handsRevealed(t)
	view := PlayerView{
		ViewerID:    seatID,
		Community:   append([]poker.Card(nil), t.Community...),
		TableStatus: t.Status,
		Street:      t.Phase.Street,
		RoundNumber: t.Round.Number,
	}
	if t.DealerIdx >= 0 && t.DealerIdx < len(t.Seats) {
		view.DealerID = t.Seats[t.DealerIdx].ID
	}
	if idx := findSeatByPosition(t, SmallBlind); idx >= 0 {
		view.SmallBlindID = t.Seats[idx].ID
	}
	if idx := findSeatByPosition(t, BigBlind); idx >= 0 {
		view.BigBlindID = t.Seats[idx].ID
	}
	if t.ActorIdx >= 0 && t.ActorIdx < len(t.Seats) {
		view.CurrentActor = t.Seats[t.ActorIdx].ID
	}
	if t.LastResult != nil {
		view.LastRoundActions = t.LastResult.Actions
	}

	for _, s := range t.Seats {
		if s.ID == seatID {
			view.OwnChips = s.Chips
			view.OwnStatus = s.Status
			view.OwnBet = s.Bet
			view.OwnPosition = s.Position
			if s.HasHole {
				view.OwnHole = []poker.Card{s.Hole[0], s.Hole[1]}
			}
			continue
		}
		opp := OpponentView{ID: s.ID, Status: s.Status, Chips: s.Chips, Bet: s.Bet}
		if s.HasHole && s.Status != Eliminated && reveal {
			opp.Hand = []poker.Card{s.Hole[0], s.Hole[1]}
		}
		view.Opponents = append(view.Opponents, opp)
	}
	return view
}
