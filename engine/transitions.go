package engine

import "github.com/lox/holdem-engine/poker"

// applyBet applies delta additional chips from seat into the pot, capping
// at the seat's remaining chips (spec §4.2's shared bet-mechanics helper).
// It returns the actual amount moved and sets Status to AllIn on exhaustion.
func applyBet(s *Seat, round *Round, phase *Phase, delta int) int {
	actual := delta
	if actual > s.Chips {
		actual = s.Chips
	}
	s.Bet.StreetAmount += actual
	s.Bet.RoundVolume += actual
	s.Chips -= actual
	round.RoundVolume += actual
	phase.StreetVolume += actual
	if s.Bet.StreetAmount > round.CurrentBet {
		round.CurrentBet = s.Bet.StreetAmount
	}
	if s.Chips == 0 {
		s.Status = AllIn
	}
	return actual
}

// AddSeat implements spec §4.2 add_seat.
func AddSeat(t *Table, id SeatID, name string) (*Table, error) {
	if t.Status != Waiting && t.Status != RoundOver {
		return nil, newErr(ErrTableLocked, "cannot add seat %s while status=%s", id, t.Status)
	}
	if _, _, ok := t.SeatByID(id); ok {
		return t, nil // join for an already-seated id is a no-op (spec §4.5)
	}
	nt := t.Clone()
	nt.Seats = append(nt.Seats, Seat{
		ID:     id,
		Name:   name,
		Chips:  nt.Config.StartingChips,
		Status: Playing,
	})
	return nt, nil
}

// RemoveSeat implements spec §4.2 remove_seat.
func RemoveSeat(t *Table, id SeatID) (*Table, error) {
	if t.Status != Waiting && t.Status != RoundOver {
		return nil, newErr(ErrTableLocked, "cannot remove seat %s while status=%s", id, t.Status)
	}
	_, idx, ok := t.SeatByID(id)
	if !ok {
		return t, nil
	}
	nt := t.Clone()
	nt.Seats = append(nt.Seats[:idx], nt.Seats[idx+1:]...)
	if nt.ActorIdx == idx {
		nt.ActorIdx = noActor
	} else if nt.ActorIdx > idx {
		nt.ActorIdx--
	}
	if nt.DealerIdx > idx {
		nt.DealerIdx--
	} else if nt.DealerIdx == idx {
		nt.DealerIdx = 0
	}
	return nt, nil
}

// StartRound implements spec §4.2 start_round.
func StartRound(t *Table) (*Table, error) {
	chipBearing := 0
	for _, s := range t.Seats {
		if s.Status != Eliminated && s.Chips > 0 {
			chipBearing++
		}
	}
	if chipBearing < 2 {
		return nil, newErr(ErrInsufficientPlayers, "need >=2 chips-bearing seats, have %d", chipBearing)
	}

	nt := t.Clone()
	nt.Status = PlayingHand
	nt.Round = Round{Number: nt.Round.Number + 1}
	nt.Phase = Phase{Street: PreFlop}
	nt.Community = nil
	nt.LastResult = nil

	if nt.Round.Number > 1 {
		nt.DealerIdx = nextDealer(nt, nt.DealerIdx)
	}

	for i := range nt.Seats {
		nt.Seats[i].Hole = [2]poker.Card{}
		nt.Seats[i].HasHole = false
		nt.Seats[i].ActedThisStreet = false
		nt.Seats[i].Bet = Bet{}
		nt.Seats[i].Position = NoPosition
		if nt.Seats[i].Status != Eliminated && nt.Seats[i].Chips > 0 {
			nt.Seats[i].Status = Playing
		}
	}

	active := nt.ActiveSeats()
	positions := assignPositions(nt.DealerIdx, active)
	for idx, pos := range positions {
		nt.Seats[idx].Position = pos
	}

	nt.handStartChips = make(map[SeatID]int, len(nt.Seats))
	dealable := make([]int, 0, len(active))
	for _, idx := range active {
		nt.handStartChips[nt.Seats[idx].ID] = nt.Seats[idx].Chips + nt.Seats[idx].Bet.RoundVolume
		if nt.Seats[idx].Chips > 0 {
			dealable = append(dealable, idx)
		}
	}

	// Dealing order matches the deterministic scenario deck layout exactly:
	// seat 0's two cards, then seat 1's two cards, and so on (spec §4.1).
	nt.Deck = nt.DeckSource.NewDeck(len(dealable))
	for _, idx := range dealable {
		cards, ok := nt.Deck.Deal(2)
		if !ok {
			return nil, newErr(ErrInconsistentState, "deck exhausted dealing hole cards")
		}
		nt.Seats[idx].Hole[0] = cards[0]
		nt.Seats[idx].Hole[1] = cards[1]
		nt.Seats[idx].HasHole = true
	}

	sbIdx := findSeatByPosition(nt, SmallBlind)
	bbIdx := findSeatByPosition(nt, BigBlind)
	if sbIdx >= 0 {
		applyBet(&nt.Seats[sbIdx], &nt.Round, &nt.Phase, nt.Config.SmallBlind)
	}
	if bbIdx >= 0 {
		applyBet(&nt.Seats[bbIdx], &nt.Round, &nt.Phase, nt.Config.BigBlind)
	}

	nt.ActorIdx = firstToAct(nt, PreFlop)
	return nt, nil
}

// ProcessMove implements spec §4.2 process_move and §4.2's move semantics
// table, then runs the transition oracle.
func ProcessMove(t *Table, seatID SeatID, move Move) (*Table, error) {
	seat, idx, ok := t.SeatByID(seatID)
	if !ok {
		return nil, newErr(ErrNotYourTurn, "unknown seat %s", seatID)
	}
	if t.ActorIdx != idx {
		return nil, newErr(ErrNotYourTurn, "seat %s is not the current actor", seatID)
	}
	if seat.Status != Playing {
		return nil, newErr(ErrInvalidMove, "seat %s has status %s, cannot act", seatID, seat.Status)
	}

	nt := t.Clone()
	s := &nt.Seats[idx]

	switch move.Kind {
	case Fold:
		s.Status = Folded
	case Check:
		if s.Bet.StreetAmount != nt.Round.CurrentBet {
			return nil, newErr(ErrInvalidMove, "seat %s cannot check while owing chips", seatID)
		}
	case Call:
		owed := nt.Round.CurrentBet - s.Bet.StreetAmount
		if owed < 0 {
			owed = 0
		}
		if owed > 0 {
			applyBet(s, &nt.Round, &nt.Phase, owed)
		}
	case Raise:
		if move.Amount <= 0 || s.Bet.StreetAmount+move.Amount <= nt.Round.CurrentBet {
			return nil, newErr(ErrInvalidMove, "raise by %d does not exceed current bet", move.Amount)
		}
		prevBet := nt.Round.CurrentBet
		applyBet(s, &nt.Round, &nt.Phase, move.Amount)
		if s.Bet.StreetAmount > prevBet {
			resetOthersActed(nt, idx)
		}
	case AllInMove:
		if s.Chips <= 0 {
			return nil, newErr(ErrInvalidMove, "seat %s has no chips to push all-in", seatID)
		}
		prevBet := nt.Round.CurrentBet
		applyBet(s, &nt.Round, &nt.Phase, s.Chips)
		if s.Bet.StreetAmount > prevBet {
			resetOthersActed(nt, idx)
		}
	default:
		return nil, newErr(ErrInvalidMove, "unknown move kind")
	}

	nt.Phase.ActionCount++
	if s.Status == Playing {
		s.ActedThisStreet = true
	}
	nt.Round.Actions = append(nt.Round.Actions, RecordedAction{
		Seat: seatID, Street: nt.Phase.Street, Move: move.Kind, Amount: move.Amount, PotAfter: nt.Round.RoundVolume,
	})

	if err := validateBetConsistency(nt); err != nil {
		return nil, err
	}

	return runOracle(nt)
}

func resetOthersActed(t *Table, exceptIdx int) {
	for i := range t.Seats {
		if i != exceptIdx && t.Seats[i].Status == Playing {
			t.Seats[i].ActedThisStreet = false
		}
	}
}

// NextPhase implements spec §4.2 next_phase.
func NextPhase(t *Table) (*Table, error) {
	nt := t.Clone()
	var n int
	switch nt.Phase.Street {
	case PreFlop:
		n = 3
		nt.Phase.Street = Flop
	case Flop:
		n = 1
		nt.Phase.Street = Turn
	case Turn:
		n = 1
		nt.Phase.Street = River
	default:
		return nil, newErr(ErrInconsistentState, "next_phase called from street %s", nt.Phase.Street)
	}
	cards, ok := nt.Deck.Deal(n)
	if !ok {
		return nil, newErr(ErrInconsistentState, "deck exhausted dealing community cards")
	}
	nt.Community = append(nt.Community, cards...)
	nt.Round.CurrentBet = 0
	nt.Phase.StreetVolume = 0
	for i := range nt.Seats {
		nt.Seats[i].Bet.StreetAmount = 0
		nt.Seats[i].ActedThisStreet = false
	}
	nt.ActorIdx = firstToAct(nt, nt.Phase.Street)
	return nt, nil
}

// NextRound implements spec §4.2 next_round.
func NextRound(t *Table) (*Table, error) {
	if t.Status != RoundOver {
		return nil, newErr(ErrInconsistentState, "next_round called with status=%s", t.Status)
	}
	remaining := 0
	for _, s := range t.Seats {
		if s.Status != Eliminated {
			remaining++
		}
	}
	atRoundCap := t.Config.MaxRounds > 0 && t.Round.Number >= t.Config.MaxRounds
	if remaining < 2 || atRoundCap {
		nt := t.Clone()
		nt.Status = GameOver
		return nt, nil
	}
	return StartRound(t)
}

// EndGame implements spec §4.2 end_game.
func EndGame(t *Table) (*Table, error) {
	nt := t.Clone()
	nt.Status = GameOver
	return nt, nil
}

// AutoRestart resets chips/status for all seats (preserving identities and
// roster order; per-hand fields, Position included, are cleared) and returns
// the table to Waiting (spec §4.5's auto_restart handler).
func AutoRestart(t *Table) (*Table, error) {
	nt := t.Clone()
	nt.Status = Waiting
	nt.Round = Round{}
	nt.Phase = Phase{}
	nt.Community = nil
	nt.LastResult = nil
	nt.DealerIdx = 0
	nt.ActorIdx = noActor
	for i := range nt.Seats {
		nt.Seats[i].Chips = nt.Config.StartingChips
		nt.Seats[i].Status = Playing
		nt.Seats[i].Position = NoPosition
		nt.Seats[i].Bet = Bet{}
		nt.Seats[i].Hole = [2]poker.Card{}
		nt.Seats[i].HasHole = false
		nt.Seats[i].ActedThisStreet = false
	}
	return nt, nil
}
