package engine

import (
	"sort"

	"github.com/lox/holdem-engine/poker"
)

type potLevel struct {
	amount   int
	eligible []int // seat roster indices
}

// computeSidePots implements spec §4.4: distinct ascending levels of
// round_volume across all seats define pot boundaries, and each level's pot
// is eligible to seats that contributed at least that level and are not
// Folded or Eliminated.
func computeSidePots(t *Table) []potLevel {
	levelSet := map[int]bool{}
	for _, s := range t.Seats {
		if s.Bet.RoundVolume > 0 {
			levelSet[s.Bet.RoundVolume] = true
		}
	}
	levels := make([]int, 0, len(levelSet))
	for l := range levelSet {
		levels = append(levels, l)
	}
	sort.Ints(levels)

	var pots []potLevel
	prev := 0
	for _, level := range levels {
		contributors := 0
		var eligible []int
		for i, s := range t.Seats {
			if s.Bet.RoundVolume >= level {
				contributors++
				if s.Status != Folded && s.Status != Eliminated {
					eligible = append(eligible, i)
				}
			}
		}
		amount := (level - prev) * contributors
		if amount > 0 {
			pots = append(pots, potLevel{amount: amount, eligible: eligible})
		}
		prev = level
	}
	return pots
}

// winnersOf returns the roster indices among eligible with the strongest
// hand, per spec §4.1's comparator; ties return every seat in the top
// group. If the board has fewer than 5 cards (a fold-only ending before
// River), every eligible seat splits per spec §4.4.
func winnersOf(t *Table, eligible []int) []int {
	if len(t.Community) < 5 {
		return eligible
	}
	var board [5]poker.Card
	copy(board[:], t.Community)

	var best poker.HandRank
	var winners []int
	for _, idx := range eligible {
		s := t.Seats[idx]
		var seven [7]poker.Card
		seven[0], seven[1] = s.Hole[0], s.Hole[1]
		copy(seven[2:], board[:])
		rank := poker.EvaluateBest7(seven)
		if len(winners) == 0 || poker.CompareHands(rank, best) > 0 {
			best = rank
			winners = []int{idx}
		} else if poker.CompareHands(rank, best) == 0 {
			winners = append(winners, idx)
		}
	}
	return winners
}

// clockwiseOrder orders seat indices by clockwise distance from the seat
// immediately left of the dealer, per spec §4.4's odd-chip rule (the seat
// left of the dealer starts, not the dealer).
func clockwiseOrder(t *Table, indices []int) []int {
	n := len(t.Seats)
	start := (t.DealerIdx + 1) % n
	distance := func(idx int) int {
		return ((idx - start) % n + n) % n
	}
	out := append([]int(nil), indices...)
	sort.Slice(out, func(i, j int) bool { return distance(out[i]) < distance(out[j]) })
	return out
}

// FinalizeRound implements spec §4.4: pot distribution and the post-finalize
// seat/table updates.
func FinalizeRound(t *Table) (*Table, error) {
	nt := t.Clone()
	pots := computeSidePots(nt)

	winnings := make(map[int]int, len(nt.Seats))
	var allWinners []int
	distributed := 0
	for _, pot := range pots {
		winners := winnersOf(nt, pot.eligible)
		if len(winners) == 0 {
			continue
		}
		share := pot.amount / len(winners)
		remainder := pot.amount % len(winners)
		ordered := clockwiseOrder(nt, winners)
		for _, idx := range winners {
			winnings[idx] += share
			distributed += share
		}
		for i := 0; i < remainder; i++ {
			winnings[ordered[i]]++
			distributed++
		}
		allWinners = append(allWinners, winners...)
	}

	if distributed != nt.Round.RoundVolume {
		return nil, newErr(ErrInconsistentState, "pot distribution %d does not match round_volume %d", distributed, nt.Round.RoundVolume)
	}

	for idx, amount := range winnings {
		nt.Seats[idx].Chips += amount
	}
	for i := range nt.Seats {
		nt.Seats[i].Bet = Bet{}
	}
	if err := ValidateChipConservation(nt); err != nil {
		return nil, err
	}
	for i := range nt.Seats {
		if nt.Seats[i].Status != Eliminated {
			if nt.Seats[i].Chips > 0 {
				nt.Seats[i].Status = Playing
			} else {
				nt.Seats[i].Status = Eliminated
			}
		}
	}

	chipsRemaining := 0
	for _, s := range nt.Seats {
		if s.Status != Eliminated && s.Chips > 0 {
			chipsRemaining++
		}
	}
	if chipsRemaining <= 1 {
		nt.Status = GameOver
	} else {
		nt.Status = RoundOver
	}

	winnerIDs := make([]SeatID, 0, len(uniqueInts(allWinners)))
	for _, idx := range uniqueInts(allWinners) {
		winnerIDs = append(winnerIDs, nt.Seats[idx].ID)
	}
	nt.LastResult = &RoundResult{
		RoundNumber: nt.Round.Number,
		WinnerIDs:   winnerIDs,
		Pot:         distributed,
		Actions:     nt.Round.Actions,
	}
	nt.ActorIdx = noActor
	nt.handStartChips = nil
	return nt, nil
}

func uniqueInts(xs []int) []int {
	seen := map[int]bool{}
	var out []int
	for _, x := range xs {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	return out
}
