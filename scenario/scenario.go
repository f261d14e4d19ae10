// Package scenario implements the deterministic testing harness (spec §2,
// §9): named decks that fix every seat's hole cards and the board, so
// showdown outcomes are reproducible across runs. Grounded in the teacher's
// RandSource/seeded-deck injection seam (internal/game/table.go), extended
// here with a named-scenario variant since the teacher itself has no direct
// equivalent (SPEC_FULL §11).
package scenario

import (
	"fmt"

	"github.com/lox/holdem-engine/poker"
)

// Scenario fixes the hole cards (in per-seat dealing order) and the board
// for one deterministic hand.
type Scenario struct {
	Name  string
	Hole  [][2]poker.Card
	Board [5]poker.Card
}

// NewDeck implements poker.DeckSource. It places hole cards for the first
// numSeats entries of Hole at the head, the scenario's five community cards
// immediately after (so they are next off the head as Flop/Turn/River are
// dealt, per spec §9's fixed head orientation), and the unused complement
// of the 52-card set as trailing padding in a fixed, deterministic order.
func (s Scenario) NewDeck(numSeats int) *poker.Deck {
	if numSeats > len(s.Hole) {
		panic(fmt.Sprintf("scenario %q: only %d hole-card pairs defined, need %d", s.Name, len(s.Hole), numSeats))
	}
	used := make(map[poker.Card]bool, 52)
	ordered := make([]poker.Card, 0, 52)

	for i := 0; i < numSeats; i++ {
		for _, c := range s.Hole[i] {
			ordered = append(ordered, c)
			used[c] = true
		}
	}
	for _, c := range s.Board {
		ordered = append(ordered, c)
		used[c] = true
	}
	for suit := poker.Clubs; suit <= poker.Spades; suit++ {
		for rank := poker.Ace; rank <= poker.King; rank++ {
			c := poker.NewCard(rank, suit)
			if !used[c] {
				ordered = append(ordered, c)
			}
		}
	}
	return poker.NewOrderedDeck(ordered)
}

func hole(a, b string) [2]poker.Card {
	return [2]poker.Card{poker.MustParseCard(a), poker.MustParseCard(b)}
}

func board(a, b, c, d, e string) [5]poker.Card {
	return [5]poker.Card{
		poker.MustParseCard(a), poker.MustParseCard(b), poker.MustParseCard(c),
		poker.MustParseCard(d), poker.MustParseCard(e),
	}
}

// Named scenarios matching spec §8's seed tests.
var (
	// Player1Wins: A holds pocket aces, B holds 7-9 offsuit; A's pair of
	// aces beats B's high card on a blank board.
	Player1Wins = Scenario{
		Name:  "PLAYER1_WINS",
		Hole:  [][2]poker.Card{hole("Ah", "As"), hole("7c", "9d")},
		Board: board("2h", "5c", "Ts", "3d", "8h"),
	}

	// Tie: both seats hold pocket eights on a blank board, splitting evenly.
	Tie = Scenario{
		Name:  "TIE",
		Hole:  [][2]poker.Card{hole("8h", "8s"), hole("8c", "8d")},
		Board: board("2h", "5c", "Ts", "3d", "7h"),
	}

	// SidePot: three seats with uneven stacks all contend to River; used to
	// exercise main-pot/side-pot partitioning (spec §8 scenario 4).
	SidePot = Scenario{
		Name: "SIDE_POT",
		Hole: [][2]poker.Card{
			hole("Kh", "Kd"),
			hole("Qc", "Qs"),
			hole("Jh", "Jd"),
		},
		Board: board("2h", "5c", "9s", "3d", "4h"),
	}
)

// ByID resolves a scenario_id from Config (spec §6.2) to its Scenario. ok is
// false for an unknown id.
func ByID(id string) (Scenario, bool) {
	switch id {
	case Player1Wins.Name:
		return Player1Wins, true
	case Tie.Name:
		return Tie, true
	case SidePot.Name:
		return SidePot, true
	default:
		return Scenario{}, false
	}
}
