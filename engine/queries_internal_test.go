package engine

import "testing"

func TestAssignPositionsHeadsUp(t *testing.T) {
	positions := assignPositions(0, []int{0, 1})
	if positions[0] != SmallBlind {
		t.Fatalf("expected dealer (seat 0) to hold SmallBlind heads-up, got %s", positions[0])
	}
	if positions[1] != BigBlind {
		t.Fatalf("expected seat 1 to hold BigBlind heads-up, got %s", positions[1])
	}
}

func TestAssignPositionsHeadsUpFromNonZeroDealer(t *testing.T) {
	positions := assignPositions(1, []int{0, 1})
	if positions[1] != SmallBlind {
		t.Fatalf("expected dealer (seat 1) to hold SmallBlind heads-up, got %s", positions[1])
	}
	if positions[0] != BigBlind {
		t.Fatalf("expected seat 0 to hold BigBlind heads-up, got %s", positions[0])
	}
}

func TestAssignPositionsFullLadder(t *testing.T) {
	positions := assignPositions(2, []int{0, 1, 2, 3, 4, 5, 6})
	want := map[int]Position{
		2: Button,
		3: SmallBlind,
		4: BigBlind,
		5: UnderTheGun,
		6: EarlyPosition,
		0: MiddlePosition,
		1: Cutoff,
	}
	for idx, pos := range want {
		if positions[idx] != pos {
			t.Fatalf("seat %d: expected %s, got %s", idx, pos, positions[idx])
		}
	}
}

func TestAssignPositionsSkipsInactiveSeats(t *testing.T) {
	// Seat 1 is eliminated and absent from active; the ladder must still
	// rotate starting from the dealer among only the seats present.
	positions := assignPositions(0, []int{0, 2, 3})
	if positions[0] != Button {
		t.Fatalf("expected dealer (seat 0) to hold Button in this 3-handed ladder, got %s", positions[0])
	}
	if positions[2] != SmallBlind {
		t.Fatalf("expected seat 2 to hold SmallBlind, got %s", positions[2])
	}
	if positions[3] != BigBlind {
		t.Fatalf("expected seat 3 to hold BigBlind, got %s", positions[3])
	}
	if _, ok := positions[1]; ok {
		t.Fatalf("expected inactive seat 1 to receive no position")
	}
}
