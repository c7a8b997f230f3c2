package engine

import "testing"

func TestFindFloatingBlocks(t *testing.T) {
	b := NewBoard(10, 20)
	b.SetCell(0, 19, 1)
	b.SetCell(0, 18, 1)
	b.SetCell(1, 18, 1) // connected sideways
	b.SetCell(5, 17, 2)
	b.SetCell(5, 16, 2)

	floating := FindFloatingBlocks(b)
	if len(floating) != 2 {
		t.Fatalf("floating = %v, want 2 blocks", floating)
	}
	for _, blk := range floating {
		if blk.X != 5 || blk.Value != 2 {
			t.Errorf("unexpected floating block %+v", blk)
		}
	}
}

func TestFindFloatingEmptyBottom(t *testing.T) {
	b := NewBoard(10, 20)
	b.SetCell(3, 3, 4)
	if got := len(FindFloatingBlocks(b)); got != 1 {
		t.Errorf("floating = %d, want 1", got)
	}
}

func TestApplyGravityStepsOneRow(t *testing.T) {
	b := NewBoard(10, 20)
	b.SetCell(5, 17, 6)

	if !b.IsCellEmpty(5, 18) || !ApplyGravity(b) {
		t.Fatal("first ApplyGravity did not move")
	}
	if b.Cell(5, 18) != 6 || !b.IsCellEmpty(5, 17) {
		t.Fatalf("block not at (5,18) after one step")
	}
	if !ApplyGravity(b) {
		t.Fatal("second ApplyGravity did not move")
	}
	if b.Cell(5, 19) != 6 {
		t.Fatalf("block not at (5,19) after two steps")
	}
	if ApplyGravity(b) {
		t.Error("grounded block moved")
	}
}

func TestApplyGravityStackedColumn(t *testing.T) {
	// Lower cells go first, so a floating column falls as one.
	b := NewBoard(4, 6)
	b.SetCell(2, 1, 1)
	b.SetCell(2, 2, 2)

	if !ApplyGravity(b) {
		t.Fatal("expected movement")
	}
	if b.Cell(2, 2) != 1 || b.Cell(2, 3) != 2 || !b.IsCellEmpty(2, 1) {
		t.Errorf("column did not fall together: rows %v", b.Rows())
	}
}

func TestCascadeClearChain(t *testing.T) {
	// Row 18 clears first; the block at (0,17) then falls into the gap of
	// row 19 and completes it, a second link in the chain.
	b := NewBoard(10, 20)
	fillRow(b, 19, 0)
	fillRow(b, 18)
	b.SetCell(0, 17, 3)

	res := CascadeClear(b, 1)
	if res.LinesCleared != 2 {
		t.Errorf("LinesCleared = %d, want 2", res.LinesCleared)
	}
	if res.ChainCount != 2 {
		t.Errorf("ChainCount = %d, want 2", res.ChainCount)
	}
	independent := 2 * CalculateScore(1, 1)
	if res.Score <= independent {
		t.Errorf("Score = %d, want > %d", res.Score, independent)
	}
	if res.Score != 300 {
		t.Errorf("Score = %d, want 300", res.Score)
	}
	if n := countOccupied(b); n != 0 {
		t.Errorf("occupied after cascade = %d, want 0", n)
	}
}

func TestCascadeClearNothingToClear(t *testing.T) {
	b := NewBoard(10, 20)
	fillRow(b, 19, 5)
	fillRow(b, 18, 5)
	b.SetCell(5, 17, 1)

	res := CascadeClear(b, 3)
	if res != (CascadeResult{}) {
		t.Errorf("CascadeClear = %+v, want zero result", res)
	}
	if b.Cell(5, 17) != 1 {
		t.Error("board changed although nothing cleared")
	}
}
