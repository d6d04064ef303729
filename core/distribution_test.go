package core

import (
	"math/big"
	"testing"
)

func planInput(n int, shape DistributionShape) LadderPlanInput {
	sp := int32(60)
	return LadderPlanInput{
		CurrentPrice:        2000,
		LimitPrice:          1500,
		TotalUSDWei:         big.NewInt(1_000_000_000),
		N:                   n,
		Fee:                 3000,
		Shape:               shape,
		TickSpacingOverride: &sp,
	}
}

func TestPlanLadderBucketCount(t *testing.T) {
	positions, err := PlanLadder(planInput(5, Linear))
	if err != nil {
		t.Fatal(err)
	}
	if len(positions) != 5 {
		t.Fatalf("got %d positions, want 5", len(positions))
	}
}

func TestPlanLadderUSDSumsToTotal(t *testing.T) {
	in := planInput(7, Quadratic)
	positions, err := PlanLadder(in)
	if err != nil {
		t.Fatal(err)
	}
	sum := new(big.Int)
	for _, p := range positions {
		sum.Add(sum, p.USDAmount)
	}
	if sum.Cmp(in.TotalUSDWei) != 0 {
		t.Errorf("bucket USD amounts sum to %v, want exactly %v", sum, in.TotalUSDWei)
	}
}

func TestPlanLadderTicksAreSpacingAligned(t *testing.T) {
	in := planInput(6, Exponential)
	positions, err := PlanLadder(in)
	if err != nil {
		t.Fatal(err)
	}
	sp := *in.TickSpacingOverride
	for _, p := range positions {
		if p.TickLower%sp != 0 {
			t.Errorf("bucket %d TickLower %d is not a multiple of spacing %d", p.Index, p.TickLower, sp)
		}
		if p.TickUpper%sp != 0 {
			t.Errorf("bucket %d TickUpper %d is not a multiple of spacing %d", p.Index, p.TickUpper, sp)
		}
	}
}

func TestPlanLadderBucketsAreContiguousAndNonOverlapping(t *testing.T) {
	positions, err := PlanLadder(planInput(4, Fibonacci))
	if err != nil {
		t.Fatal(err)
	}
	// The limit (1500) is below the current price (2000), so the ladder
	// descends: each bucket sits directly below the previous one.
	for i := 1; i < len(positions); i++ {
		prev := positions[i-1]
		cur := positions[i]
		if cur.TickUpper != prev.TickLower {
			t.Errorf("bucket %d (upper %d) does not meet bucket %d (lower %d): gap or overlap", i, cur.TickUpper, i-1, prev.TickLower)
		}
	}
}

func TestPlanLadderWeightShapesAreMonotonic(t *testing.T) {
	for _, shape := range []DistributionShape{Linear, Quadratic, Exponential, Fibonacci} {
		w := weightVector(shape, 5)
		for i := 1; i < len(w); i++ {
			if w[i] < w[i-1] {
				t.Errorf("shape %d: weight[%d]=%v < weight[%d]=%v, want non-decreasing", shape, i, w[i], i-1, w[i-1])
			}
		}
	}
}

func TestPlanLadderRejectsInvalidN(t *testing.T) {
	in := planInput(0, Linear)
	if _, err := PlanLadder(in); err == nil {
		t.Error("expected InvalidRangeError for n=0")
	}
}

func TestPlanLadderRejectsEqualPrices(t *testing.T) {
	in := planInput(3, Linear)
	in.LimitPrice = in.CurrentPrice
	if _, err := PlanLadder(in); err == nil {
		t.Error("expected InvalidRangeError when current_price equals limit_price")
	}
}

func TestCalculateBidAskFromPercentSplitsBothSides(t *testing.T) {
	out, err := CalculateBidAskFromPercent(BidAskInput{
		CurrentPrice: 2000,
		PercentFrom:  -20,
		PercentTo:    20,
		TotalUSDWei:  big.NewInt(1_000_000_000),
		N:            10,
		Fee:          3000,
		Shape:        Linear,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 10 {
		t.Fatalf("got %d positions, want 10", len(out))
	}
	for i, p := range out {
		if p.Index != i {
			t.Errorf("position %d has Index %d after renumbering, want %d", i, p.Index, i)
		}
	}
}

func TestCalculateBidAskFromPercentOneSidedWhenFullyAbove(t *testing.T) {
	out, err := CalculateBidAskFromPercent(BidAskInput{
		CurrentPrice: 2000,
		PercentFrom:  5,
		PercentTo:    20,
		TotalUSDWei:  big.NewInt(1_000_000_000),
		N:            4,
		Fee:          3000,
		Shape:        Linear,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 4 {
		t.Fatalf("got %d positions, want 4", len(out))
	}
}
