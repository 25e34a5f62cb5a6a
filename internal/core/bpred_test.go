package core

import "testing"

func TestGSharePredictor_LearnsTakenPattern(t *testing.T) {
	t.Parallel()

	g := newGSharePredictor()
	const pc = Word(0x1000)

	if g.predict(pc) {
		t.Errorf("a cold predictor should default to not-taken")
	}

	// The index mixes in the global history, so it only settles once the history register is
	// all ones; a few more outcomes then saturate that counter.
	for i := 0; i < gshareHistoryBits+4; i++ {
		g.train(pc, true)
	}

	if !g.predict(pc) {
		t.Errorf("after repeated taken outcomes the counter should saturate to taken")
	}

	for i := 0; i < 4; i++ {
		g.train(pc, false)
	}

	if g.predict(pc) {
		t.Errorf("after repeated not-taken outcomes the counter should saturate back down")
	}
}

func TestBTB_LookupAfterUpdate(t *testing.T) {
	t.Parallel()

	btb := NewBTB(64)

	if _, ok := btb.Lookup(0x2000); ok {
		t.Fatalf("a cold BTB should miss")
	}

	btb.Update(0x2000, 0x3000)

	target, ok := btb.Lookup(0x2000)
	if !ok || target != 0x3000 {
		t.Errorf("Lookup = (%#x, %v), want (0x3000, true)", target, ok)
	}
}

func TestRAS_PushPopOrder(t *testing.T) {
	t.Parallel()

	ras := NewRAS(2)
	ras.Push(0x100)
	ras.Push(0x200)

	if addr, ok := ras.Pop(); !ok || addr != 0x200 {
		t.Errorf("Pop = (%#x, %v), want (0x200, true)", addr, ok)
	}

	if addr, ok := ras.Pop(); !ok || addr != 0x100 {
		t.Errorf("Pop = (%#x, %v), want (0x100, true)", addr, ok)
	}

	if _, ok := ras.Pop(); ok {
		t.Errorf("Pop on an empty stack should report false")
	}
}

func TestRAS_OverflowOverwritesOldest(t *testing.T) {
	t.Parallel()

	ras := NewRAS(2)
	ras.Push(0x1)
	ras.Push(0x2)
	ras.Push(0x3) // overwrites 0x1

	first, _ := ras.Pop()
	second, _ := ras.Pop()

	if first != 0x3 || second != 0x2 {
		t.Errorf("got pops (%#x, %#x), want (0x3, 0x2)", first, second)
	}
}

func TestBranchPredictor_PredictBranchUsesBTBOnlyWhenTaken(t *testing.T) {
	t.Parallel()

	bp := NewBranchPredictor(PipelineConfig{BranchPredictor: PredictorGShare, BTBEntries: 64, RASDepth: 8})

	const pc = Word(0x4000)

	taken, _, haveTarget := bp.PredictBranch(pc)
	if taken || haveTarget {
		t.Fatalf("a cold predictor should predict not-taken with no target")
	}

	bp.UpdateBranch(pc, true, 0x5000)
	for i := 0; i < gshareHistoryBits+3; i++ {
		bp.UpdateBranch(pc, true, 0x5000)
	}

	taken, target, haveTarget := bp.PredictBranch(pc)
	if !taken || !haveTarget || target != 0x5000 {
		t.Errorf("PredictBranch = (%v, %#x, %v), want (true, 0x5000, true)", taken, target, haveTarget)
	}
}

func TestBranchPredictor_CallAndReturn(t *testing.T) {
	t.Parallel()

	bp := NewBranchPredictor(PipelineConfig{BranchPredictor: PredictorGShare, BTBEntries: 64, RASDepth: 8})

	bp.OnCall(0x1000, 0x1004, 0x2000)

	target, ok := bp.PredictReturn()
	if !ok || target != 0x1004 {
		t.Errorf("PredictReturn = (%#x, %v), want (0x1004, true)", target, ok)
	}
}
