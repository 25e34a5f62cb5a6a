package core

import "testing"

func TestReorderBuffer_AllocateCompleteRetireInOrder(t *testing.T) {
	t.Parallel()

	rob := NewReorderBuffer(4, 4)

	i1 := rob.Allocate(ROBEntry{PC: 0x1000, Rd: 5, RegWrite: true})
	i2 := rob.Allocate(ROBEntry{PC: 0x1004, Rd: 6, RegWrite: true})

	if _, ok := rob.RetireHead(); ok {
		t.Fatalf("head should not retire before it completes")
	}

	// Complete out of order: the younger instruction finishes first, but retirement still
	// waits for the older one.
	rob.Complete(i2, 0x22, Trap{})

	if _, ok := rob.RetireHead(); ok {
		t.Fatalf("retirement must stay in program order even though i2 finished first")
	}

	rob.Complete(i1, 0x11, Trap{})

	e, ok := rob.RetireHead()
	if !ok || e.PC != 0x1000 || e.WritebackVal != 0x11 {
		t.Fatalf("RetireHead = %+v, %v, want PC=0x1000 val=0x11", e, ok)
	}

	e2, ok := rob.RetireHead()
	if !ok || e2.PC != 0x1004 || e2.WritebackVal != 0x22 {
		t.Fatalf("RetireHead = %+v, %v, want PC=0x1004 val=0x22", e2, ok)
	}

	if _, ok := rob.RetireHead(); ok {
		t.Errorf("RetireHead on an empty buffer should report false")
	}
}

func TestReorderBuffer_Full(t *testing.T) {
	t.Parallel()

	rob := NewReorderBuffer(2, 2)
	rob.Allocate(ROBEntry{})
	rob.Allocate(ROBEntry{})

	if !rob.Full() {
		t.Errorf("Full() = false, want true after filling every slot")
	}
}

func TestReorderBuffer_StoreForwarding(t *testing.T) {
	t.Parallel()

	rob := NewReorderBuffer(4, 4)
	rob.PushStore(StoreBufferEntry{Addr: 0x2000, Width: 8, Value: 0xcafe})

	result, val := rob.Forward(0x2000, 8)
	if result != ForwardHit || val != 0xcafe {
		t.Errorf("Forward exact match = (%v, %#x), want (ForwardHit, 0xcafe)", result, val)
	}

	if result, _ := rob.Forward(0x2000, 4); result != ForwardStall {
		t.Errorf("Forward overlapping-but-different-width = %v, want ForwardStall", result)
	}

	if result, _ := rob.Forward(0x3000, 8); result != ForwardMiss {
		t.Errorf("Forward non-overlapping address = %v, want ForwardMiss", result)
	}
}

func TestReorderBuffer_StoreForwardingSearchesYoungestFirst(t *testing.T) {
	t.Parallel()

	rob := NewReorderBuffer(4, 4)
	rob.PushStore(StoreBufferEntry{Addr: 0x1000, Width: 4, Value: 1})
	rob.PushStore(StoreBufferEntry{Addr: 0x1000, Width: 4, Value: 2})

	_, val := rob.Forward(0x1000, 4)
	if val != 2 {
		t.Errorf("Forward should return the youngest matching store, got %#x want 2", val)
	}
}
