package token

import (
	"testing"

	"xdao.co/govtoken/uint96"
)

func mustTransfer(t *testing.T, l *Ledger, from, to Address, amount uint64) {
	t.Helper()
	if err := l.Transfer(from, to, amt(amount)); err != nil {
		t.Fatalf("Transfer(%s -> %s, %d): %v", from, to, amount, err)
	}
}

func mustDelegate(t *testing.T, l *Ledger, delegator, delegatee Address) {
	t.Helper()
	if err := l.Delegate(delegator, delegatee); err != nil {
		t.Fatalf("Delegate(%s -> %s): %v", delegator, delegatee, err)
	}
}

func wantVotes(t *testing.T, l *Ledger, account Address, want uint64) {
	t.Helper()
	if got := l.GetCurrentVotes(account); got.Cmp(uint96.FromUint64(want)) != 0 {
		t.Fatalf("votes(%s) = %s, want %d", account, got, want)
	}
}

func TestDelegate_MovesWholeBalance(t *testing.T) {
	l := newTestLedger(t)
	mustTransfer(t, l, holder, alice, 1000)

	mustDelegate(t, l, alice, bob)
	wantVotes(t, l, bob, 1000)
	wantVotes(t, l, alice, 0) // delegating grants nothing to yourself

	// Redelegation moves the whole weight.
	mustDelegate(t, l, alice, carol)
	wantVotes(t, l, bob, 0)
	wantVotes(t, l, carol, 1000)

	// Clearing the delegate removes the weight entirely.
	mustDelegate(t, l, alice, ZeroAddress)
	wantVotes(t, l, carol, 0)
	if got := l.Delegates(alice); !got.IsZero() {
		t.Fatalf("delegate = %s, want null", got)
	}
}

func TestTransfer_MovesVotesBetweenDelegates(t *testing.T) {
	l := newTestLedger(t)
	mustTransfer(t, l, holder, alice, 600)
	mustTransfer(t, l, holder, bob, 400)
	mustDelegate(t, l, alice, carol)
	mustDelegate(t, l, bob, bob)

	l.AdvanceBlock()
	mustTransfer(t, l, alice, bob, 100)
	wantVotes(t, l, carol, 500)
	wantVotes(t, l, bob, 500)

	// One side without a delegate: votes only leave, none arrive.
	l.AdvanceBlock()
	mustTransfer(t, l, bob, holder, 50) // holder has no delegate
	wantVotes(t, l, bob, 450)
	wantVotes(t, l, holder, 0)
}

func TestDelegation_NonTransitive(t *testing.T) {
	l := newTestLedger(t)
	mustTransfer(t, l, holder, alice, 100)
	mustTransfer(t, l, holder, bob, 30)

	mustDelegate(t, l, alice, bob)
	mustDelegate(t, l, bob, carol)

	// B's own balance flows to C; A's delegated weight stays with B.
	wantVotes(t, l, bob, 100)
	wantVotes(t, l, carol, 30)

	// New tokens for A credit B, never C.
	mustTransfer(t, l, holder, alice, 70)
	wantVotes(t, l, bob, 170)
	wantVotes(t, l, carol, 30)
}

func TestSameBlockCollapse(t *testing.T) {
	l := newTestLedger(t)
	mustTransfer(t, l, holder, alice, 500)
	mustTransfer(t, l, holder, bob, 200)
	l.AdvanceBlock()

	// Two delegation changes to the same delegate within one block must
	// produce one checkpoint holding the final cumulative total.
	mustDelegate(t, l, alice, carol)
	mustDelegate(t, l, bob, carol)

	cps := l.Checkpoints(carol)
	if len(cps) != 1 {
		t.Fatalf("checkpoints = %d, want 1", len(cps))
	}
	if cps[0].FromBlock != 2 {
		t.Fatalf("FromBlock = %d, want 2", cps[0].FromBlock)
	}
	if cps[0].Votes.Cmp(uint96.FromUint64(700)) != 0 {
		t.Fatalf("votes = %s, want 700", cps[0].Votes)
	}

	// The next block appends instead.
	l.AdvanceBlock()
	mustTransfer(t, l, holder, alice, 1)
	if cps := l.Checkpoints(carol); len(cps) != 2 {
		t.Fatalf("checkpoints = %d, want 2", len(cps))
	}
}

func TestGetPriorVotes(t *testing.T) {
	l := newTestLedger(t)
	mustTransfer(t, l, holder, alice, 100)
	mustDelegate(t, l, alice, bob) // height 1: bob = 100

	l.AdvanceBlock() // height 2
	mustTransfer(t, l, holder, alice, 50)

	l.AdvanceBlock() // height 3
	l.AdvanceBlock() // height 4
	mustTransfer(t, l, alice, carol, 150) // bob loses all at height 4

	head := l.Height()
	if _, err := l.GetPriorVotes(bob, head); RuleID(err) != RuleFutureBlock {
		t.Fatalf("query at head: got %v", err)
	}
	if _, err := l.GetPriorVotes(bob, head+10); RuleID(err) != RuleFutureBlock {
		t.Fatalf("query past head: got %v", err)
	}

	cases := []struct {
		block uint64
		want  uint64
	}{
		{0, 0},
		{1, 100},
		{2, 150},
		{3, 150},
	}
	for _, tc := range cases {
		got, err := l.GetPriorVotes(bob, tc.block)
		if err != nil {
			t.Fatalf("GetPriorVotes(%d): %v", tc.block, err)
		}
		if got.Cmp(uint96.FromUint64(tc.want)) != 0 {
			t.Fatalf("prior(%d) = %s, want %d", tc.block, got, tc.want)
		}
	}

	// The height-4 change becomes visible once the head moves past it.
	l.AdvanceBlock()
	got, err := l.GetPriorVotes(bob, 4)
	if err != nil {
		t.Fatalf("GetPriorVotes(4): %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("prior(4) = %s, want 0", got)
	}
}

func TestDelegate_EventAlwaysEmitted(t *testing.T) {
	l := newTestLedger(t)
	mustTransfer(t, l, holder, alice, 10)

	before := l.EventCount()
	mustDelegate(t, l, alice, bob)
	mustDelegate(t, l, alice, bob) // same delegatee again

	var changed []*DelegateChangedEvent
	for _, ev := range l.Events()[before:] {
		if dc, ok := ev.(*DelegateChangedEvent); ok {
			changed = append(changed, dc)
		}
	}
	if len(changed) != 2 {
		t.Fatalf("DelegateChanged events = %d, want 2", len(changed))
	}
	second := changed[1]
	if second.OldDelegate != bob || second.NewDelegate != bob {
		t.Fatalf("second event = %+v", second)
	}
}

func TestZeroAmountTransfer_StillWritesCheckpoints(t *testing.T) {
	l := newTestLedger(t)
	mustTransfer(t, l, holder, alice, 10)
	mustDelegate(t, l, alice, bob)
	l.AdvanceBlock()

	before := l.EventCount()
	mustTransfer(t, l, holder, alice, 0)

	// holder has no delegate; alice's delegate gets a 10 -> 10 checkpoint at
	// the new height.
	cps := l.Checkpoints(bob)
	if len(cps) != 2 {
		t.Fatalf("checkpoints = %d, want 2", len(cps))
	}
	if cps[1].Votes.Cmp(uint96.FromUint64(10)) != 0 {
		t.Fatalf("votes = %s, want 10", cps[1].Votes)
	}

	found := false
	for _, ev := range l.Events()[before:] {
		if vc, ok := ev.(*DelegateVotesChangedEvent); ok {
			found = true
			if vc.OldVotes.Cmp(vc.NewVotes) != 0 {
				t.Fatalf("zero move changed totals: %+v", vc)
			}
		}
	}
	if !found {
		t.Fatalf("zero-amount move emitted no vote event")
	}
}

func TestEventLog_OrderedAndStamped(t *testing.T) {
	l := newTestLedger(t)
	mustTransfer(t, l, holder, alice, 5)
	l.AdvanceBlock()
	mustDelegate(t, l, alice, bob)

	events := l.Events()
	for i, ev := range events {
		if ev.EventSeq() != uint64(i) {
			t.Fatalf("event %d has seq %d", i, ev.EventSeq())
		}
		if i > 0 && ev.EventBlock() < events[i-1].EventBlock() {
			t.Fatalf("event blocks regressed at %d", i)
		}
	}
}

func TestConservationUnderMixedTraffic(t *testing.T) {
	l := newTestLedger(t)
	participants := []Address{holder, alice, bob, carol}

	mustTransfer(t, l, holder, alice, 1000)
	mustTransfer(t, l, holder, bob, 500)
	mustDelegate(t, l, alice, carol)
	for i := 0; i < 25; i++ {
		l.AdvanceBlock()
		mustTransfer(t, l, alice, bob, 7)
		mustTransfer(t, l, bob, carol, 3)
		if i%5 == 0 {
			mustDelegate(t, l, bob, alice)
		}
		if got := sumBalances(t, l, participants...); got.Cmp(l.TotalSupply()) != 0 {
			t.Fatalf("conservation broken at round %d: %s", i, got)
		}
	}

	// Checkpoint series stay strictly monotonic for everyone.
	for _, a := range participants {
		cps := l.Checkpoints(a)
		for i := 1; i < len(cps); i++ {
			if cps[i].FromBlock <= cps[i-1].FromBlock {
				t.Fatalf("%s series not strictly increasing", a)
			}
		}
	}
}
