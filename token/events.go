package token

import "xdao.co/govtoken/uint96"

// EventKind discriminates entries in the ledger's event log.
type EventKind string

const (
	EventTransfer             EventKind = "Transfer"
	EventApproval             EventKind = "Approval"
	EventDelegateChanged      EventKind = "DelegateChanged"
	EventDelegateVotesChanged EventKind = "DelegateVotesChanged"
)

// Event is one entry in the ordered, immutable event log. Seq is the
// position in the log; Block is the height of the emitting state transition.
type Event interface {
	EventKind() EventKind
	EventSeq() uint64
	EventBlock() uint64
}

// Meta carries the log position shared by all event types.
type Meta struct {
	Seq   uint64 `json:"seq"`
	Block uint64 `json:"block"`
}

func (m Meta) EventSeq() uint64   { return m.Seq }
func (m Meta) EventBlock() uint64 { return m.Block }

// TransferEvent records a balance movement. The genesis mint is a transfer
// from the null address.
type TransferEvent struct {
	Meta
	From   Address       `json:"from"`
	To     Address       `json:"to"`
	Amount uint96.Uint96 `json:"amount"`
}

func (TransferEvent) EventKind() EventKind { return EventTransfer }

// ApprovalEvent records the new allowance for (Owner, Spender).
type ApprovalEvent struct {
	Meta
	Owner   Address       `json:"owner"`
	Spender Address       `json:"spender"`
	Amount  uint96.Uint96 `json:"amount"`
}

func (ApprovalEvent) EventKind() EventKind { return EventApproval }

// DelegateChangedEvent records a delegation change, emitted even when the
// old and new delegate coincide or either is the null address.
type DelegateChangedEvent struct {
	Meta
	Delegator   Address `json:"delegator"`
	OldDelegate Address `json:"oldDelegate"`
	NewDelegate Address `json:"newDelegate"`
}

func (DelegateChangedEvent) EventKind() EventKind { return EventDelegateChanged }

// DelegateVotesChangedEvent records a delegate's vote total moving from
// OldVotes to NewVotes.
type DelegateVotesChangedEvent struct {
	Meta
	Delegate Address       `json:"delegate"`
	OldVotes uint96.Uint96 `json:"oldVotes"`
	NewVotes uint96.Uint96 `json:"newVotes"`
}

func (DelegateVotesChangedEvent) EventKind() EventKind { return EventDelegateVotesChanged }
