package token

import (
	"sync"

	"github.com/holiman/uint256"

	"xdao.co/govtoken/sigauth"
	"xdao.co/govtoken/uint96"
)

// DefaultDomainName is the protocol name bound into the signing domain when
// Config.Name is left empty.
const DefaultDomainName = "xDAO Govern"

// Config carries the genesis parameters. The whole supply is minted to
// Holder at construction; there is no later minting.
type Config struct {
	// Name, ChainID, and Contract form the signing domain for
	// delegation-by-signature. Changing any of them invalidates previously
	// issued signatures.
	Name     string
	ChainID  uint64
	Contract Address

	// Holder receives the full Supply at genesis.
	Holder Address
	Supply *uint256.Int

	// GenesisTime is the initial block timestamp (Unix seconds).
	GenesisTime uint64
}

type allowanceKey struct {
	owner   Address
	spender Address
}

// Ledger is the single-writer ledger engine. All exported methods are safe
// for concurrent use; reads take a shared lock so queries can interleave
// freely between state transitions.
type Ledger struct {
	mu sync.RWMutex

	name   string
	domain sigauth.Domain
	supply uint96.Uint96

	balances    map[Address]uint96.Uint96
	allowances  map[allowanceKey]uint96.Uint96
	delegates   map[Address]Address
	nonces      map[Address]uint64
	checkpoints map[Address]*series

	// events is the observable log since construction; eventBase offsets
	// sequence numbers when the ledger was restored from a snapshot.
	events    []Event
	eventBase uint64

	height uint64
	now    uint64
}

// NewLedger mints cfg.Supply to cfg.Holder at height 0 and opens the ledger
// for operations at height 1.
func NewLedger(cfg Config) (*Ledger, error) {
	if cfg.Holder.IsZero() {
		return nil, newError(KindAddress, RuleZeroAddress, "genesis holder is the null address")
	}
	supply, err := uint96.FromUint256(cfg.Supply)
	if err != nil {
		return nil, wrapError(KindAmount, RuleOverflow, "genesis supply exceeds 96 bits", err)
	}
	name := cfg.Name
	if name == "" {
		name = DefaultDomainName
	}

	l := &Ledger{
		name:        name,
		domain:      sigauth.Domain{Name: name, ChainID: cfg.ChainID, Contract: cfg.Contract},
		supply:      supply,
		balances:    make(map[Address]uint96.Uint96),
		allowances:  make(map[allowanceKey]uint96.Uint96),
		delegates:   make(map[Address]Address),
		nonces:      make(map[Address]uint64),
		checkpoints: make(map[Address]*series),
		now:         cfg.GenesisTime,
	}
	l.balances[cfg.Holder] = supply
	l.emit(&TransferEvent{Meta: l.meta(), From: ZeroAddress, To: cfg.Holder, Amount: supply})
	l.height = 1
	return l, nil
}

// meta stamps the next event log entry. Caller must hold the write lock.
func (l *Ledger) meta() Meta {
	return Meta{Seq: l.eventBase + uint64(len(l.events)), Block: l.height}
}

func (l *Ledger) emit(ev Event) {
	l.events = append(l.events, ev)
}

// Name returns the protocol name bound into the signing domain.
func (l *Ledger) Name() string { return l.name }

// Domain returns the signing domain for delegation authorizations.
func (l *Ledger) Domain() sigauth.Domain { return l.domain }

// TotalSupply returns the fixed genesis supply.
func (l *Ledger) TotalSupply() uint96.Uint96 { return l.supply }

// Height returns the current block height.
func (l *Ledger) Height() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.height
}

// Time returns the current block timestamp (Unix seconds).
func (l *Ledger) Time() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.now
}

// AdvanceBlock closes the current height and returns the new one. Operations
// issued before the next AdvanceBlock all execute at the returned height.
func (l *Ledger) AdvanceBlock() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.height++
	return l.height
}

// SetTime sets the block timestamp used for authorization expiry checks.
func (l *Ledger) SetTime(unix uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = unix
}

// BalanceOf returns the balance of account, zero for accounts never seen.
func (l *Ledger) BalanceOf(account Address) uint96.Uint96 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[account]
}

// Allowance returns the remaining amount spender may transfer out of owner.
func (l *Ledger) Allowance(owner, spender Address) uint96.Uint96 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.allowances[allowanceKey{owner, spender}]
}

// Approve sets spender's allowance over owner's tokens. A raw amount equal
// to the maximum uint256 requests the infinite allowance and is stored as
// the 96-bit sentinel; any other amount above 2^96-1 is rejected.
func (l *Ledger) Approve(owner, spender Address, raw *uint256.Int) error {
	amount, err := uint96.FromAllowance(raw)
	if err != nil {
		return wrapError(KindAmount, RuleOverflow, "approve amount exceeds 96 bits", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.allowances[allowanceKey{owner, spender}] = amount
	l.emit(&ApprovalEvent{Meta: l.meta(), Owner: owner, Spender: spender, Amount: amount})
	return nil
}

// Transfer moves raw tokens from from to to, and the matching voting weight
// between their delegates.
func (l *Ledger) Transfer(from, to Address, raw *uint256.Int) error {
	amount, err := uint96.FromUint256(raw)
	if err != nil {
		return wrapError(KindAmount, RuleOverflow, "transfer amount exceeds 96 bits", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.transfer(from, to, amount)
}

// TransferFrom is Transfer on behalf of owner, consuming spender's
// allowance. The infinite sentinel is never decremented and fires no
// approval event.
func (l *Ledger) TransferFrom(spender, owner, to Address, raw *uint256.Int) error {
	amount, err := uint96.FromUint256(raw)
	if err != nil {
		return wrapError(KindAmount, RuleOverflow, "transfer amount exceeds 96 bits", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := allowanceKey{owner, spender}
	allowance := l.allowances[key]
	consume := !allowance.IsMax()
	var remaining uint96.Uint96
	if consume {
		var err error
		remaining, err = allowance.Sub(amount)
		if err != nil {
			return wrapError(KindAllowance, RuleInsufficientAllowance, "transfer amount exceeds spender allowance", err)
		}
	}

	// Validate the transfer before consuming the allowance so a failure
	// leaves the allowance untouched.
	if err := l.validateTransfer(owner, to, amount); err != nil {
		return err
	}
	if consume {
		l.allowances[key] = remaining
		l.emit(&ApprovalEvent{Meta: l.meta(), Owner: owner, Spender: spender, Amount: remaining})
	}
	return l.transfer(owner, to, amount)
}

// validateTransfer performs every check transfer would, without mutating.
// Caller must hold the write lock.
func (l *Ledger) validateTransfer(from, to Address, amount uint96.Uint96) error {
	if from.IsZero() {
		return newError(KindAddress, RuleZeroAddress, "transfer from the null address")
	}
	if to.IsZero() {
		return newError(KindAddress, RuleZeroAddress, "transfer to the null address")
	}
	if l.balances[from].Cmp(amount) < 0 {
		return newError(KindBalance, RuleInsufficientBalance, "transfer amount exceeds balance")
	}
	return nil
}

// transfer commits a validated-or-validatable balance move and the matching
// vote-weight move. Caller must hold the write lock.
func (l *Ledger) transfer(from, to Address, amount uint96.Uint96) error {
	if err := l.validateTransfer(from, to, amount); err != nil {
		return err
	}

	plan, err := l.planVoteMove(l.delegates[from], l.delegates[to], amount)
	if err != nil {
		return err
	}

	newFrom, err := l.balances[from].Sub(amount)
	if err != nil {
		return wrapError(KindInternal, RuleVoteArithmetic, "balance underflow", err)
	}
	toBase := l.balances[to]
	if to == from {
		toBase = newFrom
	}
	newTo, err := toBase.Add(amount)
	if err != nil {
		return wrapError(KindInternal, RuleVoteArithmetic, "balance overflow", err)
	}

	l.balances[from] = newFrom
	l.balances[to] = newTo
	l.emit(&TransferEvent{Meta: l.meta(), From: from, To: to, Amount: amount})
	l.applyVoteMove(plan)
	return nil
}

// Events returns a copy of the ordered event log.
func (l *Ledger) Events() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// EventCount returns the sequence number the next event will carry (the
// total count of events ever emitted, including any before a restore).
func (l *Ledger) EventCount() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.eventBase + uint64(len(l.events))
}
