package token

import (
	"bytes"
	"sort"

	"xdao.co/govtoken/sigauth"
	"xdao.co/govtoken/uint96"
)

// State is the stable boundary projection of a Ledger, intended for
// canonical serialization. Accounts and allowances are sorted by address so
// two ledgers with equal state produce identical projections.
type State struct {
	Name     string  `json:"name"`
	ChainID  uint64  `json:"chainId"`
	Contract Address `json:"contract"`

	Supply uint96.Uint96 `json:"supply"`
	Height uint64        `json:"height"`
	Time   uint64        `json:"time"`

	// NextEventSeq is the log cursor: the sequence number the next emitted
	// event will carry. Event bodies are observable on the live log and are
	// not part of the accounting state.
	NextEventSeq uint64 `json:"nextEventSeq"`

	Accounts   []AccountState   `json:"accounts"`
	Allowances []AllowanceState `json:"allowances"`
}

// AccountState holds every per-account attribute. Zero-valued attributes of
// untouched accounts are omitted from projections entirely.
type AccountState struct {
	Address     Address       `json:"address"`
	Balance     uint96.Uint96 `json:"balance"`
	Delegate    Address       `json:"delegate"`
	Nonce       uint64        `json:"nonce"`
	Checkpoints []Checkpoint  `json:"checkpoints,omitempty"`
}

// AllowanceState is one (owner, spender) spending limit.
type AllowanceState struct {
	Owner   Address       `json:"owner"`
	Spender Address       `json:"spender"`
	Amount  uint96.Uint96 `json:"amount"`
}

// ExportState projects the full ledger state.
func (l *Ledger) ExportState() State {
	l.mu.RLock()
	defer l.mu.RUnlock()

	st := State{
		Name:         l.name,
		ChainID:      l.domain.ChainID,
		Contract:     Address(l.domain.Contract),
		Supply:       l.supply,
		Height:       l.height,
		Time:         l.now,
		NextEventSeq: l.eventBase + uint64(len(l.events)),
	}

	seen := make(map[Address]bool)
	touch := func(a Address) {
		if !a.IsZero() {
			seen[a] = true
		}
	}
	for a := range l.balances {
		touch(a)
	}
	for a := range l.delegates {
		touch(a)
	}
	for a := range l.nonces {
		touch(a)
	}
	for a := range l.checkpoints {
		touch(a)
	}

	addrs := make([]Address, 0, len(seen))
	for a := range seen {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return bytes.Compare(addrs[i][:], addrs[j][:]) < 0 })

	for _, a := range addrs {
		st.Accounts = append(st.Accounts, AccountState{
			Address:     a,
			Balance:     l.balances[a],
			Delegate:    l.delegates[a],
			Nonce:       l.nonces[a],
			Checkpoints: l.checkpoints[a].snapshot(),
		})
	}

	for k, v := range l.allowances {
		st.Allowances = append(st.Allowances, AllowanceState{Owner: k.owner, Spender: k.spender, Amount: v})
	}
	sort.Slice(st.Allowances, func(i, j int) bool {
		a, b := st.Allowances[i], st.Allowances[j]
		if c := bytes.Compare(a.Owner[:], b.Owner[:]); c != 0 {
			return c < 0
		}
		return bytes.Compare(a.Spender[:], b.Spender[:]) < 0
	})

	return st
}

// RestoreLedger rebuilds a ledger from an exported state, verifying the
// invariants a well-formed export satisfies: balances summing to the supply,
// strictly increasing checkpoint heights per series, and a height past
// genesis. The event log restarts at the recorded cursor; prior event bodies
// are not replayed.
func RestoreLedger(st State) (*Ledger, error) {
	if st.Height == 0 {
		return nil, newError(KindInternal, RuleStateInvalid, "state height precedes genesis")
	}
	name := st.Name
	if name == "" {
		name = DefaultDomainName
	}

	l := &Ledger{
		name:        name,
		domain:      sigauth.Domain{Name: name, ChainID: st.ChainID, Contract: [20]byte(st.Contract)},
		supply:      st.Supply,
		balances:    make(map[Address]uint96.Uint96),
		allowances:  make(map[allowanceKey]uint96.Uint96),
		delegates:   make(map[Address]Address),
		nonces:      make(map[Address]uint64),
		checkpoints: make(map[Address]*series),
		height:      st.Height,
		now:         st.Time,
		// The restored log keeps the cursor but not the bodies.
		eventBase: st.NextEventSeq,
	}

	total := uint96.Uint96{}
	for _, acct := range st.Accounts {
		if acct.Address.IsZero() {
			return nil, newError(KindInternal, RuleStateInvalid, "state contains the null account")
		}
		if !acct.Balance.IsZero() {
			l.balances[acct.Address] = acct.Balance
			var err error
			total, err = total.Add(acct.Balance)
			if err != nil {
				return nil, wrapError(KindInternal, RuleStateInvalid, "state balances overflow", err)
			}
		}
		if !acct.Delegate.IsZero() {
			l.delegates[acct.Address] = acct.Delegate
		}
		if acct.Nonce != 0 {
			l.nonces[acct.Address] = acct.Nonce
		}
		if len(acct.Checkpoints) > 0 {
			s := &series{cps: make([]Checkpoint, len(acct.Checkpoints))}
			copy(s.cps, acct.Checkpoints)
			for i := 1; i < len(s.cps); i++ {
				if s.cps[i].FromBlock <= s.cps[i-1].FromBlock {
					return nil, newError(KindInternal, RuleStateInvalid, "state checkpoints out of order")
				}
			}
			if s.cps[len(s.cps)-1].FromBlock > st.Height {
				return nil, newError(KindInternal, RuleStateInvalid, "state checkpoint past head")
			}
			l.checkpoints[acct.Address] = s
		}
	}
	if total.Cmp(st.Supply) != 0 {
		return nil, newError(KindInternal, RuleStateInvalid, "state balances do not sum to supply")
	}

	for _, al := range st.Allowances {
		l.allowances[allowanceKey{al.Owner, al.Spender}] = al.Amount
	}
	return l, nil
}
