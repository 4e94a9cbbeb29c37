package token

import (
	"xdao.co/govtoken/sigauth"
	"xdao.co/govtoken/uint96"
)

// Delegates returns the account currently receiving account's voting weight,
// or the null address if none is set. Delegation is single-hop: a delegate's
// own outgoing delegation never forwards votes it has received.
func (l *Ledger) Delegates(account Address) Address {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.delegates[account]
}

// Nonce returns the next expected delegation-by-signature nonce for signer.
func (l *Ledger) Nonce(signer Address) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.nonces[signer]
}

// Delegate points delegator's voting weight at delegatee (the null address
// clears it) and moves the delegator's whole current balance between the old
// and new delegate's checkpoint series.
func (l *Ledger) Delegate(delegator, delegatee Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.delegate(delegator, delegatee)
}

// DelegateBySig applies a delegation authorized off-chain by its signer.
// The payload (delegatee, nonce, expiry) must have been signed over this
// ledger's domain; the delegation applies to the signed delegatee, never a
// separately supplied one. Returns the recovered signer.
func (l *Ledger) DelegateBySig(delegatee Address, nonce, expiry uint64, sig []byte) (Address, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.now > expiry {
		return ZeroAddress, newError(KindAuth, RuleSignatureExpired, "delegation authorization expired")
	}

	digest := sigauth.Digest(l.domain, sigauth.Delegation{
		Delegatee: delegatee,
		Nonce:     nonce,
		Expiry:    expiry,
	})
	recovered, err := sigauth.RecoverSigner(digest, sig)
	if err != nil {
		return ZeroAddress, wrapError(KindAuth, RuleInvalidSignature, "delegation signature invalid", err)
	}
	signer := Address(recovered)
	if signer.IsZero() {
		return ZeroAddress, newError(KindAuth, RuleInvalidSignature, "delegation signature recovered the null address")
	}
	if l.nonces[signer] != nonce {
		return ZeroAddress, newError(KindAuth, RuleInvalidNonce, "delegation nonce mismatch")
	}
	l.nonces[signer]++

	if err := l.delegate(signer, delegatee); err != nil {
		return ZeroAddress, err
	}
	return signer, nil
}

// delegate commits a delegation change. Caller must hold the write lock.
func (l *Ledger) delegate(delegator, delegatee Address) error {
	old := l.delegates[delegator]
	plan, err := l.planVoteMove(old, delegatee, l.balances[delegator])
	if err != nil {
		return err
	}

	if delegatee.IsZero() {
		delete(l.delegates, delegator)
	} else {
		l.delegates[delegator] = delegatee
	}
	// Emitted unconditionally, even when old == new or either side is null.
	l.emit(&DelegateChangedEvent{Meta: l.meta(), Delegator: delegator, OldDelegate: old, NewDelegate: delegatee})
	l.applyVoteMove(plan)
	return nil
}

// voteChange is one planned checkpoint write for a delegate.
type voteChange struct {
	delegate Address
	oldVotes uint96.Uint96
	newVotes uint96.Uint96
}

// planVoteMove computes the checkpoint writes that move amount of voting
// weight from one delegate to another. Null sides are skipped; a zero amount
// still produces a write for each non-null side. All arithmetic happens
// here, before any state is touched, so a failed plan aborts the whole
// operation cleanly. Caller must hold the write lock.
func (l *Ledger) planVoteMove(from, to Address, amount uint96.Uint96) ([]voteChange, error) {
	var plan []voteChange

	// latest reads the pending total for a delegate, honoring earlier
	// entries in the plan (from == to must observe its own subtraction).
	latest := func(a Address) uint96.Uint96 {
		for i := len(plan) - 1; i >= 0; i-- {
			if plan[i].delegate == a {
				return plan[i].newVotes
			}
		}
		return l.checkpoints[a].latest()
	}

	if !from.IsZero() {
		old := latest(from)
		next, err := old.Sub(amount)
		if err != nil {
			return nil, wrapError(KindInternal, RuleVoteArithmetic, "vote weight underflow", err)
		}
		plan = append(plan, voteChange{delegate: from, oldVotes: old, newVotes: next})
	}
	if !to.IsZero() {
		old := latest(to)
		next, err := old.Add(amount)
		if err != nil {
			return nil, wrapError(KindInternal, RuleVoteArithmetic, "vote weight overflow", err)
		}
		plan = append(plan, voteChange{delegate: to, oldVotes: old, newVotes: next})
	}
	return plan, nil
}

// applyVoteMove writes the planned checkpoints at the current height and
// emits a vote-changed event per write. Writes at the height of a delegate's
// most recent checkpoint overwrite it in place. Caller must hold the write
// lock.
func (l *Ledger) applyVoteMove(plan []voteChange) {
	for _, c := range plan {
		s := l.checkpoints[c.delegate]
		if s == nil {
			s = &series{}
			l.checkpoints[c.delegate] = s
		}
		s.write(l.height, c.newVotes)
		l.emit(&DelegateVotesChangedEvent{
			Meta:     l.meta(),
			Delegate: c.delegate,
			OldVotes: c.oldVotes,
			NewVotes: c.newVotes,
		})
	}
}

// GetCurrentVotes returns account's present voting power: the votes of its
// latest checkpoint, or zero if it has none.
func (l *Ledger) GetCurrentVotes(account Address) uint96.Uint96 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.checkpoints[account].latest()
}

// GetPriorVotes returns account's voting power as of blockNumber. Only
// strictly past heights are queryable; the current height may still change
// within its own block.
func (l *Ledger) GetPriorVotes(account Address, blockNumber uint64) (uint96.Uint96, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if blockNumber >= l.height {
		return uint96.Uint96{}, newError(KindQuery, RuleFutureBlock, "block height not yet finalized")
	}
	return l.checkpoints[account].prior(blockNumber), nil
}

// Checkpoints returns a copy of account's checkpoint series, oldest first.
func (l *Ledger) Checkpoints(account Address) []Checkpoint {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.checkpoints[account].snapshot()
}
