package token

import "xdao.co/govtoken/uint96"

// Checkpoint marks a change in an account's aggregate delegated voting
// weight: the account held Votes from block FromBlock onward, until the next
// checkpoint in its series.
type Checkpoint struct {
	FromBlock uint64        `json:"fromBlock"`
	Votes     uint96.Uint96 `json:"votes"`
}

// checkpointChunk is the capacity step for series growth. Series grow in
// chunks so long-lived delegates do not reallocate on every vote movement.
const checkpointChunk = 64

// series is one account's checkpoint history, ordered by strictly
// non-decreasing FromBlock with at most one entry per height. Entries are
// never deleted; a second change at the same height overwrites in place.
type series struct {
	cps []Checkpoint
}

// latest returns the most recent vote total, or zero for an empty series.
func (s *series) latest() uint96.Uint96 {
	if s == nil || len(s.cps) == 0 {
		return uint96.Uint96{}
	}
	return s.cps[len(s.cps)-1].Votes
}

// write records votes at block, overwriting the last entry when the height
// matches and appending otherwise.
func (s *series) write(block uint64, votes uint96.Uint96) {
	n := len(s.cps)
	if n > 0 && s.cps[n-1].FromBlock == block {
		s.cps[n-1].Votes = votes
		return
	}
	if n == cap(s.cps) {
		grown := make([]Checkpoint, n, n+checkpointChunk)
		copy(grown, s.cps)
		s.cps = grown
	}
	s.cps = append(s.cps, Checkpoint{FromBlock: block, Votes: votes})
}

// prior returns the vote total as of block: the Votes of the entry with the
// greatest FromBlock <= block, or zero if every entry postdates block.
// Runs in O(log n).
func (s *series) prior(block uint64) uint96.Uint96 {
	if s == nil || len(s.cps) == 0 {
		return uint96.Uint96{}
	}
	// Common cases first: the whole series postdates block, or block is at
	// or past the last entry.
	if s.cps[0].FromBlock > block {
		return uint96.Uint96{}
	}
	last := len(s.cps) - 1
	if s.cps[last].FromBlock <= block {
		return s.cps[last].Votes
	}

	lo, hi := 0, last
	for lo < hi {
		mid := hi - (hi-lo)/2 // upper midpoint, avoids lo == mid stalls
		cp := s.cps[mid]
		switch {
		case cp.FromBlock == block:
			return cp.Votes
		case cp.FromBlock < block:
			lo = mid
		default:
			hi = mid - 1
		}
	}
	return s.cps[lo].Votes
}

// snapshot returns a copy of the series entries.
func (s *series) snapshot() []Checkpoint {
	if s == nil || len(s.cps) == 0 {
		return nil
	}
	out := make([]Checkpoint, len(s.cps))
	copy(out, s.cps)
	return out
}
