// Package token implements a fungible accounting ledger with delegated,
// historically-queryable voting power.
//
// One Ledger owns all mutable state: balances, allowances, delegation,
// signature nonces, per-delegate checkpoint series, and the ordered event
// log. State transitions are atomic and serialized; an operation either
// fully commits and returns, or fails with a structured *Error and leaves
// state unchanged. Discrete time is explicit: the embedding process advances
// the block height and block timestamp, and any number of operations may
// execute back-to-back within one height. Vote-power changes landing on the
// same height collapse into a single checkpoint per delegate.
//
// Read queries never mutate state and may run concurrently with each other;
// a single writer at a time is assumed for state transitions, matching the
// block execution model.
package token
