// Package keys is a local-first key store for the two signing roles in this
// repo: secp256k1 signer keys, which authorize delegations on the ledger, and
// attestor keys (ed25519 or dilithium3), which sign snapshot attestations.
//
// Seeds are 32-byte hex files under a per-identifier directory, mode 0600.
// A seed file can optionally be sealed with a passphrase; see seal.go.
package keys
