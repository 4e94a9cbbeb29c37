package token

import "errors"

// Kind is a stable category for programmatic error handling.
//
// These categories are intended to remain stable across versions.
// Callers should branch on Kind/RuleID rather than matching error strings.
type Kind string

const (
	KindAddress   Kind = "Address"
	KindAmount    Kind = "Amount"
	KindBalance   Kind = "Balance"
	KindAllowance Kind = "Allowance"
	KindAuth      Kind = "Auth"
	KindQuery     Kind = "Query"
	KindInternal  Kind = "Internal"
)

// Stable rule identifiers. Every caller-correctable defect the ledger can
// reject with maps to exactly one of these.
const (
	RuleZeroAddress           = "GOV-ADDR-001"
	RuleOverflow              = "GOV-AMT-001"
	RuleInsufficientBalance   = "GOV-BAL-001"
	RuleInsufficientAllowance = "GOV-ALW-001"
	RuleSignatureExpired      = "GOV-AUTH-001"
	RuleInvalidSignature      = "GOV-AUTH-002"
	RuleInvalidNonce          = "GOV-AUTH-003"
	RuleFutureBlock           = "GOV-QRY-001"
	RuleVoteArithmetic        = "GOV-VOTE-001"
	RuleStateInvalid          = "GOV-STATE-001"
)

// Error is the ledger's structured error type.
//
// RuleID names the violated invariant (e.g. GOV-AMT-001). Message is intended
// for humans; do not match on it. All errors are synchronous and
// non-retryable: the triggering operation left state unchanged.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

func wrapError(kind Kind, ruleID, msg string, cause error) error {
	if cause == nil {
		return newError(kind, ruleID, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
