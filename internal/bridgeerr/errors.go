// Package bridgeerr provides the error kinds and error type used across the
// translator, registry, transaction state machines, and controller. It is a
// leaf package with no internal dependencies so it can be imported by all of
// them without introducing import cycles.
//
// Import graph: bridgeerr <- translate <- registry <- bridge; generator
// imports bridgeerr directly.
package bridgeerr

import "fmt"

// ErrorCode identifies the kind of bridge error.
type ErrorCode int

const (
	// ErrUnsupportedOpcode: a translator encountered an opcode with no
	// mapping. Fatal — the caller is a programming error.
	ErrUnsupportedOpcode ErrorCode = iota + 1

	// ErrUnsupportedTransaction: the registry's factory received a REQ
	// opcode outside the Read/Write/Dataless classes.
	ErrUnsupportedTransaction

	// ErrUnknownTransaction: a Data or Response message arrived with a
	// txnId absent from the registry. Fatal — the downstream protocol
	// broke the contract.
	ErrUnknownTransaction

	// ErrInvalidResp: e.g. SnpResp with a state other than I. Fatal.
	ErrInvalidResp

	// ErrRetryPending: expected in-band signal (RETRY_ACK), not an error;
	// does not terminate the transaction.
	ErrRetryPending

	// ErrExpectationFailed: testbench-only; marks the transaction failed
	// but does not interrupt dispatch.
	ErrExpectationFailed

	// ErrAssertionFailed: testbench-only; aborts the suite immediately.
	ErrAssertionFailed
)

// String returns a human-readable name for the error code.
func (c ErrorCode) String() string {
	switch c {
	case ErrUnsupportedOpcode:
		return "UnsupportedOpcode"
	case ErrUnsupportedTransaction:
		return "UnsupportedTransaction"
	case ErrUnknownTransaction:
		return "UnknownTransaction"
	case ErrInvalidResp:
		return "InvalidResp"
	case ErrRetryPending:
		return "RetryPending"
	case ErrExpectationFailed:
		return "ExpectationFailed"
	case ErrAssertionFailed:
		return "AssertionFailed"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// BridgeError is the error type returned (or panicked with, for the fatal
// kinds) by the translator, registry, and controller.
type BridgeError struct {
	Code    ErrorCode
	Message string
	TxnID   uint32 // 0 when not applicable (e.g. translator errors)
}

// Error implements the error interface.
func (e *BridgeError) Error() string {
	if e.TxnID != 0 {
		return fmt.Sprintf("%s: %s (txn_id: %d)", e.Code, e.Message, e.TxnID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Fatal reports whether this error kind is non-recoverable, i.e.
// one that should never be soft-handled by bridge code (the testbench
// layer is the only place soft-fail legitimately happens).
func (e *BridgeError) Fatal() bool {
	switch e.Code {
	case ErrRetryPending, ErrExpectationFailed, ErrAssertionFailed:
		return false
	default:
		return true
	}
}

// NewUnsupportedOpcodeError reports a translator input with no mapping.
func NewUnsupportedOpcodeError(layer, opcode string) *BridgeError {
	return &BridgeError{
		Code:    ErrUnsupportedOpcode,
		Message: fmt.Sprintf("%s: no mapping for opcode %s", layer, opcode),
	}
}

// NewUnsupportedTransactionError reports a REQ opcode outside the
// Read/Write/Dataless classes at factory time.
func NewUnsupportedTransactionError(opcode string) *BridgeError {
	return &BridgeError{
		Code:    ErrUnsupportedTransaction,
		Message: fmt.Sprintf("opcode %s is not a Read, Write, or Dataless request", opcode),
	}
}

// NewUnknownTransactionError reports a Data/Response message for a txnId
// absent from the registry.
func NewUnknownTransactionError(txnID uint32) *BridgeError {
	return &BridgeError{
		Code:    ErrUnknownTransaction,
		Message: "no outstanding transaction for txn_id",
		TxnID:   txnID,
	}
}

// NewInvalidRespError reports a coherence-state value the receiving
// context does not accept (e.g. SnpResp with a state other than I).
func NewInvalidRespError(txnID uint32, context, resp string) *BridgeError {
	return &BridgeError{
		Code:    ErrInvalidResp,
		Message: fmt.Sprintf("%s: unexpected resp state %s", context, resp),
		TxnID:   txnID,
	}
}

// NewExpectationFailedError marks a testbench expectation as failed.
func NewExpectationFailedError(txnID uint32, name string) *BridgeError {
	return &BridgeError{
		Code:    ErrExpectationFailed,
		Message: fmt.Sprintf("expectation %q failed", name),
		TxnID:   txnID,
	}
}

// NewAssertionFailedError marks a testbench assertion as failed (suite-aborting).
func NewAssertionFailedError(txnID uint32, name string) *BridgeError {
	return &BridgeError{
		Code:    ErrAssertionFailed,
		Message: fmt.Sprintf("assertion %q failed", name),
		TxnID:   txnID,
	}
}
