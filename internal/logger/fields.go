package logger

import (
	"fmt"
	"log/slog"
)

// Standard field keys for structured logging across the bridge and generator.
const (
	KeyTxnID      = "txn_id"
	KeyLPID       = "lpid"
	KeyChannel    = "channel"
	KeyOpcode     = "opcode"
	KeyResp       = "resp"
	KeyAddress    = "address"
	KeyDataID     = "data_id"
	KeyBeatCount  = "beat_count"
	KeyRetry      = "retry"
	KeyError      = "error"
	KeyTick       = "tick"
	KeyAction     = "action"
	KeySuite      = "suite_id"
	KeyPassed     = "passed"
)

// TxnID returns a slog.Attr for the logical transaction id.
func TxnID(id uint32) slog.Attr { return slog.Any(KeyTxnID, id) }

// LPID returns a slog.Attr for the logical processor id.
func LPID(id uint32) slog.Attr { return slog.Any(KeyLPID, id) }

// Channel returns a slog.Attr for the CHI channel (REQ/DAT/RSP/SNP).
func Channel(c string) slog.Attr { return slog.String(KeyChannel, c) }

// Opcode returns a slog.Attr for an opcode name.
func Opcode(name string) slog.Attr { return slog.String(KeyOpcode, name) }

// Resp returns a slog.Attr for a coherence-state name.
func Resp(name string) slog.Attr { return slog.String(KeyResp, name) }

// Address returns a slog.Attr for a 64-bit address, formatted in hex.
func Address(addr uint64) slog.Attr { return slog.String(KeyAddress, fmt.Sprintf("%#x", addr)) }

// DataID returns a slog.Attr for a data beat identifier.
func DataID(id uint8) slog.Attr { return slog.Any(KeyDataID, id) }

// BeatCount returns a slog.Attr for the number of data beats processed so far.
func BeatCount(n int) slog.Attr { return slog.Int(KeyBeatCount, n) }

// Retry returns a slog.Attr marking a retry-related event.
func Retry(v bool) slog.Attr { return slog.Bool(KeyRetry, v) }

// Err returns a slog.Attr for an error, or a zero Attr if err is nil.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Tick returns a slog.Attr for a simulated tick value.
func Tick(t int64) slog.Attr { return slog.Int64(KeyTick, t) }

// Action returns a slog.Attr naming a generator action kind.
func Action(kind string) slog.Attr { return slog.String(KeyAction, kind) }

// Suite returns a slog.Attr for a generator suite/run identifier.
func Suite(id string) slog.Attr { return slog.String(KeySuite, id) }

// Passed returns a slog.Attr for a pass/fail outcome.
func Passed(v bool) slog.Attr { return slog.Bool(KeyPassed, v) }
