package bridge

import (
	"github.com/ardent-systems/chitlm/internal/bridgeerr"
	"github.com/ardent-systems/chitlm/internal/protocol/chi"
)

// reqAccess derives the downstream Request's access address and size from
// the payload, per opcode.
//
// A partial no-snoop write describes its span through the byte-enable
// mask: the access starts at the first enabled byte of the line and
// covers the enabled byte count. Every other request uses the payload's
// own address and size. Among those, only write requests are checked
// against transaction_size(size) >= popcount(byte_enable); reads and
// dataless requests are not checked (see isWriteOpcode).
func reqAccess(payload *chi.Payload, op chi.ReqOpcode) (uint64, int, error) {
	if op == chi.ReqWriteNoSnpPtl {
		first := chi.Ctz(payload.ByteEnable)
		if first < 0 {
			return 0, 0, bridgeerr.NewInvalidRespError(0,
				"WRITE_NO_SNP_PTL", "empty byte_enable mask")
		}
		return chi.LineAddress(payload.Address) + uint64(first), chi.PopCount(payload.ByteEnable), nil
	}

	size := chi.TransactionSize(payload.Size)
	if isWriteOpcode(op) && size < chi.PopCount(payload.ByteEnable) {
		return 0, 0, bridgeerr.NewInvalidRespError(0,
			"request access size", "byte_enable covers more bytes than the transaction size")
	}
	return payload.Address, size, nil
}

// isWriteOpcode reports whether op carries write data whose byte_enable
// must fit inside the transaction size. Reads and dataless requests
// leave byte_enable at its all-ones default, so the check does not
// apply to them.
func isWriteOpcode(op chi.ReqOpcode) bool {
	switch op {
	case chi.ReqWriteNoSnpPtl, chi.ReqWriteNoSnpFull, chi.ReqWriteUniqueZero,
		chi.ReqWriteUniqueFull, chi.ReqWriteBackFull, chi.ReqWriteEvictOrEvict:
		return true
	default:
		return false
	}
}

// beatMask computes a per-beat write mask: the payload's byte_enable
// gated by a 32-bit window starting at data_id*16.
func beatMask(byteEnable uint64, dataID uint8) uint64 {
	return byteEnable & (uint64(0xFFFFFFFF) << (uint(dataID) * 16))
}
