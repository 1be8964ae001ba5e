// Package translate implements the bidirectional CHI <-> internal opcode
// and coherence-state mappings. Every function here is
// total-with-explicit-reject: an opcode or qualifier outside the supported
// set returns a *bridgeerr.BridgeError with code ErrUnsupportedOpcode (or
// ErrInvalidResp for a bad resp qualifier) rather than silently passing a
// value through.
package translate

import (
	"github.com/ardent-systems/chitlm/internal/bridgeerr"
	"github.com/ardent-systems/chitlm/internal/protocol/chi"
	"github.com/ardent-systems/chitlm/internal/protocol/coherence"
)

// reqTable is the authoritative CHI REQ opcode -> internal type mapping.
// Several CHI opcodes collapse onto the same internal type (READ_CLEAN
// onto ReadOnce, MAKE_UNIQUE onto CleanUnique, and so on) because no
// dedicated internal type exists for them yet; a stricter mapping would
// reject these until one does.
var reqTable = map[chi.ReqOpcode]coherence.Type{
	chi.ReqReadShared:         coherence.TypeReadShared,
	chi.ReqReadOnce:           coherence.TypeReadOnce,
	chi.ReqReadClean:          coherence.TypeReadOnce, // collapse, see doc above
	chi.ReqReadUnique:         coherence.TypeReadUnique,
	chi.ReqReadPreferUnique:   coherence.TypeReadUnique, // collapse
	chi.ReqMakeReadUnique:     coherence.TypeMakeReadUnique,
	chi.ReqReadNotSharedDirty: coherence.TypeReadNotSharedDirty,
	chi.ReqReadNoSnp:          coherence.TypeReadNoSnp,
	chi.ReqCleanUnique:        coherence.TypeCleanUnique,
	chi.ReqMakeUnique:         coherence.TypeCleanUnique, // collapse
	chi.ReqEvict:              coherence.TypeEvict,
	chi.ReqStashOnceSepShared: coherence.TypeStashOnceShared,
	chi.ReqStashOnceSepUnique: coherence.TypeStashOnceUnique,
	chi.ReqWriteNoSnpPtl:      coherence.TypeWriteUniquePtl,
	chi.ReqWriteNoSnpFull:     coherence.TypeWriteUniqueFull,
	chi.ReqWriteUniqueFull:    coherence.TypeWriteUniqueFull, // collapse
	chi.ReqWriteUniqueZero:    coherence.TypeWriteUniqueZero,
	chi.ReqWriteBackFull:      coherence.TypeWriteBackFull,
	chi.ReqWriteEvictOrEvict:  coherence.TypeWriteEvictFull,
}

// ReqToInternal maps a CHI REQ opcode to its internal message type.
func ReqToInternal(op chi.ReqOpcode) (coherence.Type, error) {
	t, ok := reqTable[op]
	if !ok {
		return 0, bridgeerr.NewUnsupportedOpcodeError("CHI->internal REQ", op.String())
	}
	return t, nil
}
