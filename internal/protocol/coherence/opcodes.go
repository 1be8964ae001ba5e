// Package coherence models the internal, message-based coherence protocol
// downstream of the bridge: three typed messages (Request, Data, Response)
// carrying an internal opcode enum that the translator maps CHI opcodes
// onto and back. Concrete wire framing for these messages is an external
// collaborator; this package only holds their in-memory shape.
package coherence

// Type is the internal opcode enum a Request, Data, or Response message
// carries. Unlike the CHI-side opcodes, these values are per-message-kind
// without channel qualification, since coherence.Request/Data/Response are
// already distinct Go types.
type Type uint8

const (
	// Request (REQ-derived) types.
	TypeReadShared Type = iota
	TypeReadOnce
	TypeReadNoSnp
	TypeReadUnique
	TypeReadNotSharedDirty
	TypeMakeReadUnique
	TypeCleanUnique
	TypeEvict
	TypeStashOnceShared
	TypeStashOnceUnique
	TypeWriteUniquePtl
	TypeWriteUniqueFull
	TypeWriteUniqueZero
	TypeWriteBackFull
	TypeWriteEvictFull

	// Data types.
	TypeNCBWrData
	TypeCBWrDataI
	TypeCBWrDataUC
	TypeCBWrDataSC
	TypeCBWrDataUDPD
	TypeSnpRespDataI
	TypeSnpRespDataSC
	TypeSnpRespDataUC
	TypeSnpRespDataSD
	TypeSnpRespDataIPD
	TypeSnpRespDataSCPD
	TypeCompDataUC
	TypeCompDataI
	TypeCompDataUDPD
	TypeDataSepRespUC
	TypeSnpRespDataFwded

	// Response types.
	TypeCompAck
	TypeSnpRespI
	TypeCompI
	TypeCompUC
	TypeCompUDPD
	TypeCompDBIDResp
	TypeDBIDResp
	TypeRetryAck
	TypePCrdGrant

	// Snoop types.
	TypeSnpOnce
	TypeSnpOnceFwd
	TypeSnpShared
	TypeSnpUnique
	TypeSnpCleanInvalid
)

var typeNames = map[Type]string{
	TypeReadShared:         "ReadShared",
	TypeReadOnce:           "ReadOnce",
	TypeReadNoSnp:          "ReadNoSnp",
	TypeReadUnique:         "ReadUnique",
	TypeReadNotSharedDirty: "ReadNotSharedDirty",
	TypeMakeReadUnique:     "MakeReadUnique",
	TypeCleanUnique:        "CleanUnique",
	TypeEvict:              "Evict",
	TypeStashOnceShared:    "StashOnceShared",
	TypeStashOnceUnique:    "StashOnceUnique",
	TypeWriteUniquePtl:     "WriteUniquePtl",
	TypeWriteUniqueFull:    "WriteUniqueFull",
	TypeWriteUniqueZero:    "WriteUniqueZero",
	TypeWriteBackFull:      "WriteBackFull",
	TypeWriteEvictFull:     "WriteEvictFull",

	TypeNCBWrData:        "NCBWrData",
	TypeCBWrDataI:        "CBWrData_I",
	TypeCBWrDataUC:       "CBWrData_UC",
	TypeCBWrDataSC:       "CBWrData_SC",
	TypeCBWrDataUDPD:     "CBWrData_UD_PD",
	TypeSnpRespDataI:     "SnpRespData_I",
	TypeSnpRespDataSC:    "SnpRespData_SC",
	TypeSnpRespDataUC:    "SnpRespData_UC",
	TypeSnpRespDataSD:    "SnpRespData_SD",
	TypeSnpRespDataIPD:   "SnpRespData_I_PD",
	TypeSnpRespDataSCPD:  "SnpRespData_SC_PD",
	TypeCompDataUC:       "CompData_UC",
	TypeCompDataI:        "CompData_I",
	TypeCompDataUDPD:     "CompData_UD_PD",
	TypeDataSepRespUC:    "DataSepResp_UC",
	TypeSnpRespDataFwded: "SnpRespData_Fwded",

	TypeCompAck:      "CompAck",
	TypeSnpRespI:     "SnpResp_I",
	TypeCompI:        "Comp_I",
	TypeCompUC:       "Comp_UC",
	TypeCompUDPD:     "Comp_UD_PD",
	TypeCompDBIDResp: "CompDBIDResp",
	TypeDBIDResp:     "DBIDResp",
	TypeRetryAck:     "RetryAck",
	TypePCrdGrant:    "PCrdGrant",

	TypeSnpOnce:         "SnpOnce",
	TypeSnpOnceFwd:      "SnpOnceFwd",
	TypeSnpShared:       "SnpShared",
	TypeSnpUnique:       "SnpUnique",
	TypeSnpCleanInvalid: "SnpCleanInvalid",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "UNKNOWN_TYPE"
}

// IsComp reports whether t is one of the Comp-class response types that
// satisfy a write transaction's recvComp flag.
func (t Type) IsComp() bool {
	switch t {
	case TypeCompI, TypeCompUC, TypeCompUDPD, TypeCompDBIDResp:
		return true
	default:
		return false
	}
}

// IsDBID reports whether t is one of the DBID-class response types that
// satisfy a write transaction's recvDBID flag.
func (t Type) IsDBID() bool {
	switch t {
	case TypeDBIDResp, TypeCompDBIDResp:
		return true
	default:
		return false
	}
}
