package translate

import (
	"github.com/ardent-systems/chitlm/internal/bridgeerr"
	"github.com/ardent-systems/chitlm/internal/protocol/chi"
	"github.com/ardent-systems/chitlm/internal/protocol/coherence"
)

// datFamily describes one internal data type's CHI projection: the wire
// opcode byte for its family, and the resp state it carries.
type datFamily struct {
	opcode chi.DatOpcode
	resp   chi.RespState
}

var dataToCHITable = map[coherence.Type]datFamily{
	coherence.TypeCompDataI:     {chi.DatOpcodeCompData, chi.RespI},
	coherence.TypeCompDataUC:    {chi.DatOpcodeCompData, chi.RespUC},
	coherence.TypeCompDataUDPD:  {chi.DatOpcodeCompData, chi.RespUDPD},
	coherence.TypeDataSepRespUC: {chi.DatOpcodeDataSepResp, chi.RespUC},

	coherence.TypeCBWrDataI:    {chi.DatOpcodeCBWrData, chi.RespI},
	coherence.TypeCBWrDataUC:   {chi.DatOpcodeCBWrData, chi.RespUC},
	coherence.TypeCBWrDataSC:   {chi.DatOpcodeCBWrData, chi.RespSC},
	coherence.TypeCBWrDataUDPD: {chi.DatOpcodeCBWrData, chi.RespUDPD},

	coherence.TypeNCBWrData: {chi.DatOpcodeNCBWrData, chi.RespI},

	coherence.TypeSnpRespDataI:    {chi.DatOpcodeSnpRespData, chi.RespI},
	coherence.TypeSnpRespDataSC:   {chi.DatOpcodeSnpRespData, chi.RespSC},
	coherence.TypeSnpRespDataUC:   {chi.DatOpcodeSnpRespData, chi.RespUC},
	coherence.TypeSnpRespDataSD:   {chi.DatOpcodeSnpRespData, chi.RespSD},
	coherence.TypeSnpRespDataIPD:  {chi.DatOpcodeSnpRespData, chi.RespIPD},
	coherence.TypeSnpRespDataSCPD: {chi.DatOpcodeSnpRespData, chi.RespSCPD},

	coherence.TypeSnpRespDataFwded: {chi.DatOpcodeSnpRespDataFwded, chi.RespI},
}

// DatResp projects an internal data type back to the coherence-state it
// carries on the CHI side.
func DatResp(t coherence.Type) (chi.RespState, error) {
	f, ok := dataToCHITable[t]
	if !ok {
		return 0, bridgeerr.NewUnsupportedOpcodeError("internal->CHI DAT resp", t.String())
	}
	return f.resp, nil
}

// DataToCHI maps an internal data type to its CHI DAT-channel opcode and
// resp state.
func DataToCHI(t coherence.Type) (chi.DatOpcode, chi.RespState, error) {
	f, ok := dataToCHITable[t]
	if !ok {
		return 0, 0, bridgeerr.NewUnsupportedOpcodeError("internal->CHI DAT", t.String())
	}
	return f.opcode, f.resp, nil
}

// rspFamily describes one internal response type's CHI projection.
type rspFamily struct {
	opcode chi.RspOpcode
	resp   chi.RespState
}

var respToCHITable = map[coherence.Type]rspFamily{
	coherence.TypeCompI:    {chi.RspOpcodeComp, chi.RespI},
	coherence.TypeCompUC:   {chi.RspOpcodeComp, chi.RespUC},
	coherence.TypeCompUDPD: {chi.RspOpcodeComp, chi.RespUDPD},

	coherence.TypeCompDBIDResp: {chi.RspOpcodeCompDBIDResp, chi.RespI},
	coherence.TypeDBIDResp:     {chi.RspOpcodeDBIDResp, chi.RespI},
	coherence.TypeRetryAck:     {chi.RspOpcodeRetryAck, chi.RespI},
	coherence.TypeCompAck:      {chi.RspOpcodeCompAck, chi.RespI},
	coherence.TypePCrdGrant:    {chi.RspOpcodePCrdGrant, chi.RespI},
}

// RspResp projects an internal response type back to the coherence-state
// it carries on the CHI side.
func RspResp(t coherence.Type) (chi.RespState, error) {
	f, ok := respToCHITable[t]
	if !ok {
		return 0, bridgeerr.NewUnsupportedOpcodeError("internal->CHI RSP resp", t.String())
	}
	return f.resp, nil
}

// RespToCHI maps an internal response type to its CHI RSP-channel opcode
// and resp state.
func RespToCHI(t coherence.Type) (chi.RspOpcode, chi.RespState, error) {
	f, ok := respToCHITable[t]
	if !ok {
		return 0, 0, bridgeerr.NewUnsupportedOpcodeError("internal->CHI RSP", t.String())
	}
	return f.opcode, f.resp, nil
}

// snoopToCHITable is the CHI<->internal snoop table.
var snoopToCHITable = map[coherence.Type]chi.SnpOpcode{
	coherence.TypeSnpOnce:         chi.SnpOpcodeSnpOnce,
	coherence.TypeSnpOnceFwd:      chi.SnpOpcodeSnpOnceFwd,
	coherence.TypeSnpShared:       chi.SnpOpcodeSnpShared,
	coherence.TypeSnpUnique:       chi.SnpOpcodeSnpUnique,
	coherence.TypeSnpCleanInvalid: chi.SnpOpcodeSnpCleanInvalid,
}

var chiToSnoopTable = func() map[chi.SnpOpcode]coherence.Type {
	m := make(map[chi.SnpOpcode]coherence.Type, len(snoopToCHITable))
	for t, op := range snoopToCHITable {
		m[op] = t
	}
	return m
}()

// SnoopToCHI maps an internal snoop type to its CHI SNP-channel opcode.
func SnoopToCHI(t coherence.Type) (chi.SnpOpcode, error) {
	op, ok := snoopToCHITable[t]
	if !ok {
		return 0, bridgeerr.NewUnsupportedOpcodeError("internal->CHI SNP", t.String())
	}
	return op, nil
}

// CHIToSnoop maps a CHI SNP-channel opcode to its internal snoop type.
func CHIToSnoop(op chi.SnpOpcode) (coherence.Type, error) {
	t, ok := chiToSnoopTable[op]
	if !ok {
		return 0, bridgeerr.NewUnsupportedOpcodeError("CHI->internal SNP", op.String())
	}
	return t, nil
}
