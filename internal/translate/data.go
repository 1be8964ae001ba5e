package translate

import (
	"github.com/ardent-systems/chitlm/internal/bridgeerr"
	"github.com/ardent-systems/chitlm/internal/protocol/chi"
	"github.com/ardent-systems/chitlm/internal/protocol/coherence"
)

// cbWrDataTable maps COPY_BACK_WR_DATA's resp qualifier to an internal
// data type; any resp outside this table is rejected.
var cbWrDataTable = map[chi.RespState]coherence.Type{
	chi.RespI:    coherence.TypeCBWrDataI,
	chi.RespUC:   coherence.TypeCBWrDataUC,
	chi.RespSC:   coherence.TypeCBWrDataSC,
	chi.RespUDPD: coherence.TypeCBWrDataUDPD,
}

// snpRespDataTable maps SNP_RESP_DATA's resp qualifier to an internal
// data type. UC_PD and SD_PD fold onto the UC and SD variants
// respectively.
var snpRespDataTable = map[chi.RespState]coherence.Type{
	chi.RespI:    coherence.TypeSnpRespDataI,
	chi.RespSC:   coherence.TypeSnpRespDataSC,
	chi.RespUC:   coherence.TypeSnpRespDataUC,
	chi.RespUCPD: coherence.TypeSnpRespDataUC, // folds to UC
	chi.RespSD:   coherence.TypeSnpRespDataSD,
	chi.RespSDPD: coherence.TypeSnpRespDataSD, // folds to SD
	chi.RespIPD:  coherence.TypeSnpRespDataIPD,
	chi.RespSCPD: coherence.TypeSnpRespDataSCPD,
}

// DataToInternal maps a CHI DAT-channel opcode, qualified by the current
// coherence state where the opcode requires it, to an internal data type.
func DataToInternal(op chi.DatOpcode, resp chi.RespState) (coherence.Type, error) {
	switch op {
	case chi.DatOpcodeNCBWrData:
		return coherence.TypeNCBWrData, nil
	case chi.DatOpcodeCBWrData:
		t, ok := cbWrDataTable[resp]
		if !ok {
			return 0, bridgeerr.NewInvalidRespError(0, "CHI->internal COPY_BACK_WR_DATA", resp.String())
		}
		return t, nil
	case chi.DatOpcodeSnpRespData:
		t, ok := snpRespDataTable[resp]
		if !ok {
			return 0, bridgeerr.NewInvalidRespError(0, "CHI->internal SNP_RESP_DATA", resp.String())
		}
		return t, nil
	default:
		return 0, bridgeerr.NewUnsupportedOpcodeError("CHI->internal DAT", op.String())
	}
}

// RespToInternal maps a CHI RSP-channel opcode, qualified by resp where
// required, to an internal response/data type.
//
// COMP_ACK is state-independent. SNP_RESP only accepts RESP_I; any other
// state fails with ErrInvalidResp.
func RespToInternal(op chi.RspOpcode, resp chi.RespState) (coherence.Type, error) {
	switch op {
	case chi.RspOpcodeCompAck:
		return coherence.TypeCompAck, nil
	case chi.RspOpcodeSnpResp:
		if resp != chi.RespI {
			return 0, bridgeerr.NewInvalidRespError(0, "CHI->internal SNP_RESP", resp.String())
		}
		return coherence.TypeSnpRespI, nil
	default:
		return 0, bridgeerr.NewUnsupportedOpcodeError("CHI->internal RSP", op.String())
	}
}
