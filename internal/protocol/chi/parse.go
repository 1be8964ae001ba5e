package chi

import "fmt"

// Parse helpers for the names the String methods emit. Scenario files and
// config refer to opcodes and states by these names; anything outside the
// supported set is rejected, matching the translator's
// total-with-explicit-reject posture.

var reqOpcodesByName = func() map[string]ReqOpcode {
	m := make(map[string]ReqOpcode, len(reqOpcodeNames))
	for op, name := range reqOpcodeNames {
		m[name] = op
	}
	return m
}()

// ParseReqOpcode resolves a REQ opcode by its wire name (e.g. "READ_SHARED").
func ParseReqOpcode(name string) (ReqOpcode, error) {
	op, ok := reqOpcodesByName[name]
	if !ok {
		return 0, fmt.Errorf("unknown REQ opcode %q", name)
	}
	return op, nil
}

// ParseChannel resolves a channel by name (REQ, DAT, RSP, SNP).
func ParseChannel(name string) (Channel, error) {
	switch name {
	case "REQ":
		return ChannelREQ, nil
	case "DAT":
		return ChannelDAT, nil
	case "RSP":
		return ChannelRSP, nil
	case "SNP":
		return ChannelSNP, nil
	default:
		return 0, fmt.Errorf("unknown channel %q", name)
	}
}

// ParseRespState resolves a coherence state by name (I, SC, UC, UD, SD
// and the _PD variants).
func ParseRespState(name string) (RespState, error) {
	for s := RespI; s <= RespSDPD; s++ {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown resp state %q", name)
}

// SizeForBytes returns the Size enum encoding n bytes, which must be a
// power of two between 1 and 64.
func SizeForBytes(n int) (Size, error) {
	for s := Size1; s <= Size64; s++ {
		if 1<<uint(s) == n {
			return s, nil
		}
	}
	return 0, fmt.Errorf("no size encoding for %d bytes", n)
}
