package bridge

import "github.com/ardent-systems/chitlm/internal/protocol/coherence"

// Downstream is the abstract protocol surface the controller emits
// internal messages into: three send primitives. The concrete wire
// encoding and routing behind them are external collaborators.
type Downstream interface {
	SendRequest(msg coherence.Request)
	SendData(msg coherence.Data)
	SendResponse(msg coherence.Response)
}

// AddressMapper resolves a byte address to the downstream machine
// responsible for it. Address-range discovery is outside this bridge's
// scope, so the mapping is injected at construction.
type AddressMapper interface {
	MapAddress(addr uint64) coherence.Destination
}

// SingleDestination is an AddressMapper sending every address to one
// machine. It covers the single-home topologies the testbench runs
// against.
type SingleDestination coherence.Destination

// MapAddress implements AddressMapper.
func (d SingleDestination) MapAddress(addr uint64) coherence.Destination {
	return coherence.Destination(d)
}
