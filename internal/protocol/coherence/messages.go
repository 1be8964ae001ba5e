package coherence

// Destination identifies a downstream machine (responder or requestor),
// left opaque here since routing/topology is outside this bridge's scope.
type Destination uint32

// Request is the internal message the controller sends downstream when
// it accepts an upstream CHI REQ beat.
type Request struct {
	Addr        uint64
	AccAddr     uint64
	AccSize     int
	Type        Type
	AllowRetry  bool
	TxnID       uint32 // logical, not wire-truncated
	NS          bool
	Destination Destination
}

// Data is the internal message carrying one beat of cache-line data, in
// either direction (controller -> downstream on writes, downstream ->
// controller on reads and snoop responses).
type Data struct {
	Addr     uint64
	Type     Type
	TxnID    uint32
	DataBlk  []byte
	BitMask  uint64
	Resp     Type // only meaningful for inbound Comp/SnpRespData-family types
	DestData Destination
}

// Response is the internal message carrying a RSP-channel completion,
// credit grant, or retry.
type Response struct {
	Type        Type
	TxnID       uint32
	DBID        uint32
	Destination Destination
}
