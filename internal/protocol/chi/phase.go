package chi

// Phase is a value object describing the current CHI beat: it is copied,
// never shared.
// Each transaction stores the Phase of its most recent observed beat.
type Phase struct {
	Channel Channel

	// Opcode carries whichever channel-specific opcode applies; callers
	// read the field matching Channel. Unused fields are left at their
	// zero value.
	ReqOpcode ReqOpcode
	DatOpcode DatOpcode
	RspOpcode RspOpcode
	SnpOpcode SnpOpcode

	TxnID uint32 // 12-bit on the wire; stored and compared modulo 1024
	Resp  RespState

	DBID   uint32
	DataID uint8

	PCrdType PCrdType

	ExpCompAck bool
	AllowRetry bool
	LCrd       bool
	SnpAttr    bool
	DoDWT      bool

	Order   Order
	RespErr RespErr
	TagOp   TagOp
	QoS     uint8
	CBusy   uint8
}

// WireTxnID returns the 12-bit txn_id as carried on the wire: the
// logical txn_id modulo 1024.
func WireTxnID(logicalTxnID uint32) uint32 {
	return logicalTxnID % 1024
}
