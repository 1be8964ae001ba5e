// Package bridge implements the controller sitting between the CHI
// transaction-level surface and the internal coherence protocol.
// Upstream callers hand it (payload, phase) pairs; it
// translates them into internal Request/Data/Response messages, tracks
// every outstanding transaction in the registry, dispatches inbound
// messages into the per-transaction state machines, and surfaces each
// resulting beat through the upstream callback.
//
// Error posture: the send paths return errors (the caller is a
// programming error the CLI turns fatal), except that SendMsg panics on
// an SNP-channel phase, while the receive paths panic —
// an inbound message that violates the contract means the downstream
// protocol's state machine is already past recovery.
package bridge

import (
	"github.com/ardent-systems/chitlm/internal/bridgeerr"
	"github.com/ardent-systems/chitlm/internal/bufpool"
	"github.com/ardent-systems/chitlm/internal/logger"
	"github.com/ardent-systems/chitlm/internal/protocol/chi"
	"github.com/ardent-systems/chitlm/internal/protocol/coherence"
	"github.com/ardent-systems/chitlm/internal/registry"
	"github.com/ardent-systems/chitlm/internal/translate"
)

// Controller bridges upstream CHI submissions to the downstream coherence
// protocol and back. It is single-threaded by the scheduling model:
// all methods run on the event loop, so the registry needs no locking.
type Controller struct {
	downstream Downstream
	mapper     AddressMapper
	reg        *registry.Registry
	pool       *bufpool.Pool
	metrics    *Metrics

	bw registry.BW
}

// New creates a Controller. The upstream callback starts unset; wire it
// with SetBW before the first inbound message arrives.
func New(downstream Downstream, mapper AddressMapper, metrics *Metrics) *Controller {
	return &Controller{
		downstream: downstream,
		mapper:     mapper,
		reg:        registry.New(),
		pool:       bufpool.New(chi.LineSizeBytes),
		metrics:    metrics,
	}
}

// SetBW wires the upstream callback. It is single-assignment: setting it
// twice is a programming error.
func (c *Controller) SetBW(bw registry.BW) {
	if c.bw != nil {
		panic("bridge: upstream callback already set")
	}
	c.bw = bw
}

// Outstanding returns the number of transactions currently in the
// registry.
func (c *Controller) Outstanding() int { return c.reg.Len() }

// OutstandingIDs returns the logical txn_ids still in the registry, for
// teardown reporting.
func (c *Controller) OutstandingIDs() []uint32 { return c.reg.Outstanding() }

// logicalTxnID forms the registry key: the wire txn_id namespaced by the
// payload's logical processor id.
func logicalTxnID(payload *chi.Payload, phase chi.Phase) uint32 {
	return chi.WireTxnID(phase.TxnID) + payload.LPID*1024
}

// SendMsg accepts an upstream-originated beat and dispatches by channel.
// The controller never emits on the SNP channel; handing it an SNP phase
// is a programming error.
func (c *Controller) SendMsg(payload *chi.Payload, phase chi.Phase) error {
	switch phase.Channel {
	case chi.ChannelREQ:
		return c.sendRequest(payload, phase)
	case chi.ChannelDAT:
		return c.sendData(payload, phase)
	case chi.ChannelRSP:
		return c.sendResponse(payload, phase)
	default:
		panic(bridgeerr.NewUnsupportedOpcodeError("upstream send", phase.Channel.String()))
	}
}

// sendRequest translates and emits an internal Request, then inserts the
// new transaction into the registry. Emission precedes insertion: an
// entry exists exactly from the moment the REQ is on the wire.
func (c *Controller) sendRequest(payload *chi.Payload, phase chi.Phase) error {
	t, err := translate.ReqToInternal(phase.ReqOpcode)
	if err != nil {
		return err
	}
	accAddr, accSize, err := reqAccess(payload, phase.ReqOpcode)
	if err != nil {
		return err
	}

	logical := logicalTxnID(payload, phase)
	msg := coherence.Request{
		Addr:        chi.LineAddress(payload.Address),
		AccAddr:     accAddr,
		AccSize:     accSize,
		Type:        t,
		AllowRetry:  phase.AllowRetry,
		TxnID:       logical,
		NS:          payload.NS,
		Destination: c.mapper.MapAddress(payload.Address),
	}
	c.downstream.SendRequest(msg)

	txn, err := registry.NewTransaction(phase.ReqOpcode, payload, phase, payload.LPID, logical)
	if err != nil {
		return err
	}
	if err := c.reg.Insert(logical, txn); err != nil {
		return err
	}
	c.metrics.RecordRequest(txn.Kind().String())

	logger.Debug("request sent downstream",
		logger.TxnID(logical), logger.Opcode(phase.ReqOpcode.String()),
		logger.Address(payload.Address), logger.LPID(payload.LPID))
	return nil
}

// sendData translates and emits one internal Data beat carrying the
// payload's bytes, gated by the per-beat write mask.
func (c *Controller) sendData(payload *chi.Payload, phase chi.Phase) error {
	t, err := translate.DataToInternal(phase.DatOpcode, phase.Resp)
	if err != nil {
		return err
	}

	blk := make([]byte, len(payload.Data))
	copy(blk, payload.Data)

	msg := coherence.Data{
		Addr:     chi.LineAddress(payload.Address),
		Type:     t,
		TxnID:    logicalTxnID(payload, phase),
		DataBlk:  blk,
		BitMask:  beatMask(payload.ByteEnable, phase.DataID),
		DestData: c.mapper.MapAddress(payload.Address),
	}
	c.downstream.SendData(msg)

	logger.Debug("data sent downstream",
		logger.TxnID(msg.TxnID), logger.Opcode(phase.DatOpcode.String()),
		logger.DataID(phase.DataID))
	return nil
}

// sendResponse translates and emits an internal Response.
func (c *Controller) sendResponse(payload *chi.Payload, phase chi.Phase) error {
	t, err := translate.RespToInternal(phase.RspOpcode, phase.Resp)
	if err != nil {
		return err
	}

	msg := coherence.Response{
		Type:        t,
		TxnID:       logicalTxnID(payload, phase),
		DBID:        phase.DBID,
		Destination: c.mapper.MapAddress(payload.Address),
	}
	c.downstream.SendResponse(msg)

	logger.Debug("response sent downstream",
		logger.TxnID(msg.TxnID), logger.Opcode(phase.RspOpcode.String()))
	return nil
}

// RecvRequest is unused in this bridge: it plays the upstream RN-F role
// only, so the downstream side never sends it a Request.
func (c *Controller) RecvRequest(msg coherence.Request) {
	panic(bridgeerr.NewUnsupportedOpcodeError("downstream request", msg.Type.String()))
}

// RecvSnoop surfaces a downstream snoop upstream: it constructs a
// fresh line-sized Payload from the message and a SNP-channel phase, and
// invokes the upstream callback. No registry entry is created; the
// upstream holder must Acquire the payload if it keeps it past the
// callback (snoops borrow, they do not donate a reference).
func (c *Controller) RecvSnoop(msg coherence.Request) {
	op, err := translate.SnoopToCHI(msg.Type)
	if err != nil {
		panic(err)
	}

	size, err := chi.SizeForBytes(chi.LineSizeBytes)
	if err != nil {
		panic(err)
	}
	payload := chi.NewPayload(msg.Addr, size, c.pool.Get(), c.pool.Put)
	payload.NS = msg.NS

	phase := chi.Phase{
		Channel:   chi.ChannelSNP,
		SnpOpcode: op,
		TxnID:     chi.WireTxnID(msg.TxnID),
	}

	c.metrics.RecordSnoopForwarded()
	logger.Debug("snoop forwarded upstream",
		logger.TxnID(msg.TxnID), logger.Opcode(op.String()), logger.Address(msg.Addr))

	c.bw(payload, phase)
	payload.Release()
}

// RecvResponse dispatches an inbound Response. Credit grants are not
// keyed by a transaction and bypass the registry entirely; every
// other response must find its transaction or the downstream protocol
// broke the contract.
func (c *Controller) RecvResponse(msg coherence.Response) {
	if msg.Type == coherence.TypePCrdGrant {
		c.metrics.RecordCreditGrant()
		logger.Debug("credit grant surfaced upstream", logger.TxnID(msg.TxnID))
		c.bw(nil, chi.Phase{
			Channel:   chi.ChannelRSP,
			RspOpcode: chi.RspOpcodePCrdGrant,
			TxnID:     chi.WireTxnID(msg.TxnID),
			PCrdType:  chi.DefaultPCrdType,
		})
		return
	}

	txn, ok := c.reg.Lookup(msg.TxnID)
	if !ok {
		panic(bridgeerr.NewUnknownTransactionError(msg.TxnID))
	}

	if msg.Type == coherence.TypeRetryAck {
		c.metrics.RecordRetry()
		logger.Info("transaction retried by downstream",
			logger.TxnID(msg.TxnID), logger.Retry(true))
	}

	res, err := txn.HandleResponse(msg, c.bw)
	if err != nil {
		panic(err)
	}
	if res.Terminal {
		c.finish(msg.TxnID, txn)
	}
}

// RecvData dispatches an inbound Data beat. A completing read beat may
// additionally require a synthesized CompAck, sent before the entry is
// erased.
func (c *Controller) RecvData(msg coherence.Data) {
	txn, ok := c.reg.Lookup(msg.TxnID)
	if !ok {
		panic(bridgeerr.NewUnknownTransactionError(msg.TxnID))
	}
	c.metrics.RecordDataBeat()

	res, err := txn.HandleData(msg, c.bw)
	if err != nil {
		panic(err)
	}
	if res.NeedsCompAck {
		c.sendCompAck(msg.TxnID, txn)
	}
	if res.Terminal {
		c.finish(msg.TxnID, txn)
	}
}

// sendCompAck synthesizes the completion acknowledgement the upstream
// client opted out of sending.
func (c *Controller) sendCompAck(txnID uint32, txn registry.Transaction) {
	c.downstream.SendResponse(coherence.Response{
		Type:        coherence.TypeCompAck,
		TxnID:       txnID,
		Destination: c.mapper.MapAddress(txn.Payload().Address),
	})
	c.metrics.RecordCompAckSynthesized()
	logger.Debug("implicit CompAck synthesized", logger.TxnID(txnID))
}

// finish erases a terminal transaction from the registry.
func (c *Controller) finish(txnID uint32, txn registry.Transaction) {
	c.metrics.RecordTerminal(txn.Kind().String())
	logger.Info("transaction terminal",
		logger.TxnID(txnID), "kind", txn.Kind().String())
	c.reg.Erase(txnID)
}
