package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardent-systems/chitlm/internal/bufpool"
	"github.com/ardent-systems/chitlm/internal/protocol/chi"
	"github.com/ardent-systems/chitlm/internal/sim"
)

const sampleScenario = `
name: read-then-write
transactions:
  - at: 100
    req: READ_SHARED
    addr: 0x1000
    size: 64
    txn_id: 7
    exp_comp_ack: true
    expect:
      - channel: DAT
        resp: UC
        wait: true
      - channel: DAT
        resp: UC
  - at: 200
    req: WRITE_UNIQUE_FULL
    addr: 0x2000
    size: 64
    txn_id: 42
    expect:
      - channel: RSP
        opcode: COMP_DBID_RESP
`

func TestParseScenario(t *testing.T) {
	s, err := ParseScenario([]byte(sampleScenario))
	require.NoError(t, err)

	assert.Equal(t, "read-then-write", s.Name)
	require.Len(t, s.Transactions, 2)

	rd := s.Transactions[0]
	assert.Equal(t, uint64(100), rd.At)
	assert.Equal(t, "READ_SHARED", rd.Req)
	assert.Equal(t, uint64(0x1000), rd.Addr)
	assert.True(t, rd.ExpCompAck)
	require.Len(t, rd.Expect, 2)
	assert.True(t, rd.Expect[0].Wait)

	wr := s.Transactions[1]
	assert.Equal(t, "WRITE_UNIQUE_FULL", wr.Req)
	assert.Equal(t, "COMP_DBID_RESP", wr.Expect[0].Opcode)
}

func TestParseScenario_Invalid(t *testing.T) {
	_, err := ParseScenario([]byte("name: empty\ntransactions: []"))
	assert.Error(t, err, "a scenario with no transactions is rejected")

	_, err = ParseScenario([]byte("transactions: ["))
	assert.Error(t, err)
}

func TestScenarioBuild_SchedulesAndChecks(t *testing.T) {
	s, err := ParseScenario([]byte(sampleScenario))
	require.NoError(t, err)

	inj := &fakeInjector{}
	sched := sim.New()
	g := New(inj, sched, nil)
	pool := bufpool.New(chi.LineSizeBytes)

	require.NoError(t, s.Build(g, pool))

	// Simulate the bridge's upstream beats for the read at tick 150 and
	// the write response at tick 250.
	datBeat := chi.Phase{Channel: chi.ChannelDAT, DatOpcode: chi.DatOpcodeCompData, Resp: chi.RespUC, TxnID: 7}
	sched.ScheduleAt(150, func() { g.Recv(nil, datBeat) })
	sched.ScheduleAt(160, func() { g.Recv(nil, datBeat) })
	rsp := chi.Phase{Channel: chi.ChannelRSP, RspOpcode: chi.RspOpcodeCompDBIDResp, TxnID: 42}
	sched.ScheduleAt(250, func() { g.Recv(nil, rsp) })

	sched.Run()

	require.Len(t, inj.phases, 2)
	assert.Equal(t, chi.ReqReadShared, inj.phases[0].ReqOpcode)
	assert.Equal(t, chi.ReqWriteUniqueFull, inj.phases[1].ReqOpcode)
	assert.False(t, g.Failed(), "all expectation chains drained and passed")
}

func TestScenarioBuild_RejectsUnknownOpcode(t *testing.T) {
	s := &Scenario{Transactions: []ScenarioTxn{{Req: "BOGUS"}}}
	g := New(&fakeInjector{}, sim.New(), nil)
	assert.Error(t, s.Build(g, bufpool.New(chi.LineSizeBytes)))
}
