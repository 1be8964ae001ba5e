package generator

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ardent-systems/chitlm/internal/bufpool"
	"github.com/ardent-systems/chitlm/internal/protocol/chi"
)

// Scenario is a declarative description of a testbench run: which
// transactions to inject at which ticks, and the ordered expectation
// chain to run against each transaction's upstream beats.
type Scenario struct {
	Name         string        `yaml:"name"`
	Transactions []ScenarioTxn `yaml:"transactions"`
}

// ScenarioTxn describes one injected transaction.
type ScenarioTxn struct {
	// At is the simulated tick the injection fires on.
	At uint64 `yaml:"at"`

	// Req is the REQ opcode by wire name, e.g. "READ_SHARED".
	Req string `yaml:"req"`

	Addr       uint64 `yaml:"addr"`
	SizeBytes  int    `yaml:"size"`
	TxnID      uint32 `yaml:"txn_id"`
	LPID       uint32 `yaml:"lpid"`
	NS         bool   `yaml:"ns"`
	ExpCompAck bool   `yaml:"exp_comp_ack"`
	AllowRetry bool   `yaml:"allow_retry"`

	// ByteEnable is the byte-enable mask; zero means all bytes enabled.
	ByteEnable uint64 `yaml:"byte_enable"`

	// Expect is the ordered expectation chain; each step becomes one
	// expectation action checking the observed phase.
	Expect []ExpectStep `yaml:"expect"`
}

// ExpectStep checks the phase of one observed upstream beat. Empty fields
// are not checked. A step with Wait set suspends the action queue after
// running, resuming on the next beat.
type ExpectStep struct {
	Channel string `yaml:"channel"`
	Opcode  string `yaml:"opcode"`
	Resp    string `yaml:"resp"`
	Wait    bool   `yaml:"wait"`
}

// LoadScenario reads and parses a YAML scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses YAML scenario bytes.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if len(s.Transactions) == 0 {
		return nil, fmt.Errorf("scenario %q has no transactions", s.Name)
	}
	return &s, nil
}

// Build compiles the scenario onto the generator: one payload and
// transaction per entry, expectation chains attached, injections
// scheduled. Buffers come from pool and are released at teardown via the
// payload reference the generator transaction owns.
func (s *Scenario) Build(g *Generator, pool *bufpool.Pool) error {
	for i := range s.Transactions {
		st := &s.Transactions[i]

		op, err := chi.ParseReqOpcode(st.Req)
		if err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}
		sizeBytes := st.SizeBytes
		if sizeBytes == 0 {
			sizeBytes = chi.LineSizeBytes
		}
		size, err := chi.SizeForBytes(sizeBytes)
		if err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}

		payload := chi.NewPayload(st.Addr, size, pool.Get(), pool.Put)
		payload.LPID = st.LPID
		payload.NS = st.NS
		if st.ByteEnable != 0 {
			payload.ByteEnable = st.ByteEnable
		}

		phase := chi.Phase{
			Channel:    chi.ChannelREQ,
			ReqOpcode:  op,
			TxnID:      chi.WireTxnID(st.TxnID),
			ExpCompAck: st.ExpCompAck,
			AllowRetry: st.AllowRetry,
		}

		txn := NewTransaction(payload, phase)
		for j, step := range st.Expect {
			if err := step.attach(txn, fmt.Sprintf("txn[%d].expect[%d]", i, j)); err != nil {
				return err
			}
		}

		g.ScheduleAt(st.At, txn)
	}
	return nil
}

// attach compiles one expectation step into an action on txn.
func (step ExpectStep) attach(txn *Transaction, name string) error {
	var (
		channel    chi.Channel
		hasChannel bool
		resp       chi.RespState
		hasResp    bool
	)
	if step.Channel != "" {
		c, err := chi.ParseChannel(step.Channel)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		channel, hasChannel = c, true
	}
	if step.Resp != "" {
		r, err := chi.ParseRespState(step.Resp)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		resp, hasResp = r, true
	}

	check := func(t *Transaction) (bool, string) {
		ph := t.Phase()
		if hasChannel && ph.Channel != channel {
			return false, fmt.Sprintf("channel %s, want %s", ph.Channel, channel)
		}
		if step.Opcode != "" && opcodeName(ph) != step.Opcode {
			return false, fmt.Sprintf("opcode %s, want %s", opcodeName(ph), step.Opcode)
		}
		if hasResp && ph.Resp != resp {
			return false, fmt.Sprintf("resp %s, want %s", ph.Resp, resp)
		}
		return true, fmt.Sprintf("observed %s/%s", ph.Channel, opcodeName(ph))
	}

	txn.ExpectStr(name, check)
	if step.Wait {
		txn.DoWait(func(*Transaction) {})
	}
	return nil
}

// opcodeName projects the phase's channel-specific opcode to its name.
func opcodeName(ph chi.Phase) string {
	switch ph.Channel {
	case chi.ChannelREQ:
		return ph.ReqOpcode.String()
	case chi.ChannelDAT:
		return ph.DatOpcode.String()
	case chi.ChannelRSP:
		return ph.RspOpcode.String()
	case chi.ChannelSNP:
		return ph.SnpOpcode.String()
	default:
		return "UNKNOWN"
	}
}
