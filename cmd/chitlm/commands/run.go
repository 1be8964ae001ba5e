package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ardent-systems/chitlm/internal/bridge"
	"github.com/ardent-systems/chitlm/internal/bufpool"
	"github.com/ardent-systems/chitlm/internal/downstream"
	"github.com/ardent-systems/chitlm/internal/generator"
	"github.com/ardent-systems/chitlm/internal/httpapi"
	"github.com/ardent-systems/chitlm/internal/logger"
	"github.com/ardent-systems/chitlm/internal/protocol/chi"
	"github.com/ardent-systems/chitlm/internal/sim"
	"github.com/ardent-systems/chitlm/pkg/config"
)

var scenarioFile string

// demoScenario is the built-in traffic run when no scenario file is
// given: a full-line read, a full-line write, and an evict against the
// in-process memory downstream.
const demoScenario = `
name: builtin-demo
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
  - at: 300
    req: EVICT
    addr: 0x2000
    size: 64
    txn_id: 11
    expect:
      - channel: RSP
        opcode: COMP
`

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a traffic scenario against the bridge",
	Long: `Run builds the full in-process stack (generator, bridge controller,
memory downstream), replays a scenario, and exits non-zero if any
expectation chain failed or finished undrained.

Examples:
  # Built-in demo traffic
  chitlm run

  # A scenario file
  chitlm run --scenario read_retry.yaml

  # With the metrics server
  chitlm run --scenario soak.yaml --config chitlm.yaml`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&scenarioFile, "scenario", "", "Path to a YAML scenario file (default: built-in demo)")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(configFile)
	if err != nil {
		return err
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return err
	}

	chi.LineSizeBytes = cfg.Bridge.LineSizeBytes
	chi.BeatSizeBytes = cfg.Bridge.BeatSizeBytes
	chi.BusWidthBits = cfg.Bridge.BeatSizeBytes * 8
	chi.DefaultPCrdType = chi.PCrdType(cfg.Bridge.DefaultPCrdType)

	var scenario *generator.Scenario
	if scenarioFile != "" {
		scenario, err = generator.LoadScenario(scenarioFile)
	} else {
		scenario, err = generator.ParseScenario([]byte(demoScenario))
	}
	if err != nil {
		return err
	}

	promReg := prometheus.NewRegistry()
	var metricsSrv *httpapi.Server
	if cfg.Metrics.Enabled {
		metricsSrv = httpapi.NewServer(cfg.Metrics.Listen, promReg)
		metricsSrv.Start()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsSrv.Shutdown(ctx)
		}()
	}

	sched := sim.New()
	mem := downstream.NewMemory(sched, cfg.Bridge.LatencyTicks)
	ctrl := bridge.New(mem, bridge.SingleDestination(cfg.Bridge.Destination), bridge.NewMetrics(promReg))
	mem.Bind(ctrl)
	gen := generator.New(ctrl, sched, generator.NewMetrics(promReg))
	ctrl.SetBW(gen.Recv)

	pool := bufpool.New(chi.LineSizeBytes)
	if err := scenario.Build(gen, pool); err != nil {
		return err
	}

	logger.Info("running scenario", "scenario", scenario.Name,
		logger.Suite(gen.SuiteID().String()), "transactions", len(scenario.Transactions))

	sched.Run()

	fmt.Println(gen.Summary())
	if gen.Failed() {
		return fmt.Errorf("scenario %q failed", scenario.Name)
	}
	if n := ctrl.Outstanding(); n > 0 {
		return fmt.Errorf("scenario %q left %d transactions outstanding", scenario.Name, n)
	}
	return nil
}
