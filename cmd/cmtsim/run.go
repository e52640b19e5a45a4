package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/cmtsim/clocksource"
	"github.com/sarchlab/cmtsim/cmt"
	"github.com/sarchlab/cmtsim/signal"
	"github.com/sarchlab/cmtsim/sim"
	"github.com/sarchlab/cmtsim/simulation"
)

var runFlags struct {
	clkIn1Period float64
	clkIn2Period float64
	ref          int
	mult         float64
	div          int

	divides []float64
	phases  []float64
	duties  []float64

	lockDelayNs float64
	resetNs     float64
	durationUs  float64

	output      string
	logEvents   bool
	noMonitor   bool
	monitorPort int
	openBrowser bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a clock-management simulation and report measured outputs",
	Run: func(cmd *cobra.Command, args []string) {
		runSimulation()
	},
}

func init() {
	f := runCmd.Flags()

	f.Float64Var(&runFlags.clkIn1Period, "clkin1-period", 10.0,
		"period of reference clock 1 in ns")
	f.Float64Var(&runFlags.clkIn2Period, "clkin2-period", 0,
		"period of reference clock 2 in ns, 0 if unused")
	f.IntVar(&runFlags.ref, "ref", 1,
		"reference clock to select, 1 or 2")
	f.Float64Var(&runFlags.mult, "mult", 8.0,
		"feedback multiplier")
	f.IntVar(&runFlags.div, "div", 1,
		"input divider")

	f.Float64SliceVar(&runFlags.divides, "divide", []float64{8},
		"per-output divide values")
	f.Float64SliceVar(&runFlags.phases, "phase", nil,
		"per-output phase offsets in degrees")
	f.Float64SliceVar(&runFlags.duties, "duty", nil,
		"per-output duty cycles")

	f.Float64Var(&runFlags.lockDelayNs, "lock-delay", 1000,
		"lock stabilization delay in ns")
	f.Float64Var(&runFlags.resetNs, "reset", 100,
		"time of reset release in ns")
	f.Float64Var(&runFlags.durationUs, "duration", 10,
		"simulated duration in us")

	f.StringVar(&runFlags.output, "output", "",
		"output file name for the recording database")
	f.BoolVar(&runFlags.logEvents, "log-events", false,
		"print every event as it is handled")
	f.BoolVar(&runFlags.noMonitor, "no-monitor", false,
		"disable the monitoring server")
	f.IntVar(&runFlags.monitorPort, "monitor-port", 0,
		"port for the monitoring server, 0 for random")
	f.BoolVar(&runFlags.openBrowser, "open-browser", false,
		"open the monitor URL in the default browser")

	rootCmd.AddCommand(runCmd)
}

func buildConfig() cmt.Config {
	cfg := cmt.DefaultConfig()
	cfg.ClkIn1Period = runFlags.clkIn1Period
	cfg.ClkIn2Period = runFlags.clkIn2Period
	cfg.ClkfboutMult = runFlags.mult
	cfg.DivclkDivide = runFlags.div

	for i := range cfg.Outputs {
		if i < len(runFlags.divides) {
			cfg.Outputs[i].Divide = runFlags.divides[i]
		} else {
			cfg.Outputs[i].Divide = runFlags.divides[len(runFlags.divides)-1]
		}

		if i < len(runFlags.phases) {
			cfg.Outputs[i].Phase = runFlags.phases[i]
		}

		if i < len(runFlags.duties) {
			cfg.Outputs[i].Duty = runFlags.duties[i]
		}
	}

	return cfg
}

func monitorPortFromEnv() int {
	port := os.Getenv("CMTSIM_MONITOR_PORT")
	if port == "" {
		return 0
	}

	p, err := strconv.Atoi(port)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid CMTSIM_MONITOR_PORT %q\n", port)
		return 0
	}

	return p
}

func runSimulation() {
	_ = godotenv.Load()

	if runFlags.monitorPort == 0 {
		runFlags.monitorPort = monitorPortFromEnv()
	}

	builder := simulation.MakeBuilder()
	if runFlags.noMonitor {
		builder = builder.WithoutMonitoring()
	} else {
		if runFlags.monitorPort > 0 {
			builder = builder.WithMonitorPort(runFlags.monitorPort)
		}
		if runFlags.openBrowser {
			builder = builder.WithBrowserOpen()
		}
	}
	if runFlags.output != "" {
		builder = builder.WithOutputFileName(runFlags.output)
	}

	s := builder.Build()
	engine := s.GetEngine()

	if runFlags.logEvents {
		engine.AcceptHook(sim.NewEventLogger(log.New(os.Stderr, "", 0)))
	}

	tile := cmt.MakeBuilder().
		WithEngine(engine).
		WithConfig(buildConfig()).
		WithLockDelay(sim.FromNanoseconds(runFlags.lockDelayNs)).
		Build()
	s.RegisterTile(tile)

	// Close the feedback loop the way a board would.
	signal.Connect(tile.ClkFbOut, tile.ClkFbIn)

	clk1 := clocksource.New("ClkGen1", engine, runFlags.clkIn1Period)
	signal.Connect(clk1.Out, tile.ClkIn1)
	clk1.Start(0)

	if runFlags.clkIn2Period > 0 {
		clk2 := clocksource.New("ClkGen2", engine, runFlags.clkIn2Period)
		signal.Connect(clk2.Out, tile.ClkIn2)
		clk2.Start(0)
	}

	var probes [cmt.NumOutputs]*signal.Probe
	for i := range tile.ClkOut {
		probes[i] = signal.NewProbe(tile.ClkOut[i])
	}
	lockProbe := signal.NewProbe(tile.Locked)

	driver := signal.NewDriver(engine)
	tile.Reset.Set(0, signal.High)

	sel := signal.High
	if runFlags.ref == 2 {
		sel = signal.Low
	}
	tile.ClkSel.Set(0, sel)

	driver.Drive(tile.Reset, sim.FromNanoseconds(runFlags.resetNs), signal.Low)

	end := sim.VTimeInPs(runFlags.durationUs * float64(sim.Microsecond))
	err := engine.RunUntil(end)
	if err != nil {
		fmt.Fprintf(os.Stderr, "simulation failed: %v\n", err)
		atexit.Exit(1)
	}

	if tile.Err() != nil {
		fmt.Fprintf(os.Stderr, "simulation halted: %v\n", tile.Err())
		s.Terminate()
		atexit.Exit(1)
	}

	reportMeasurements(tile, probes, lockProbe)

	s.Terminate()
	atexit.Exit(0)
}

func reportMeasurements(
	tile *cmt.CMT,
	probes [cmt.NumOutputs]*signal.Probe,
	lockProbe *signal.Probe,
) {
	rises := lockProbe.RisingEdges()
	if len(rises) == 0 {
		fmt.Println("lock: never asserted")
	} else {
		fmt.Printf("lock: asserted at %s\n", rises[0])
	}

	for i, p := range probes {
		period := p.AveragePeriodNs()
		if period == 0 {
			fmt.Printf("clkout%d: no activity\n", i)
			continue
		}

		fmt.Printf("clkout%d: period %.4f ns (%.4f MHz), duty %.1f%%\n",
			i, period, 1e3/period, p.DutyCycle()*100)
	}
}
