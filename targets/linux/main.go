//go:build linux && !tinygo

// sosbeacon-linux blinks SOS on a GPIO character-device line, pausing while a
// sensor line reports active.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"sosbeacon/config"
	"sosbeacon/core"
)

type options struct {
	configPath string
	chip       string
	output     int
	sensor     int
	dit        uint16
	activeHigh bool
	debug      bool
}

func newRootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "sosbeacon-linux",
		Short:        "Signal SOS on a GPIO line, suspended while a sensor line is active",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "TOML config file")
	f.StringVar(&opts.chip, "chip", "gpiochip0", "GPIO chip for both lines")
	f.IntVar(&opts.output, "output", 17, "signal line offset")
	f.IntVar(&opts.sensor, "sensor", 27, "sensor line offset")
	f.Uint16Var(&opts.dit, "dit", uint16(core.Dit), "dit length in ms")
	f.BoolVar(&opts.activeHigh, "active-high", false, "treat a high sensor line as active")
	f.BoolVar(&opts.debug, "debug", false, "log beacon events to stderr")
	return cmd
}

// load reads the config file, if any, then applies flags the user set
func (o *options) load(cmd *cobra.Command) (*config.BeaconConfig, error) {
	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.LoadFile(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("chip") {
		cfg.Output.Chip = o.chip
		cfg.Sensor.Chip = o.chip
	}
	if flags.Changed("output") {
		cfg.Output.Offset = o.output
	}
	if flags.Changed("sensor") {
		cfg.Sensor.Offset = o.sensor
	}
	if flags.Changed("dit") {
		cfg.DitMs = o.dit
	}
	if flags.Changed("active-high") {
		cfg.Polarity = core.ActiveLow.String()
		if o.activeHigh {
			cfg.Polarity = core.ActiveHigh.String()
		}
	}
	if flags.Changed("debug") {
		cfg.Debug = o.debug
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(cfg *config.BeaconConfig) error {
	timing, err := cfg.Timing()
	if err != nil {
		return err
	}
	polarity, err := cfg.GatePolarity()
	if err != nil {
		return err
	}

	core.SetDebugWriter(func(s string) {
		fmt.Fprintln(os.Stderr, s)
	})
	core.SetDebugEnabled(cfg.Debug)
	core.InitAsyncDebug()

	board := newCdevBoard(cfg)
	core.SetHaltHandler(func() {
		board.Release()
		os.Exit(1)
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	driver := core.Boot(board, polarity, timing)

	go func() {
		sig := <-quit
		board.Release()
		fmt.Fprintf(os.Stderr, "%s: released %s:%d\n", sig, cfg.Output.Chip, cfg.Output.Offset)
		os.Exit(0)
	}()

	core.DebugPrintln(fmt.Sprintf("[SOS] %s:%d dit=%dms gate=%s:%d %s",
		cfg.Output.Chip, cfg.Output.Offset, timing.Dit,
		cfg.Sensor.Chip, cfg.Sensor.Offset, polarity))
	driver.RunForever()
	return nil
}

func main() {
	if err := newRootCmd(&options{}).Execute(); err != nil {
		os.Exit(1)
	}
}
