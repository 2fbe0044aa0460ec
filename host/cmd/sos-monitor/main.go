// sos-monitor prints the event stream of a beacon connected over serial.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"sosbeacon/host/monitor"
	"sosbeacon/host/serial"
)

var (
	device  string
	baud    int
	verbose bool
	summary bool
)

var rootCmd = &cobra.Command{
	Use:          "sos-monitor",
	Short:        "Decode SOS beacon telemetry from a serial port",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runMonitor,
}

func init() {
	rootCmd.Flags().StringVar(&device, "device", "/dev/ttyACM0", "serial device path")
	rootCmd.Flags().IntVar(&baud, "baud", serial.DefaultBaud, "baud rate (ignored for USB CDC)")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "show frame sequence numbers and undecodable frames")
	rootCmd.Flags().BoolVar(&summary, "summary", true, "print cycle and frame counts on exit")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg := serial.DefaultConfig(device)
	cfg.Baud = baud

	port, err := serial.Open(cfg)
	if err != nil {
		return err
	}
	defer port.Close()

	if err := port.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", device, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "Monitoring %s at %d baud (Ctrl-C to stop)\n", device, baud)

	m := monitor.New(os.Stdout, verbose)
	runErr := m.Run(ctx, port)

	if summary {
		fmt.Fprintln(os.Stderr, m.Stats().Summary())
	}
	return runErr
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
