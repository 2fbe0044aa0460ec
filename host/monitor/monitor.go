// Package monitor decodes beacon telemetry from a byte stream.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"sosbeacon/core"
	"sosbeacon/protocol"
)

const (
	fifoSize  = 1024
	readChunk = 256
	idlePoll  = 10 * time.Millisecond
)

// Stats summarises what the monitor has seen
type Stats struct {
	Events    uint32
	Cycles    uint32 // Cycles started
	Completed uint32 // Cycles that emitted every unit
	Aborted   uint32 // Cycles cut short by the gate
	GateSkips uint32 // Runs of iterations suppressed by the gate
	WordSkips uint32 // Word spaces skipped
	Halts     uint32
	Texts     uint32 // Debug text lines
	Unknown   uint32 // Frames with an unknown message id or bad payload

	Frames protocol.FrameStats
}

// Monitor prints decoded events and keeps counts
type Monitor struct {
	out     io.Writer
	verbose bool

	fifo    *protocol.FifoBuffer
	decoder *protocol.FrameDecoder
	stats   Stats
}

// New creates a monitor that writes one line per event to out
func New(out io.Writer, verbose bool) *Monitor {
	m := &Monitor{
		out:     out,
		verbose: verbose,
		fifo:    protocol.NewFifoBuffer(fifoSize),
	}
	m.decoder = protocol.NewFrameDecoder(m.handleFrame)
	return m
}

// Feed decodes data, keeping any trailing partial frame for the next call
func (m *Monitor) Feed(data []byte) {
	for len(data) > 0 {
		n := m.fifo.Write(data)
		data = data[n:]
		m.decoder.Receive(m.fifo)

		// A full FIFO the decoder cannot drain holds no frame start
		if n == 0 && m.fifo.Free() == 0 {
			m.fifo.Reset()
		}
	}
}

// Copy feeds everything from r until EOF
func (m *Monitor) Copy(r io.Reader) error {
	buf := make([]byte, readChunk)
	for {
		n, err := r.Read(buf)
		m.Feed(buf[:n])
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Run feeds r until ctx is done. Serial reads time out with no data,
// which shows up as an empty read or io.EOF, so both count as idle.
func (m *Monitor) Run(ctx context.Context, r io.Reader) error {
	buf := make([]byte, readChunk)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		n, err := r.Read(buf)
		m.Feed(buf[:n])

		switch {
		case err == nil && n > 0:
		case err == nil || errors.Is(err, io.EOF):
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(idlePoll):
			}
		default:
			return fmt.Errorf("read telemetry: %w", err)
		}
	}
}

// Stats returns the current counters
func (m *Monitor) Stats() Stats {
	s := m.stats
	s.Frames = m.decoder.Stats()
	return s
}

func (m *Monitor) handleFrame(seq uint8, payload []byte) {
	msg, err := protocol.DecodeMessage(payload)
	if err != nil {
		m.stats.Unknown++
		if m.verbose {
			fmt.Fprintf(m.out, "seq=%d id=%d: %v (% x)\n", seq, msg.ID, err, payload)
		}
		return
	}

	switch msg.ID {
	case protocol.MsgBeaconEvent:
		m.handleEvent(seq, *msg.Event)
	case protocol.MsgDebugText:
		m.stats.Texts++
		fmt.Fprintln(m.out, msg.Text)
	}
}

func (m *Monitor) handleEvent(seq uint8, wire protocol.BeaconEvent) {
	evt := core.Event{
		Kind:  wire.Kind,
		Cycle: wire.Cycle,
		Unit:  wire.Unit,
		Clock: wire.Clock,
	}
	m.stats.Events++

	switch evt.Kind {
	case core.EvtCycleStart:
		m.stats.Cycles++
	case core.EvtCycleComplete:
		m.stats.Completed++
	case core.EvtAbortBeforeOn, core.EvtAbortAfterOn, core.EvtAbortAfterOff:
		m.stats.Aborted++
	case core.EvtGateSkip:
		m.stats.GateSkips++
	case core.EvtWordSpaceSkip:
		m.stats.WordSkips++
	case core.EvtHalt:
		m.stats.Halts++
	}

	if m.verbose {
		fmt.Fprintf(m.out, "seq=%-2d %s\n", seq, core.FormatEvent(evt))
		return
	}
	fmt.Fprintln(m.out, core.FormatEvent(evt))
}

// Summary renders the counters for the end of a session
func (s Stats) Summary() string {
	return fmt.Sprintf(
		"cycles=%d completed=%d aborted=%d gate_skips=%d word_skips=%d halts=%d\n"+
			"frames=%d crc_errors=%d resyncs=%d seq_gaps=%d dropped=%d unknown=%d",
		s.Cycles, s.Completed, s.Aborted, s.GateSkips, s.WordSkips, s.Halts,
		s.Frames.Frames, s.Frames.CRCErrors, s.Frames.Resyncs, s.Frames.SeqGaps,
		s.Frames.BytesDropped, s.Unknown)
}
