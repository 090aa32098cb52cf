package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/pkg/term"

	"github.com/sarchlab/risc16sim/config"
	"github.com/sarchlab/risc16sim/emu"
	"github.com/sarchlab/risc16sim/loader"
	"github.com/sarchlab/risc16sim/timing/core"
)

const interactiveHelp = "keys: [space/enter] step  [r] run/pause  [x] reset  [q] quit"

// runInteractive puts the controlling terminal into cbreak mode and drives
// the core one key press at a time.
func runInteractive(prog *loader.Program, cfg *config.Config, logger logr.Logger) error {
	t, err := term.Open("/dev/tty", term.CBreakMode)
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	defer func() {
		_ = t.Restore()
		_ = t.Close()
	}()

	c := core.NewCore(&emu.RegFile{}, emu.NewMemory(), cfg.CoreOptions(logger)...)
	c.Load(prog)

	s := newSession(c, t, os.Stdout, cfg.RunSpeed())

	return s.run(context.Background())
}

// session reads single-key commands and applies them to a core.
type session struct {
	core     *core.Core
	out      io.Writer
	keys     <-chan byte
	done     chan struct{}
	interval time.Duration
}

func newSession(c *core.Core, in io.Reader, out io.Writer, interval time.Duration) *session {
	done := make(chan struct{})

	return &session{
		core:     c,
		out:      out,
		keys:     readKeys(in, done),
		done:     done,
		interval: interval,
	}
}

// readKeys delivers bytes read from r. The channel is closed when r fails,
// reaches EOF, or done is closed. A key read after done is dropped.
func readKeys(r io.Reader, done <-chan struct{}) <-chan byte {
	keys := make(chan byte)

	go func() {
		defer close(keys)

		buf := make([]byte, 1)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				select {
				case keys <- buf[0]:
				case <-done:
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()

	return keys
}

// run handles keys until q, end of input or cancellation. A session runs
// once.
func (s *session) run(ctx context.Context) error {
	defer close(s.done)

	fmt.Fprintln(s.out, interactiveHelp)
	printPipeline(s.out, s.core.Snapshot())

	for s.keys != nil {
		var key byte
		var ok bool

		select {
		case <-ctx.Done():
			return ctx.Err()
		case key, ok = <-s.keys:
		}

		if !ok {
			return nil
		}

		switch key {
		case ' ', '\n', '\r':
			s.step()
		case 'r':
			if err := s.autostep(ctx); err != nil {
				return err
			}
		case 'x':
			s.core.Reset()
			fmt.Fprintln(s.out, "reset")
			printPipeline(s.out, s.core.Snapshot())
		case 'q':
			return nil
		}
	}

	return nil
}

func (s *session) step() {
	if !s.core.Tick() {
		fmt.Fprintln(s.out, "finished")
		printReport(s.out, s.core.Snapshot())
		return
	}
	printPipeline(s.out, s.core.Snapshot())
}

// autostep runs the core at the configured speed until it finishes or any
// key is pressed.
func (s *session) autostep(ctx context.Context) error {
	err := s.core.Autostep(ctx, s.interval, func(snap core.Snapshot) bool {
		printPipeline(s.out, snap)

		select {
		case _, ok := <-s.keys:
			if !ok {
				s.keys = nil
				return true
			}
			fmt.Fprintln(s.out, "paused")
			return false
		default:
			return true
		}
	})
	if err != nil {
		return err
	}

	if s.core.Finished() {
		fmt.Fprintln(s.out, "finished")
		printReport(s.out, s.core.Snapshot())
	}

	return nil
}
