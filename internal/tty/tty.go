// Package tty puts the controlling terminal into raw mode for the "monitor" CLI command, an
// interactive single-stepper over the simulator core. It adapts the teacher console's
// keypress-to-channel plumbing from a keyboard/display pump to a step/print loop over *core.CPU.
package tty

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// ErrNoTTY is returned if standard input is not a terminal.
var ErrNoTTY error = errors.New("console: not a TTY")

// Console is a raw-mode terminal session used by the monitor command to read single keypresses
// and render simulator state without waiting for a newline.
type Console struct {
	in    *os.File
	out   *term.Terminal
	fd    int
	state *term.State
	keyCh chan byte
}

// WithConsole creates a Console context over the standard streams. Calling the returned cancel
// function restores the terminal state and stops the background reader.
func WithConsole(parent context.Context) (context.Context, *Console, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	console, err := NewConsole(os.Stdin, os.Stdout)
	if err != nil {
		cancel()
		return ctx, nil, cancel
	}

	go console.readTerminal(ctx, cancel)

	return ctx, console, func() {
		console.Restore()
		cancel()
	}
}

// NewConsole creates a Console using the provided streams. If the input stream is not a
// terminal, ErrNoTTY is returned.
func NewConsole(sin, sout *os.File) (*Console, error) {
	fd := int(sin.Fd())

	if !term.IsTerminal(fd) {
		return nil, ErrNoTTY
	}

	saved, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoTTY, err)
	}

	cons := Console{
		fd:    fd,
		in:    sin,
		out:   term.NewTerminal(sout, ""),
		state: saved,
		keyCh: make(chan byte, 1),
	}

	if err := cons.setTerminalParams(1, 0); err != nil {
		return nil, err
	}

	return &cons, nil
}

// Keys returns the channel of keypresses read from the console.
func (c *Console) Keys() <-chan byte {
	return c.keyCh
}

// Writer returns an io.Writer that writes to the terminal.
func (c *Console) Writer() io.Writer {
	return c.out
}

// Restore returns the terminal to its initial state and unblocks any in-progress read.
func (c *Console) Restore() {
	_ = os.Stdin.SetReadDeadline(time.Now())
	_ = term.Restore(c.fd, c.state)
}

func (c *Console) setTerminalParams(vmin, vtime byte) error {
	_ = syscall.SetNonblock(c.fd, true)

	termIO, err := unix.IoctlGetTermios(c.fd, getTermiosIoctl)
	if err != nil {
		return err
	}

	termIO.Cc[unix.VMIN] = vmin
	termIO.Cc[unix.VTIME] = vtime

	if err := unix.IoctlSetTermios(c.fd, setTermiosIoctl, termIO); err != nil {
		return err
	}

	_ = os.Stdin.SetReadDeadline(time.Time{})

	return nil
}

func (c *Console) readTerminal(ctx context.Context, cancel context.CancelFunc) {
	buf := bufio.NewReader(c.in)

	_ = syscall.SetNonblock(c.fd, false)

	for {
		select {
		case <-ctx.Done():
			return
		default:
			b, err := buf.ReadByte()
			if err != nil {
				cancel()
				return
			}

			c.keyCh <- b
		}
	}
}
