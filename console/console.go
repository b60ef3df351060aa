// Package console implements the line-oriented text protocol the bench
// speaks over its serial port: prompts out, single lines in.
package console

import (
	"errors"
	"io"
)

// MaxLine is the longest line the firmware buffers.
const MaxLine = 64

// MsgReadError is printed when a prompt gets an empty line.
const MsgReadError = "Error reading line. Please try again.\r\n"

// ErrClosed is returned once the input stream has ended.
var ErrClosed = errors.New("console: input closed")

// Console reads lines from and writes text to a serial stream.
type Console struct {
	rw     io.ReadWriter
	buf    [MaxLine]byte
	one    [1]byte
	skipLF bool
	closed bool
}

// New returns a console on rw.
func New(rw io.ReadWriter) *Console {
	return &Console{rw: rw}
}

// readByte blocks until a byte arrives. A reader that returns no data and
// no error (a non-blocking UART) is polled again.
func (c *Console) readByte() (byte, error) {
	if c.closed {
		return 0, ErrClosed
	}
	for {
		n, err := c.rw.Read(c.one[:])
		if n == 1 {
			return c.one[0], nil
		}
		if err == io.EOF {
			c.closed = true
			return 0, ErrClosed
		}
		if err != nil {
			return 0, err
		}
	}
}

// ReadLine reads until '\r' or '\n' or until max characters have been
// read, and returns the characters without the terminator. The '\n' of a
// "\r\n" pair is consumed with the '\r'. max is clamped to MaxLine.
func (c *Console) ReadLine(max int) (string, error) {
	if max <= 0 || max > MaxLine {
		max = MaxLine
	}
	n := 0
	for n < max {
		b, err := c.readByte()
		if err != nil {
			if errors.Is(err, ErrClosed) && n > 0 {
				return string(c.buf[:n]), nil
			}
			return "", err
		}
		if c.skipLF {
			c.skipLF = false
			if b == '\n' {
				continue
			}
		}
		if b == '\r' || b == '\n' {
			c.skipLF = b == '\r'
			return string(c.buf[:n]), nil
		}
		c.buf[n] = b
		n++
	}
	return string(c.buf[:n]), nil
}

// WriteString writes s unchanged; callers supply their own "\r\n".
func (c *Console) WriteString(s string) error {
	_, err := io.WriteString(c.rw, s)
	return err
}

// Write implements io.Writer so a Console can be handed to loggers.
func (c *Console) Write(p []byte) (int, error) {
	return c.rw.Write(p)
}

// Prompt writes prompt and returns the next line.
func (c *Console) Prompt(prompt string) (string, error) {
	if err := c.WriteString(prompt); err != nil {
		return "", err
	}
	return c.ReadLine(MaxLine)
}

// Confirm repeats prompt until a line starting with 'y' or 'Y' arrives.
// Empty lines print MsgReadError; any other answer just asks again.
func (c *Console) Confirm(prompt string) error {
	for {
		line, err := c.Prompt(prompt)
		if err != nil {
			return err
		}
		if len(line) == 0 {
			if err := c.WriteString(MsgReadError); err != nil {
				return err
			}
			continue
		}
		if line[0] == 'y' || line[0] == 'Y' {
			return nil
		}
	}
}
