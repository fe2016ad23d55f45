// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// CancelAnswer cancels a prompt, like closing the dialog
const CancelAnswer = ":cancel"

// MaxLineLength is the longest line the terminal accepts
const MaxLineLength = 1 << 20

// Terminal reads lines and writes messages. Writes are safe from several
// goroutines; reads belong to one.
type Terminal struct {
	in          *bufio.Scanner
	interactive bool

	mu  sync.Mutex
	out io.Writer
}

// NewTerminal wraps in and out. Prompt labels are printed only when in
// is a terminal.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 4096), MaxLineLength)

	return &Terminal{
		in:          scanner,
		interactive: interactive,
		out:         out,
	}
}

func (t *Terminal) Interactive() bool {
	return t.interactive
}

// ReadLine returns the next line without its newline, io.EOF at the end
// of input or the read error.
func (t *Terminal) ReadLine() (string, error) {
	if !t.in.Scan() {
		if err := t.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimRight(t.in.Text(), "\r"), nil
}

// Prompt asks for a line. An empty answer keeps defaultValue. EOF, a read
// error or CancelAnswer cancels; a read error is also shown.
func (t *Terminal) Prompt(label, defaultValue string) (string, bool) {
	if t.interactive {
		if defaultValue != "" {
			t.Printf("%s [%s]: ", label, defaultValue)
		} else {
			t.Printf("%s: ", label)
		}
	}

	line, err := t.ReadLine()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			t.Alert(err.Error())
		}
		return "", false
	}
	if line == CancelAnswer {
		return "", false
	}
	if line == "" {
		return defaultValue, true
	}
	return line, true
}

// Alert shows an error message
func (t *Terminal) Alert(message string) {
	t.Printf("! %s\n", message)
}

func (t *Terminal) Printf(format string, args ...interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}
