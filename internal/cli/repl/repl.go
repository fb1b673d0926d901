package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInterrupted is returned when input ends before the loop finished.
var ErrInterrupted = errors.New("input closed")

// Handler processes one non-empty input line. Returning done ends the loop.
type Handler func(ctx context.Context, line string) (done bool, err error)

// REPL is a line-oriented prompt loop.
type REPL struct {
	input     *bufio.Reader
	output    io.Writer
	completer *Completer
}

// New creates a REPL reading from in and writing prompts to out.
func New(in io.Reader, out io.Writer, completer *Completer) *REPL {
	if completer == nil {
		completer = NewCompleter()
	}
	return &REPL{
		input:     bufio.NewReader(in),
		output:    out,
		completer: completer,
	}
}

// ReadLine prints prompt and returns the next line with surrounding
// whitespace removed.
func (r *REPL) ReadLine(prompt string) (string, error) {
	fmt.Fprint(r.output, prompt)

	line, err := r.input.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err == io.EOF {
		fmt.Fprintln(r.output)
		return "", ErrInterrupted
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Run reads lines until handle reports done, input ends or ctx is
// cancelled. Handler errors are printed and the loop continues; a handler
// that wants to stop on an error returns done as well.
func (r *REPL) Run(ctx context.Context, prompt string, handle Handler) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := r.ReadLine(prompt)
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}

		done, err := handle(ctx, line)
		if err != nil {
			if done {
				return err
			}
			fmt.Fprintf(r.output, "Error: %v\n", err)
		}
		if done {
			return nil
		}
	}
}

// Suggest prints the commands that start with prefix, if any.
func (r *REPL) Suggest(prefix string) {
	suggestions := r.completer.Complete(prefix)
	if len(suggestions) == 0 {
		suggestions = r.completer.Commands()
	}
	fmt.Fprintf(r.output, "Unknown input %q. Try: %s\n", prefix, strings.Join(suggestions, ", "))
}
