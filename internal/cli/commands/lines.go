package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

// errInterrupt is returned by a lineReader when the operator presses Ctrl-C.
var errInterrupt = readline.ErrInterrupt

// lineReader reads operator input one line at a time.
type lineReader interface {
	// ReadLine shows prompt and returns the entered line without its newline.
	// It returns io.EOF at end of input and errInterrupt on Ctrl-C.
	ReadLine(prompt string) (string, error)
	Close() error
}

// newLineReader returns a readline editor with history for terminals and a
// plain scanner for piped input.
func newLineReader(in io.Reader, out, errOut io.Writer, historyFile string) (lineReader, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		rl, err := readline.NewEx(&readline.Config{
			Stdin:           f,
			Stdout:          out,
			Stderr:          errOut,
			HistoryFile:     historyFile,
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize menu input: %w", err)
		}
		return &readlineReader{rl: rl}, nil
	}
	return &scanReader{sc: bufio.NewScanner(in), out: out}, nil
}

type readlineReader struct {
	rl *readline.Instance
}

func (r *readlineReader) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	return r.rl.Readline()
}

func (r *readlineReader) Close() error {
	return r.rl.Close()
}

type scanReader struct {
	sc  *bufio.Scanner
	out io.Writer
}

func (r *scanReader) ReadLine(prompt string) (string, error) {
	_, _ = fmt.Fprint(r.out, prompt)
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.sc.Text(), nil
}

func (r *scanReader) Close() error {
	return nil
}

func isInterrupt(err error) bool {
	return errors.Is(err, errInterrupt)
}
