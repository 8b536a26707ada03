// Package prompt collects operator intent before irreversible release
// operations. The Prompter interface decouples the tagging and sync
// logic from the terminal so that callers can inject scripted answers
// in tests and non-interactive environments.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Prompter answers the two questions the release process asks: a
// binary confirmation before mutating anything, and a free-form line
// of input (the bare version number).
type Prompter interface {
	Confirm(question string) (bool, error)
	ReadLine(prompt string) (string, error)
}

type terminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal returns a Prompter that writes questions to out and
// reads answers line-by-line from in.
func NewTerminal(in io.Reader, out io.Writer) Prompter {
	return &terminalPrompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Confirm accepts only the literal answer "Yes". Anything else,
// including an empty line, declines.
func (p *terminalPrompter) Confirm(question string) (bool, error) {
	answer, err := p.ReadLine(fmt.Sprintf("%s (Yes/No)", question))
	if err != nil {
		return false, errors.WithStack(err)
	}

	return answer == "Yes", nil
}

func (p *terminalPrompter) ReadLine(prompt string) (string, error) {
	if _, err := fmt.Fprintf(p.out, "%s: ", prompt); err != nil {
		return "", errors.Wrap(err, "problem writing prompt")
	}

	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", errors.Wrap(err, "problem reading answer")
	}

	return strings.TrimSpace(line), nil
}
