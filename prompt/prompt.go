// Package prompt provides yes/no confirmers for destructive operations.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrNonInteractive is returned when a question needs an answer but no
// operator is attached.
var ErrNonInteractive = errors.New("confirmation required but running non-interactively")

// Interactive asks on a writer and reads the answer from a reader. A single
// goroutine reads lines for the lifetime of the prompter, so a question
// abandoned through its context leaves the reader to the next question.
type Interactive struct {
	mu     sync.Mutex
	reader *bufio.Reader
	writer io.Writer

	start sync.Once
	lines chan readResult
}

// NewInteractive prompts on stdout and reads stdin.
func NewInteractive() *Interactive {
	return NewInteractiveWithIO(os.Stdin, os.Stdout)
}

// NewInteractiveWithIO prompts on w and reads r.
func NewInteractiveWithIO(r io.Reader, w io.Writer) *Interactive {
	return &Interactive{reader: bufio.NewReader(r), writer: w, lines: make(chan readResult)}
}

type readResult struct {
	line string
	err  error
}

// readLines feeds lines to Confirm until the reader fails or ends.
func (p *Interactive) readLines() {
	defer close(p.lines)
	for {
		line, err := p.reader.ReadString('\n')
		p.lines <- readResult{line: line, err: err}
		if err != nil {
			return
		}
	}
}

// Confirm prints message with a [y/N] hint. Only y or yes (any case) count as
// approval; end of input is a no.
func (p *Interactive) Confirm(ctx context.Context, message string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := fmt.Fprintf(p.writer, "%s [y/N]: ", message); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}
	p.start.Do(func() { go p.readLines() })

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case res, ok := <-p.lines:
		if !ok {
			return false, nil
		}
		if res.err != nil && !errors.Is(res.err, io.EOF) {
			return false, fmt.Errorf("read answer: %w", res.err)
		}
		return isYes(res.line), nil
	}
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// AutoApprove approves every question and logs what it approved.
type AutoApprove struct {
	log *logrus.Entry
}

// NewAutoApprove creates an approving confirmer that logs through log.
func NewAutoApprove(log *logrus.Entry) *AutoApprove {
	return &AutoApprove{log: log}
}

// Confirm logs message and returns true.
func (a *AutoApprove) Confirm(ctx context.Context, message string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if a.log != nil {
		a.log.WithField("message", message).Warn("Auto-approving confirmation")
	}
	return true, nil
}

// NonInteractive refuses every question with ErrNonInteractive.
type NonInteractive struct{}

// Confirm always fails.
func (NonInteractive) Confirm(context.Context, string) (bool, error) {
	return false, ErrNonInteractive
}

// Static returns a fixed answer and remembers every message it was asked.
type Static struct {
	answer bool

	mu       sync.Mutex
	messages []string
}

// NewStatic creates a confirmer that always answers answer.
func NewStatic(answer bool) *Static {
	return &Static{answer: answer}
}

// Confirm records message and returns the fixed answer.
func (s *Static) Confirm(_ context.Context, message string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, message)
	return s.answer, nil
}

// Asked reports whether Confirm was called.
func (s *Static) Asked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages) > 0
}

// Messages returns the questions asked so far.
func (s *Static) Messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.messages))
	copy(out, s.messages)
	return out
}

// Expect approves only the exact question it was built with. A delete
// confirmed against one set of counts is refused once the counts change.
type Expect struct {
	want string

	mu       sync.Mutex
	messages []string
}

// NewExpect creates a confirmer that approves want and nothing else.
func NewExpect(want string) *Expect {
	return &Expect{want: want}
}

// Confirm records message and approves it when it equals the expected one.
func (e *Expect) Confirm(_ context.Context, message string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.messages = append(e.messages, message)
	return e.want != "" && message == e.want, nil
}

// Messages returns the questions asked so far.
func (e *Expect) Messages() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.messages))
	copy(out, e.messages)
	return out
}

// Func adapts a function to a confirmer.
type Func func(ctx context.Context, message string) (bool, error)

// Confirm calls f.
func (f Func) Confirm(ctx context.Context, message string) (bool, error) {
	return f(ctx, message)
}
