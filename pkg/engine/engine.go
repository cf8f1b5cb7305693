// Package engine executes tape programs.
//
// The machine is a fixed-size tape of byte cells and a cursor. Both wrap:
// cells modulo 256, the cursor modulo the tape length. Loops jump to the
// nearest bracket in the scan direction; brackets are not depth-matched,
// so a nested inner pair is found before the outer partner.
package engine

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
	"unicode/utf8"
)

// DefaultTapeSize is used when Config.TapeSize is not positive.
const DefaultTapeSize = 128

// State of an engine.
type State int

const (
	Running State = iota
	Terminated
)

func (s State) String() string {
	if s == Terminated {
		return "terminated"
	}
	return "running"
}

// Config holds construction parameters.
type Config struct {
	TapeSize int
	// Debug installs TraceTo(Output) when Trace is nil.
	Debug bool
	// MaxSteps bounds the number of dispatched tokens (0 = unlimited).
	MaxSteps int
	Output   io.Writer
	Trace    TraceFunc
	Logger   *slog.Logger
}

// Engine is a single-threaded tape machine.
type Engine struct {
	tape   []byte
	cursor int

	// Program
	tokens []byte
	ip     int
	line   int

	steps int
	state State

	MaxSteps int
	Output   io.Writer
	Trace    TraceFunc
	Logger   *slog.Logger
}

// New creates an engine with a zeroed tape.
func New(cfg Config) *Engine {
	size := cfg.TapeSize
	if size <= 0 {
		size = DefaultTapeSize
	}
	e := &Engine{
		tape:     make([]byte, size),
		line:     1,
		MaxSteps: cfg.MaxSteps,
		Output:   cfg.Output,
		Trace:    cfg.Trace,
		Logger:   cfg.Logger,
	}
	if e.Output == nil {
		e.Output = os.Stdout
	}
	if e.Logger == nil {
		e.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Debug && e.Trace == nil {
		e.Trace = TraceTo(e.Output)
	}
	return e
}

// Reset zeroes the tape and rewinds the loaded program.
func (e *Engine) Reset() {
	clear(e.tape)
	e.cursor = 0
	e.ip = 0
	e.line = 1
	e.steps = 0
	e.state = Running
}

// Load installs a token stream and rewinds to its start. The tape and
// cursor are kept.
func (e *Engine) Load(tokens []byte) {
	e.tokens = tokens
	e.ip = 0
	e.line = 1
	e.steps = 0
	e.state = Running
}

// Run loads tokens and executes them until the stream ends or a fatal
// error occurs.
func (e *Engine) Run(tokens []byte) error {
	e.Load(tokens)
	start := time.Now()
	e.Logger.Debug("run started", "tokens", len(tokens), "tape", len(e.tape))

	for e.state == Running {
		if err := e.Step(); err != nil {
			e.Logger.Debug("run failed",
				"error", err,
				"steps", e.steps,
				"elapsed", time.Since(start),
			)
			return err
		}
	}

	e.Logger.Debug("run finished", "steps", e.steps, "elapsed", time.Since(start))
	return nil
}

// Step executes one token. It is a no-op once the engine has terminated.
func (e *Engine) Step() error {
	if e.state == Terminated {
		return nil
	}
	if e.ip >= len(e.tokens) {
		e.state = Terminated
		return nil
	}

	if e.MaxSteps > 0 && e.steps >= e.MaxSteps {
		e.state = Terminated
		return &Error{Kind: StepLimit, Line: e.line, Limit: e.MaxSteps}
	}

	tok := e.tokens[e.ip]
	e.ip++
	e.steps++

	if e.Trace != nil {
		e.Trace(TraceEvent{
			Line:     e.line,
			Position: e.ip,
			Token:    tok,
			Cursor:   e.cursor,
			Tape:     e.tape,
		})
	}

	if err := e.exec(tok); err != nil {
		e.state = Terminated
		return err
	}
	if e.ip >= len(e.tokens) {
		e.state = Terminated
	}
	return nil
}

func (e *Engine) exec(tok byte) error {
	switch tok {
	case '>':
		e.cursor++
		if e.cursor == len(e.tape) {
			e.cursor = 0
		}

	case '<':
		if e.cursor == 0 {
			e.cursor = len(e.tape) - 1
		} else {
			e.cursor--
		}

	case '+':
		e.tape[e.cursor]++

	case '-':
		e.tape[e.cursor]--

	case '[':
		if e.tape[e.cursor] != 0 {
			return nil
		}
		end := e.scanForward(']')
		if end < 0 {
			return &Error{Kind: UnterminatedBlock, Line: e.line, Token: tok}
		}
		e.ip = end

	case ']':
		if e.tape[e.cursor] == 0 {
			return nil
		}
		open := e.scanBackward('[')
		if open < 0 {
			return &Error{Kind: UnterminatedBlock, Line: e.line, Token: tok}
		}
		e.ip = open

	case '.':
		return e.emit(e.tape[e.cursor])

	case ' ', '\t', '\r':
		// ignored

	case '\n':
		e.line++

	default:
		return &Error{Kind: InvalidToken, Line: e.line, Token: tok}
	}
	return nil
}

// scanForward returns the index of the first want at or after ip, or -1.
func (e *Engine) scanForward(want byte) int {
	for i := e.ip; i < len(e.tokens); i++ {
		if e.tokens[i] == want {
			return i
		}
	}
	return -1
}

// scanBackward returns the index of the nearest want before the token
// just executed, or -1.
func (e *Engine) scanBackward(want byte) int {
	for i := e.ip - 2; i >= 0; i-- {
		if e.tokens[i] == want {
			return i
		}
	}
	return -1
}

// emit writes c as one character followed by a line break.
func (e *Engine) emit(c byte) error {
	var buf [utf8.UTFMax + 1]byte
	n := utf8.EncodeRune(buf[:], rune(c))
	buf[n] = '\n'
	if _, err := e.Output.Write(buf[:n+1]); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// Tape returns a copy of the tape.
func (e *Engine) Tape() []byte {
	out := make([]byte, len(e.tape))
	copy(out, e.tape)
	return out
}

// Cell returns the value under the cursor.
func (e *Engine) Cell() byte {
	return e.tape[e.cursor]
}

// Cursor returns the current tape index.
func (e *Engine) Cursor() int { return e.cursor }

// IP returns the index of the next token to execute.
func (e *Engine) IP() int { return e.ip }

// Line returns the current source line (1-based).
func (e *Engine) Line() int { return e.line }

// Steps returns the number of tokens dispatched by the current run.
func (e *Engine) Steps() int { return e.steps }

// State returns the engine state.
func (e *Engine) State() State { return e.state }
