// Package scanner turns tape program source into a token stream.
// Each source byte becomes one token; letters are folded to lower case.
package scanner

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2/lexer"
)

// ErrSourceUnreadable is matched by every error returned when the source
// cannot be read.
var ErrSourceUnreadable = errors.New("source unreadable")

// ReadError reports a source that could not be accessed.
type ReadError struct {
	Name string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("could not read %s: %v", e.Name, e.Err)
}

func (e *ReadError) Unwrap() []error {
	return []error{ErrSourceUnreadable, e.Err}
}

// One rule, one character. Nothing is elided: whitespace and newlines
// reach the engine.
var charLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Char", Pattern: `[\s\S]`},
})

// Program is a scanned source.
type Program struct {
	Name   string
	Tokens []byte
	// Positions[i] is where Tokens[i] came from.
	Positions []lexer.Position
}

// Len returns the number of tokens.
func (p *Program) Len() int {
	return len(p.Tokens)
}

// Scan reads all of r and tokenizes it.
func Scan(name string, r io.Reader) (*Program, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ReadError{Name: name, Err: err}
	}
	return ScanString(name, string(data))
}

// ScanFile reads and tokenizes the file at path.
func ScanFile(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ReadError{Name: path, Err: err}
	}
	defer f.Close()
	return Scan(path, f)
}

// ScanString tokenizes src.
func ScanString(name, src string) (*Program, error) {
	lex, err := charLexer.LexString(name, src)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", name, err)
	}
	chars, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", name, err)
	}

	prog := &Program{
		Name:      name,
		Tokens:    make([]byte, 0, len(src)),
		Positions: make([]lexer.Position, 0, len(src)),
	}
	for _, ch := range chars {
		if ch.EOF() {
			break
		}
		// A multi-byte character still yields one token per byte.
		for i := 0; i < len(ch.Value); i++ {
			prog.Tokens = append(prog.Tokens, Fold(ch.Value[i]))
			prog.Positions = append(prog.Positions, ch.Pos)
		}
	}
	return prog, nil
}

// Fold maps ASCII upper case letters to lower case and leaves every
// other byte alone.
func Fold(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
