package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
)

func TestScanPreservesEveryByte(t *testing.T) {
	tests := []struct {
		src      string
		expected string
	}{
		{"", ""},
		{"+++.", "+++."},
		{"+ [-]\n.", "+ [-]\n."},
		{"\t\r\n", "\t\r\n"},
		{"ABC xyz", "abc xyz"},
		{"+X-", "+x-"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			prog, err := ScanString("test", tt.src)
			if err != nil {
				t.Fatalf("Scan error: %v", err)
			}
			if got := string(prog.Tokens); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
			if len(prog.Positions) != prog.Len() {
				t.Errorf("Expected %d positions, got %d", prog.Len(), len(prog.Positions))
			}
		})
	}
}

func TestScanSplitsMultiByteCharacters(t *testing.T) {
	prog, err := ScanString("test", "+é")
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if prog.Len() != 3 {
		t.Fatalf("Expected 3 tokens, got %d", prog.Len())
	}
	if prog.Tokens[1] != 0xC3 || prog.Tokens[2] != 0xA9 {
		t.Errorf("Expected raw UTF-8 bytes, got % x", prog.Tokens[1:])
	}
	if prog.Positions[1] != prog.Positions[2] {
		t.Errorf("Expected both bytes at one position, got %v and %v", prog.Positions[1], prog.Positions[2])
	}
}

func TestScanInvalidUTF8(t *testing.T) {
	prog, err := ScanString("test", "+\xff-")
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if got := string(prog.Tokens); got != "+\xff-" {
		t.Errorf("Expected %q, got %q", "+\xff-", got)
	}
}

func TestScanPositions(t *testing.T) {
	prog, err := ScanString("prog.b", "+\n-.")
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	last := prog.Positions[3]
	if last.Line != 2 || last.Column != 2 {
		t.Errorf("Expected 2:2, got %d:%d", last.Line, last.Column)
	}
	if last.Filename != "prog.b" {
		t.Errorf("Expected filename prog.b, got %q", last.Filename)
	}
}

func TestFold(t *testing.T) {
	for c := 0; c < 256; c++ {
		b := byte(c)
		got := Fold(b)
		switch {
		case b >= 'A' && b <= 'Z':
			if got != b+32 {
				t.Errorf("Fold(%q) = %q", b, got)
			}
		default:
			if got != b {
				t.Errorf("Fold(%#x) changed to %#x", b, got)
			}
		}
	}
}

func TestScanFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.b")
	if err := os.WriteFile(path, []byte("+++.\n"), 0644); err != nil {
		t.Fatal(err)
	}
	prog, err := ScanFile(path)
	if err != nil {
		t.Fatalf("ScanFile error: %v", err)
	}
	if prog.Name != path {
		t.Errorf("Expected name %q, got %q", path, prog.Name)
	}
	if string(prog.Tokens) != "+++.\n" {
		t.Errorf("Unexpected tokens %q", prog.Tokens)
	}
}

func TestScanFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.b")
	_, err := ScanFile(path)
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if !errors.Is(err, ErrSourceUnreadable) {
		t.Errorf("Expected ErrSourceUnreadable, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist in chain, got %v", err)
	}
	if !strings.Contains(err.Error(), "missing.b") {
		t.Errorf("Expected path in message, got %q", err.Error())
	}
}

func TestScanReadFailure(t *testing.T) {
	_, err := Scan("broken", iotest.ErrReader(errors.New("disk on fire")))
	var rerr *ReadError
	if !errors.As(err, &rerr) {
		t.Fatalf("Expected *ReadError, got %v", err)
	}
	if rerr.Name != "broken" {
		t.Errorf("Expected name broken, got %q", rerr.Name)
	}
}
