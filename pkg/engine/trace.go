package engine

import (
	"io"
	"strconv"
)

// TraceEvent describes the machine just before a token is executed.
// Tape aliases the engine's tape and is only valid during the call.
type TraceEvent struct {
	Line     int
	Position int // 1-based index of the token
	Token    byte
	Cursor   int
	Tape     []byte
}

// TraceFunc is called once per dispatched token.
type TraceFunc func(TraceEvent)

// TraceTo returns a TraceFunc writing one line per token to w:
//
//	line: 1, token_index: 3, pointer address: 0, memory: [2, 0, 0]
func TraceTo(w io.Writer) TraceFunc {
	var buf []byte
	return func(ev TraceEvent) {
		buf = buf[:0]
		buf = append(buf, "line: "...)
		buf = strconv.AppendInt(buf, int64(ev.Line), 10)
		buf = append(buf, ", token_index: "...)
		buf = strconv.AppendInt(buf, int64(ev.Position), 10)
		buf = append(buf, ", pointer address: "...)
		buf = strconv.AppendInt(buf, int64(ev.Cursor), 10)
		buf = append(buf, ", memory: ["...)
		for i, c := range ev.Tape {
			if i > 0 {
				buf = append(buf, ", "...)
			}
			buf = strconv.AppendUint(buf, uint64(c), 10)
		}
		buf = append(buf, "]\n"...)
		w.Write(buf)
	}
}
