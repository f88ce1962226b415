// Package linebuffer keeps the tail of a line oriented stream, used to
// attach the last lines of ffmpeg stderr to errors.
package linebuffer

import (
	"bytes"
	"strings"
)

// LastLines is a io.Writer that remembers the last n complete lines
type LastLines struct {
	partial bytes.Buffer
	current int
	filled  int
	lines   []string
}

// NewLastLines creates a line buffer that keeps the last limit lines
func NewLastLines(limit int) *LastLines {
	if limit < 1 {
		limit = 1
	}
	return &LastLines{lines: make([]string, limit)}
}

func (lb *LastLines) Write(p []byte) (int, error) {
	lb.partial.Write(p)
	b := lb.partial.Bytes()

	pos := 0
	for {
		i := bytes.IndexAny(b[pos:], "\n\r")
		if i < 0 {
			break
		}
		lb.add(string(b[pos : pos+i+1]))
		pos += i + 1
	}
	rest := append([]byte(nil), b[pos:]...)
	lb.partial.Reset()
	lb.partial.Write(rest)

	return len(p), nil
}

// Close flushes a trailing line without newline
func (lb *LastLines) Close() error {
	if lb.partial.Len() > 0 {
		lb.add(lb.partial.String())
	}
	lb.partial.Reset()
	return nil
}

func (lb *LastLines) add(line string) {
	lb.lines[lb.current] = line
	lb.current = (lb.current + 1) % len(lb.lines)
	if lb.filled < len(lb.lines) {
		lb.filled++
	}
}

// String returns the buffered lines oldest first
func (lb *LastLines) String() string {
	var sb strings.Builder
	start := lb.current - lb.filled
	if start < 0 {
		start += len(lb.lines)
	}
	for i := 0; i < lb.filled; i++ {
		sb.WriteString(lb.lines[(start+i)%len(lb.lines)])
	}
	return sb.String()
}
