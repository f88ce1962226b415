// Package subtitle is a minimal subtitle document: the lines of an ASS or
// SRT script kept as is, enough to hand a script to a renderer.
package subtitle

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	FormatASS = "ass"
	FormatSRT = "srt"
)

// ErrReleased is returned when using a document after Release
var ErrReleased = errors.New("subtitle document already released")

// Document is a subtitle script
type Document struct {
	Format string
	Lines  []string

	released bool
}

// Load reads a script, UTF-8 unless there is a UTF-8/UTF-16 BOM
func Load(r io.Reader) (*Document, error) {
	tr := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	d := &Document{Format: FormatSRT}
	s := bufio.NewScanner(tr)
	s.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for s.Scan() {
		line := strings.TrimSuffix(s.Text(), "\r")
		if strings.EqualFold(strings.TrimSpace(line), "[Script Info]") {
			d.Format = FormatASS
		}
		d.Lines = append(d.Lines, line)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	return d, nil
}

// LoadFile loads a script from path
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// SaveMemory serializes the script using the named encoding, ex "UTF-8"
func (d *Document) SaveMemory(encoding string) ([]byte, error) {
	if d.released {
		return nil, ErrReleased
	}
	e, err := htmlindex.Get(encoding)
	if err != nil {
		return nil, fmt.Errorf("encoding %q: %w", encoding, err)
	}

	var sb strings.Builder
	for _, l := range d.Lines {
		sb.WriteString(l)
		sb.WriteString("\n")
	}

	b, err := e.NewEncoder().Bytes([]byte(sb.String()))
	if err != nil {
		return nil, fmt.Errorf("encoding %q: %w", encoding, err)
	}
	return b, nil
}

// Release drops the content, the document can't be used after
func (d *Document) Release() {
	d.released = true
	d.Lines = nil
}
