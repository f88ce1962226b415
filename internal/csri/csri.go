// Package csri is the Common Subtitle Renderer Interface as seen from Go.
//
// A Runtime is a chain of renderers, walked from Default() thru Next()
// until nil. A renderer opens an Instance from an in memory script; the
// instance is asked for an output format and then renders into frames at
// a given time. Backends add themselves to DefaultRuntime from init(),
// see package all.
package csri

import (
	"errors"
	"fmt"
	"iter"
)

// Info describes a renderer, csri_info
type Info struct {
	Name      string
	Specific  string
	LongName  string
	Author    string
	Copyright string
}

// OpenFlag is a renderer specific open option, csri_openflag
type OpenFlag struct {
	Name  string
	Value string
	Next  *OpenFlag
}

// Lookup returns the value of the first flag named name
func (f *OpenFlag) Lookup(name string) (string, bool) {
	for ; f != nil; f = f.Next {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Renderer is one entry in a runtime chain
type Renderer interface {
	Info() Info
	// OpenMem opens an instance from a script, flags can be nil.
	// The renderer may not keep a reference to data after return.
	OpenMem(data []byte, flags *OpenFlag) (Instance, error)
}

// Instance is an opened script, csri_inst
type Instance interface {
	// RequestFmt negotiates the format of the following Render calls
	RequestFmt(f Fmt) error
	// Render draws subtitles at time t in seconds into frame in place
	Render(frame *Frame, t float64)
	// Close releases the instance, it must not be used after
	Close() error
}

// Runtime is a renderer chain, Default returns nil when empty and Next
// returns nil at the end.
type Runtime interface {
	Default() Renderer
	Next(r Renderer) Renderer
}

// Renderers walks the chain of rt lazily
func Renderers(rt Runtime) iter.Seq[Renderer] {
	return func(yield func(Renderer) bool) {
		for r := rt.Default(); r != nil; r = rt.Next(r) {
			if !yield(r) {
				return
			}
		}
	}
}

// ErrUnsupportedFmt is returned by RequestFmt for formats a renderer can't draw
var ErrUnsupportedFmt = errors.New("unsupported format")

// ErrFmt is a non-zero csri_request_fmt result
type ErrFmt struct {
	Code int
	Fmt  Fmt
}

func (e ErrFmt) Error() string {
	return fmt.Sprintf("format %s %dx%d rejected: %d", e.Fmt.PixFmt, e.Fmt.Width, e.Fmt.Height, e.Code)
}
