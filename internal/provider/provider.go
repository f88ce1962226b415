// Package provider is the registry of subtitle providers, things that
// draw a loaded subtitle document onto video frames.
package provider

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/wader/subcat/internal/video"
)

// ErrUnknownProvider is returned by Create for unregistered names
var ErrUnknownProvider = errors.New("unknown subtitle provider")

// Document is a subtitle document a provider can consume
type Document interface {
	SaveMemory(encoding string) ([]byte, error)
	// Release drops the document, it is not used after
	Release()
}

// Provider draws subtitles. Not safe for concurrent use.
type Provider interface {
	// LoadSubtitles consumes doc, replacing what was loaded before
	LoadSubtitles(doc Document) error
	// DrawSubtitles draws onto dst at t seconds, nothing if nothing is loaded
	DrawSubtitles(dst *video.Frame, t float64)
	Close() error
}

// Factory creates providers of one kind
type Factory interface {
	// Create a provider, subType is a kind specific preference, ex a renderer name
	Create(subType string) (Provider, error)
	// SubTypes available right now
	SubTypes() []string
}

var (
	factoriesMu sync.RWMutex
	factories   = map[string]Factory{}
)

// Register makes a provider available by name, panics if registered twice
func Register(name string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	if f == nil {
		panic("provider: Register factory is nil")
	}
	if _, dup := factories[name]; dup {
		panic("provider: Register called twice for " + name)
	}
	factories[name] = f
}

// Names of registered providers, sorted
func Names() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	var ns []string
	for n := range factories {
		ns = append(ns, n)
	}
	sort.Strings(ns)
	return ns
}

// SubTypes of the named provider, nil if unknown
func SubTypes(name string) []string {
	factoriesMu.RLock()
	f, ok := factories[name]
	factoriesMu.RUnlock()
	if !ok {
		return nil
	}
	return f.SubTypes()
}

// Create a provider by name
func Create(name string, subType string) (Provider, error) {
	factoriesMu.RLock()
	f, ok := factories[name]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	return f.Create(subType)
}
