// Package goffmpeg builds and runs ffmpeg and ffprobe commands
package goffmpeg

import (
	"strconv"

	"github.com/wader/subcat/internal/goffmpeg/features"
)

// Printer is something that printfs (used for debug logging)
type Printer interface {
	Printf(format string, v ...interface{})
}

// NopPrinter is discard printfer
type NopPrinter struct{}

// Printf nop
func (NopPrinter) Printf(format string, v ...interface{}) {}

// SecondsToPosition float seconds to ffmpeg position format, millisecond precision
func SecondsToPosition(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}

// Version return ffmpeg version
func Version() (features.VersionParts, error) {
	return features.Version(FFmpegPath)
}

// HasFilter returns true if ffmpeg was built with the named filter
func HasFilter(name string) (bool, error) {
	fs, err := features.Filters(FFmpegPath)
	if err != nil {
		return false, err
	}
	for _, f := range fs {
		if f.Name == name {
			return true, nil
		}
	}
	return false, nil
}
