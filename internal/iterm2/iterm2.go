// Package iterm2 shows images inline using the iTerm2 OSC 1337 protocol
package iterm2

import (
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/term"
)

// TODO: query somehow
func IsCompatible() bool {
	return os.Getenv("TERM_PROGRAM") == "iTerm.app" || os.Getenv("LC_TERMINAL") == "iTerm2"
}

func Image(w io.Writer, m image.Image) error {
	if _, err := w.Write([]byte("\x1b]1337;File=inline=1:")); err != nil {
		return err
	}
	bw := base64.NewEncoder(base64.StdEncoding, w)
	if err := png.Encode(bw, m); err != nil {
		return err
	}
	if err := bw.Close(); err != nil {
		return err
	}
	if _, err := w.Write([]byte("\x07")); err != nil {
		return err
	}
	return nil
}

// Fit scales m down to fit inside maxW x maxH keeping aspect ratio. Images
// that already fit, or a zero max, are returned as is.
func Fit(m image.Image, maxW, maxH int) image.Image {
	b := m.Bounds()
	if maxW <= 0 || maxH <= 0 || (b.Dx() <= maxW && b.Dy() <= maxH) {
		return m
	}

	w, h := maxW, b.Dy()*maxW/b.Dx()
	if h > maxH {
		w, h = b.Dx()*maxH/b.Dy(), maxH
	}
	w, h = max(w, 1), max(h, 1)

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), m, b, draw.Src, nil)
	return dst
}

type CellSize struct {
	Width  float64
	Height float64
	Scale  float64
}

// parseCellSize parses a ReportCellSize response
// note order is height;width[;scale]
// "\x1b]1337;ReportCellSize=14.0;6.0;1.0\x1b\\"
func parseCellSize(s string) (CellSize, error) {
	const p = "ReportCellSize="
	start := strings.Index(s, p)
	if start == -1 {
		return CellSize{}, errors.New("no cell size in response")
	}
	s = s[start+len(p):]
	if stop := strings.Index(s, "\x1b\\"); stop != -1 {
		s = s[:stop]
	}

	parts := strings.Split(s, ";")
	sz := CellSize{Scale: 1}
	var err error
	if sz.Height, err = strconv.ParseFloat(parts[0], 64); err != nil {
		return CellSize{}, err
	}
	if len(parts) > 1 {
		if sz.Width, err = strconv.ParseFloat(parts[1], 64); err != nil {
			return CellSize{}, err
		}
	}
	if len(parts) > 2 {
		if sz.Scale, err = strconv.ParseFloat(parts[2], 64); err != nil {
			return CellSize{}, err
		}
	}

	return sz, nil
}

func ReportCellSize(f *os.File) (sz CellSize, err error) {
	state, err := term.MakeRaw(int(f.Fd()))
	if err != nil {
		return CellSize{}, err
	}
	defer func() {
		if rerr := term.Restore(int(f.Fd()), state); err == nil {
			err = rerr
		}
	}()

	if _, err := f.Write([]byte("\x1b]1337;ReportCellSize\x07")); err != nil {
		return CellSize{}, err
	}

	b := make([]byte, 50)
	n, err := f.Read(b)
	if err != nil {
		return CellSize{}, err
	}

	return parseCellSize(string(b[:n]))
}

type Resolution struct {
	Width  int
	Height int
}

// PixelResolution of the terminal window f is attached to
func PixelResolution(f *os.File) (Resolution, error) {
	w, h, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return Resolution{}, err
	}
	sz, err := ReportCellSize(f)
	if err != nil {
		return Resolution{}, err
	}

	return Resolution{
		Width:  w * int(sz.Width*sz.Scale),
		Height: h * int(sz.Height*sz.Scale),
	}, nil
}

func ClearScrollback(w io.Writer) error {
	if _, err := w.Write([]byte("\x1b]1337;ClearScrollback\x07")); err != nil {
		return err
	}
	return nil
}
