// Package video has the frame buffers subtitles are drawn onto
package video

import (
	"fmt"
	"image"
	"image/color"
)

// Format of a frame buffer
type Format int

const (
	// FormatRGB32 is 4 bytes per pixel in B, G, R, A memory order
	FormatRGB32 Format = iota
	// FormatRGB24 is 3 bytes per pixel in B, G, R memory order, rows padded to 4 bytes
	FormatRGB24
	// FormatYUY2 is packed 4:2:2 Y0 U Y1 V
	FormatYUY2
	// FormatYV12 is planar 4:2:0 Y, V, U
	FormatYV12
)

var formatNames = map[Format]string{
	FormatRGB32: "rgb32",
	FormatRGB24: "rgb24",
	FormatYUY2:  "yuy2",
	FormatYV12:  "yv12",
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return fmt.Sprintf("unknown (%d)", int(f))
}

// ParseFormat parses a format name as returned by String
func ParseFormat(s string) (Format, error) {
	for f, n := range formatNames {
		if n == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown frame format %q", s)
}

// Set makes Format a flag.Value
func (f *Format) Set(s string) error {
	pf, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = pf
	return nil
}

// Frame is a frame buffer. Data[i] is plane i in memory order with
// Pitch[i] bytes per row. When Flipped the first row in memory is the
// bottom row of the image.
type Frame struct {
	Data    [4][]byte
	W       int
	H       int
	Pitch   [4]int
	Flipped bool
	Format  Format
}

// NewFrame allocates a zeroed frame
func NewFrame(w, h int, format Format, flipped bool) (*Frame, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", w, h)
	}

	f := &Frame{W: w, H: h, Format: format, Flipped: flipped}
	switch format {
	case FormatRGB32:
		f.Pitch[0] = w * 4
	case FormatRGB24:
		f.Pitch[0] = (w*3 + 3) &^ 3
	case FormatYUY2:
		f.Pitch[0] = ((w + 1) / 2) * 4
	case FormatYV12:
		f.Pitch[0] = w
		f.Pitch[1] = (w + 1) / 2
		f.Pitch[2] = (w + 1) / 2
	default:
		return nil, fmt.Errorf("unsupported frame format %s", format)
	}

	for i, pitch := range f.Pitch {
		if pitch == 0 {
			continue
		}
		rows := h
		if format == FormatYV12 && i > 0 {
			rows = (h + 1) / 2
		}
		f.Data[i] = make([]byte, pitch*rows)
	}

	return f, nil
}

// PlaneRows is the number of rows of plane i, 0 for unused planes
func (f *Frame) PlaneRows(i int) int {
	if f.Pitch[i] == 0 {
		return 0
	}
	return len(f.Data[i]) / f.Pitch[i]
}

// rowOffset is the byte offset in plane 0 of image row y
func (f *Frame) rowOffset(y int) int {
	if f.Flipped {
		return (f.H - 1 - y) * f.Pitch[0]
	}
	return y * f.Pitch[0]
}

func (f *Frame) bytesPerPixel() (int, error) {
	switch f.Format {
	case FormatRGB32:
		return 4, nil
	case FormatRGB24:
		return 3, nil
	}
	return 0, fmt.Errorf("frame format %s has no RGB pixels", f.Format)
}

// FromImage creates a RGB32 or RGB24 frame with the content of m
func FromImage(m image.Image, format Format, flipped bool) (*Frame, error) {
	b := m.Bounds()
	f, err := NewFrame(b.Dx(), b.Dy(), format, flipped)
	if err != nil {
		return nil, err
	}
	bpp, err := f.bytesPerPixel()
	if err != nil {
		return nil, err
	}

	for y := 0; y < f.H; y++ {
		row := f.Data[0][f.rowOffset(y):]
		for x := 0; x < f.W; x++ {
			c := color.NRGBAModel.Convert(m.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			px := row[x*bpp:]
			px[0], px[1], px[2] = c.B, c.G, c.R
			if bpp == 4 {
				px[3] = c.A
			}
		}
	}

	return f, nil
}

// Image returns a copy of a RGB32 or RGB24 frame as an opaque image
func (f *Frame) Image() (*image.NRGBA, error) {
	bpp, err := f.bytesPerPixel()
	if err != nil {
		return nil, err
	}

	m := image.NewNRGBA(image.Rect(0, 0, f.W, f.H))
	for y := 0; y < f.H; y++ {
		row := f.Data[0][f.rowOffset(y):]
		dst := m.Pix[y*m.Stride:]
		for x := 0; x < f.W; x++ {
			px := row[x*bpp:]
			dst[x*4+0] = px[2]
			dst[x*4+1] = px[1]
			dst[x*4+2] = px[0]
			dst[x*4+3] = 0xff
		}
	}

	return m, nil
}
