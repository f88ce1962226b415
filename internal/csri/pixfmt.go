package csri

import "fmt"

// PixFmt is a CSRI pixel format, values match enum csri_pixfmt
type PixFmt uint32

const (
	PixFmtRGBA PixFmt = 0x0000
	PixFmtARGB PixFmt = 0x0001
	PixFmtBGRA PixFmt = 0x0002
	PixFmtABGR PixFmt = 0x0003

	// X is a padding byte with undefined content
	PixFmtRGBX PixFmt = 0x0100
	PixFmtXRGB PixFmt = 0x0101
	PixFmtBGRX PixFmt = 0x0102
	PixFmtXBGR PixFmt = 0x0103

	PixFmtRGB PixFmt = 0x0200
	PixFmtBGR PixFmt = 0x0201

	PixFmtAYUV PixFmt = 0x1000
	PixFmtYUVA PixFmt = 0x1001
	PixFmtYVUA PixFmt = 0x1002

	PixFmtYUY2 PixFmt = 0x1100

	PixFmtYV12A PixFmt = 0x2011
	PixFmtYV12  PixFmt = 0x2111
)

var pixFmtNames = map[PixFmt]string{
	PixFmtRGBA:  "CSRI_F_RGBA",
	PixFmtARGB:  "CSRI_F_ARGB",
	PixFmtBGRA:  "CSRI_F_BGRA",
	PixFmtABGR:  "CSRI_F_ABGR",
	PixFmtRGBX:  "CSRI_F_RGB_",
	PixFmtXRGB:  "CSRI_F__RGB",
	PixFmtBGRX:  "CSRI_F_BGR_",
	PixFmtXBGR:  "CSRI_F__BGR",
	PixFmtRGB:   "CSRI_F_RGB",
	PixFmtBGR:   "CSRI_F_BGR",
	PixFmtAYUV:  "CSRI_F_AYUV",
	PixFmtYUVA:  "CSRI_F_YUVA",
	PixFmtYVUA:  "CSRI_F_YVUA",
	PixFmtYUY2:  "CSRI_F_YUY2",
	PixFmtYV12A: "CSRI_F_YV12A",
	PixFmtYV12:  "CSRI_F_YV12",
}

func (pf PixFmt) String() string {
	if s, ok := pixFmtNames[pf]; ok {
		return s
	}
	return fmt.Sprintf("CSRI_F_unknown(%#x)", uint32(pf))
}

// Layout is the byte index of each channel in a packed pixel, -1 if absent
type Layout struct {
	R, G, B, A int
}

var packedLayouts = map[PixFmt]Layout{
	PixFmtRGBA: {R: 0, G: 1, B: 2, A: 3},
	PixFmtARGB: {R: 1, G: 2, B: 3, A: 0},
	PixFmtBGRA: {R: 2, G: 1, B: 0, A: 3},
	PixFmtABGR: {R: 3, G: 2, B: 1, A: 0},
	PixFmtRGBX: {R: 0, G: 1, B: 2, A: -1},
	PixFmtXRGB: {R: 1, G: 2, B: 3, A: -1},
	PixFmtBGRX: {R: 2, G: 1, B: 0, A: -1},
	PixFmtXBGR: {R: 3, G: 2, B: 1, A: -1},
	PixFmtRGB:  {R: 0, G: 1, B: 2, A: -1},
	PixFmtBGR:  {R: 2, G: 1, B: 0, A: -1},
}

// Packed returns true for single plane RGB formats
func (pf PixFmt) Packed() bool {
	_, ok := packedLayouts[pf]
	return ok
}

// Layout of a packed format, ok is false for planar and YUV formats
func (pf PixFmt) Layout() (Layout, bool) {
	l, ok := packedLayouts[pf]
	return l, ok
}

// BytesPerPixel of a packed format, 0 for everything else
func (pf PixFmt) BytesPerPixel() int {
	switch {
	case !pf.Packed():
		return 0
	case pf&0xff00 == 0x0200:
		return 3
	default:
		return 4
	}
}
