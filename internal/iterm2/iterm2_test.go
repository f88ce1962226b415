package iterm2

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"strings"
	"testing"
)

func TestImage(t *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	m.Set(1, 1, color.NRGBA{R: 255, A: 255})

	b := &bytes.Buffer{}
	if err := Image(b, m); err != nil {
		t.Fatal(err)
	}
	s := b.String()
	const prefix = "\x1b]1337;File=inline=1:"
	if !strings.HasPrefix(s, prefix) || !strings.HasSuffix(s, "\x07") {
		t.Fatalf("expected OSC 1337 sequence, got %q", s)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSuffix(strings.TrimPrefix(s, prefix), "\x07"))
	if err != nil {
		t.Fatal(err)
	}
	dm, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	if m.Bounds() != dm.Bounds() {
		t.Errorf("expected %v, got %v", m.Bounds(), dm.Bounds())
	}
	if r, _, _, _ := dm.At(1, 1).RGBA(); r != 0xffff {
		t.Errorf("expected red pixel, got %v", dm.At(1, 1))
	}
}

func TestFit(t *testing.T) {
	testCases := []struct {
		w, h       int
		maxW, maxH int
		expected   image.Rectangle
	}{
		{w: 100, h: 50, maxW: 200, maxH: 200, expected: image.Rect(0, 0, 100, 50)},
		{w: 100, h: 50, maxW: 0, maxH: 0, expected: image.Rect(0, 0, 100, 50)},
		{w: 100, h: 50, maxW: 50, maxH: 200, expected: image.Rect(0, 0, 50, 25)},
		{w: 100, h: 50, maxW: 200, maxH: 10, expected: image.Rect(0, 0, 20, 10)},
		{w: 1000, h: 1, maxW: 10, maxH: 10, expected: image.Rect(0, 0, 10, 1)},
	}
	for i, tC := range testCases {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			m := image.NewNRGBA(image.Rect(0, 0, tC.w, tC.h))
			actual := Fit(m, tC.maxW, tC.maxH).Bounds()
			if tC.expected != actual {
				t.Errorf("expected %v, got %v", tC.expected, actual)
			}
		})
	}
}

func TestParseCellSize(t *testing.T) {
	testCases := []struct {
		s        string
		expected CellSize
		expError bool
	}{
		{s: "\x1b]1337;ReportCellSize=14.0;6.0;2.0\x1b\\", expected: CellSize{Height: 14, Width: 6, Scale: 2}},
		{s: "\x1b]1337;ReportCellSize=14.0;6.0\x1b\\", expected: CellSize{Height: 14, Width: 6, Scale: 1}},
		{s: "garbage", expError: true},
		{s: "\x1b]1337;ReportCellSize=a;6.0\x1b\\", expError: true},
	}
	for i, tC := range testCases {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			actual, err := parseCellSize(tC.s)
			if tC.expError {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if tC.expected != actual {
				t.Errorf("expected %v, got %v", tC.expected, actual)
			}
		})
	}
}
