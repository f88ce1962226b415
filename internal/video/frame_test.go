package video_test

import (
	"image"
	"image/color"
	"path/filepath"
	"reflect"
	"strconv"
	"testing"

	"github.com/wader/subcat/internal/video"
)

func TestNewFrame(t *testing.T) {
	testCases := []struct {
		w, h     int
		format   video.Format
		pitch    [4]int
		lens     [4]int
		rows     [4]int
		expError bool
	}{
		{w: 4, h: 2, format: video.FormatRGB32, pitch: [4]int{16}, lens: [4]int{32}, rows: [4]int{2}},
		{w: 5, h: 2, format: video.FormatRGB24, pitch: [4]int{16}, lens: [4]int{32}, rows: [4]int{2}},
		{w: 4, h: 3, format: video.FormatRGB24, pitch: [4]int{12}, lens: [4]int{36}, rows: [4]int{3}},
		{w: 5, h: 1, format: video.FormatYUY2, pitch: [4]int{12}, lens: [4]int{12}, rows: [4]int{1}},
		{w: 5, h: 3, format: video.FormatYV12, pitch: [4]int{5, 3, 3}, lens: [4]int{15, 6, 6}, rows: [4]int{3, 2, 2}},
		{w: 0, h: 3, format: video.FormatRGB32, expError: true},
		{w: 1, h: 1, format: video.Format(99), expError: true},
	}
	for i, tC := range testCases {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			f, err := video.NewFrame(tC.w, tC.h, tC.format, false)
			if tC.expError {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if tC.pitch != f.Pitch {
				t.Errorf("expected pitch %v, got %v", tC.pitch, f.Pitch)
			}
			var lens [4]int
			for i, d := range f.Data {
				lens[i] = len(d)
			}
			if tC.lens != lens {
				t.Errorf("expected lens %v, got %v", tC.lens, lens)
			}
			var rows [4]int
			for i := range rows {
				rows[i] = f.PlaneRows(i)
			}
			if tC.rows != rows {
				t.Errorf("expected rows %v, got %v", tC.rows, rows)
			}
		})
	}
}

func testImage() *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	m.Set(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	m.Set(2, 0, color.NRGBA{R: 40, G: 50, B: 60, A: 255})
	m.Set(0, 1, color.NRGBA{R: 70, G: 80, B: 90, A: 255})
	m.Set(1, 1, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	return m
}

func TestImageRoundTrip(t *testing.T) {
	for _, format := range []video.Format{video.FormatRGB32, video.FormatRGB24} {
		for _, flipped := range []bool{false, true} {
			t.Run(format.String()+"/"+strconv.FormatBool(flipped), func(t *testing.T) {
				expected := testImage()
				for i := 3; i < len(expected.Pix); i += 4 {
					expected.Pix[i] = 0xff
				}
				f, err := video.FromImage(expected, format, flipped)
				if err != nil {
					t.Fatal(err)
				}
				actual, err := f.Image()
				if err != nil {
					t.Fatal(err)
				}
				if !reflect.DeepEqual(expected.Pix, actual.Pix) {
					t.Errorf("expected %v, got %v", expected.Pix, actual.Pix)
				}
			})
		}
	}
}

func TestFlippedStorage(t *testing.T) {
	f, err := video.FromImage(testImage(), video.FormatRGB32, true)
	if err != nil {
		t.Fatal(err)
	}
	// memory row 0 is image row 1, B G R A
	expected := []byte{90, 80, 70, 255, 3, 2, 1, 255}
	if actual := f.Data[0][0:8]; !reflect.DeepEqual(expected, actual) {
		t.Errorf("expected %v, got %v", expected, actual)
	}
}

func TestImageUnsupportedFormat(t *testing.T) {
	f, err := video.NewFrame(2, 2, video.FormatYV12, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Image(); err == nil {
		t.Error("expected error")
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range []video.Format{video.FormatRGB32, video.FormatRGB24, video.FormatYUY2, video.FormatYV12} {
		actual, err := video.ParseFormat(f.String())
		if err != nil {
			t.Fatal(err)
		}
		if f != actual {
			t.Errorf("expected %s, got %s", f, actual)
		}
	}
	if _, err := video.ParseFormat("rgb48"); err == nil {
		t.Error("expected error")
	}

	f := video.FormatRGB32
	if err := f.Set("yv12"); err != nil {
		t.Fatal(err)
	}
	if f != video.FormatYV12 {
		t.Errorf("expected %s, got %s", video.FormatYV12, f)
	}
	if err := f.Set("nope"); err == nil {
		t.Error("expected error")
	}
}

func TestImageFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "a.bmp"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			expected := testImage()
			for i := 3; i < len(expected.Pix); i += 4 {
				expected.Pix[i] = 0xff
			}
			if err := video.WriteImage(path, expected); err != nil {
				t.Fatal(err)
			}
			m, err := video.ReadImage(path)
			if err != nil {
				t.Fatal(err)
			}
			f, err := video.FromImage(m, video.FormatRGB32, false)
			if err != nil {
				t.Fatal(err)
			}
			actual, err := f.Image()
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(expected.Pix, actual.Pix) {
				t.Errorf("expected %v, got %v", expected.Pix, actual.Pix)
			}
		})
	}

	if err := video.WriteImage(filepath.Join(dir, "a.gif"), testImage()); err == nil {
		t.Error("expected error for unknown extension")
	}
}
