package main

import (
	"strconv"
	"testing"

	"github.com/wader/subcat/internal/video"
)

func TestTimestampSet(t *testing.T) {
	testCases := []struct {
		s        string
		expected float64
		expError bool
	}{
		{s: "12", expected: 12},
		{s: "1.5", expected: 1.5},
		{s: "1:02.5", expected: 62.5},
		{s: "1:00:00", expected: 3600},
		{s: "0:0:0.001", expected: 0.001},
		{s: "1:2:3:4", expError: true},
		{s: "a", expError: true},
		{s: "-1", expError: true},
		{s: "", expError: true},
	}
	for i, tC := range testCases {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			var ts timestamp
			err := ts.Set(tC.s)
			if tC.expError {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if tC.expected != float64(ts) {
				t.Errorf("expected %v, got %v", tC.expected, float64(ts))
			}
		})
	}
}

func TestSizeSet(t *testing.T) {
	testCases := []struct {
		s        string
		expected size
		expError bool
	}{
		{s: "640x360", expected: size{width: 640, height: 360}},
		{s: "1x1", expected: size{width: 1, height: 1}},
		{s: "640", expError: true},
		{s: "0x10", expError: true},
		{s: "ax10", expError: true},
	}
	for i, tC := range testCases {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			var sz size
			err := sz.Set(tC.s)
			if tC.expError {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if tC.expected != sz {
				t.Errorf("expected %v, got %v", tC.expected, sz)
			}
			if tC.s != sz.String() {
				t.Errorf("expected %s, got %s", tC.s, sz.String())
			}
		})
	}
}

func TestOutputFormat(t *testing.T) {
	testCases := []struct {
		format   video.Format
		expError bool
	}{
		{format: video.FormatRGB32},
		{format: video.FormatRGB24},
		{format: video.FormatYUY2, expError: true},
		{format: video.FormatYV12, expError: true},
	}
	for _, tC := range testCases {
		t.Run(tC.format.String(), func(t *testing.T) {
			err := outputFormat(tC.format)
			if tC.expError != (err != nil) {
				t.Errorf("expected error %t, got %v", tC.expError, err)
			}
		})
	}
}
