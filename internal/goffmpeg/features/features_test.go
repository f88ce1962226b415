package features_test

import (
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/wader/subcat/internal/goffmpeg/features"
)

func TestParseVersion(t *testing.T) {
	testCases := []struct {
		line     string
		expected features.VersionParts
	}{
		{
			line:     "ffmpeg version n4.0 Copyright (c) 2000-2018 the FFmpeg developers",
			expected: features.VersionParts{Release: "n4.0", Major: 4, Minor: 0},
		},
		{
			line:     "ffmpeg version 4.2.1 Copyright (c) 2000-2019 the FFmpeg developers",
			expected: features.VersionParts{Release: "4.2.1", Major: 4, Minor: 2, Patch: 1},
		},
		{
			line:     "ffmpeg version 7.1.1-1ubuntu1 Copyright (c) 2000-2025 the FFmpeg developers",
			expected: features.VersionParts{Release: "7.1.1-1ubuntu1", Major: 7, Minor: 1, Patch: 1},
		},
	}
	for i, tC := range testCases {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			actual, err := features.ParseVersion(tC.line + "\nbuilt with gcc\n")
			if err != nil {
				t.Fatal(err)
			}
			actual.Full = ""
			if !reflect.DeepEqual(tC.expected, actual) {
				t.Errorf("expected %#v, got %#v", tC.expected, actual)
			}
		})
	}
}

func TestParseVersionError(t *testing.T) {
	if _, err := features.ParseVersion("not ffmpeg\n"); err == nil {
		t.Error("expected error")
	}
}

const filtersOutput = `Filters:
  T.. = Timeline support
  .S. = Slice threading
  ..C = Command support
  A = Audio input/output
  V = Video input/output
  N = Dynamic number and/or type of input/output
  | = Source or sink filter
 ... abench            A->A       Benchmark part of a filtergraph.
 ... ass               V->V       Render ASS subtitles onto input video using the libass library.
 ..C color             |->V       Provide an uniformly colored input.
 T.. subtitles         V->V       Render text subtitles onto input video using the libass library.
`

func TestParseFilters(t *testing.T) {
	fs, err := features.ParseFilters(strings.NewReader(filtersOutput))
	if err != nil {
		t.Fatal(err)
	}
	expected := []features.Filter{
		{Name: "abench", Description: "Benchmark part of a filtergraph.", Inputs: "A", Outputs: "A"},
		{Name: "ass", Description: "Render ASS subtitles onto input video using the libass library.", Inputs: "V", Outputs: "V"},
		{Name: "color", Description: "Provide an uniformly colored input.", Inputs: "|", Outputs: "V"},
		{Name: "subtitles", Description: "Render text subtitles onto input video using the libass library.", Inputs: "V", Outputs: "V", Timeline: true},
	}
	if !reflect.DeepEqual(expected, fs) {
		t.Errorf("expected %#v, got %#v", expected, fs)
	}
}

func TestParseFiltersNoHeader(t *testing.T) {
	if _, err := features.ParseFilters(strings.NewReader("garbage\n")); err == nil {
		t.Error("expected error")
	}
}
