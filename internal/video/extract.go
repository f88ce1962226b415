package video

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wader/subcat/internal/goffmpeg"
)

var extractPixFmts = map[Format]string{
	FormatRGB32: "bgra",
	FormatRGB24: "bgr24",
}

// Extract grabs the frame at t seconds from the first video stream of the
// media file at path. Printer can be nil.
func Extract(ctx context.Context, path string, t float64, format Format, flipped bool, debugLog goffmpeg.Printer) (*Frame, error) {
	pixFmt, ok := extractPixFmts[format]
	if !ok {
		return nil, fmt.Errorf("can't extract frames as %s", format)
	}

	fp := goffmpeg.FFProbeCmd{Context: ctx, Input: goffmpeg.Input{File: path}, DebugLog: debugLog}
	pr, err := fp.Result()
	if err != nil {
		return nil, err
	}
	s, ok := pr.FindFirstStreamCodecType("video")
	if !ok {
		return nil, fmt.Errorf("%s: no video stream", path)
	}
	if debugLog != nil {
		debugLog.Printf("%s: %s %dx%d", path, pr, s.DisplayWidth(), s.DisplayHeight())
	}

	f, err := NewFrame(int(s.DisplayWidth()), int(s.DisplayHeight()), format, flipped)
	if err != nil {
		return nil, err
	}

	chain := goffmpeg.FilterChain{
		{Name: "format", Inputs: []string{"0:v:0"}, Options: map[string]string{"pix_fmts": pixFmt}},
	}
	// bottom-up storage, first row out of ffmpeg is the last image row
	if flipped {
		chain = append(chain, goffmpeg.Filter{Name: "vflip"})
	}
	chain[len(chain)-1].Outputs = []string{"out"}

	raw := &bytes.Buffer{}
	c := &goffmpeg.FFmpegCmd{
		Context:     ctx,
		DebugLog:    debugLog,
		FilterGraph: &goffmpeg.FilterGraph{chain},
		Inputs: []*goffmpeg.Input{{
			Flags: []string{"-ss", goffmpeg.SecondsToPosition(t)},
			File:  path,
		}},
		Outputs: []*goffmpeg.Output{{
			Maps:    []*goffmpeg.Map{{Specifier: "[out]", Codec: "rawvideo"}},
			Format:  "rawvideo",
			Options: map[string]string{"pix_fmt": pixFmt},
			Flags:   []string{"-frames:v", "1"},
			File:    raw,
		}},
	}
	if err := c.Run(); err != nil {
		return nil, err
	}

	bpp, _ := f.bytesPerPixel()
	rowBytes := f.W * bpp
	if raw.Len() != rowBytes*f.H {
		return nil, fmt.Errorf("%s: expected %d bytes of frame data at %ss, got %d", path, rowBytes*f.H, goffmpeg.SecondsToPosition(t), raw.Len())
	}
	rb := raw.Bytes()
	for y := 0; y < f.H; y++ {
		copy(f.Data[0][y*f.Pitch[0]:], rb[y*rowBytes:(y+1)*rowBytes])
	}

	return f, nil
}
