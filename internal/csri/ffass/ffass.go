// Package ffass renders ASS and SRT scripts with the ffmpeg ass and
// subtitles filters (libass).
//
// Each Render runs ffmpeg once: a transparent canvas of the negotiated
// size is shifted to the requested time, the script is drawn on it and
// the single premultiplied alpha RGBA frame is blended into the target.
package ffass

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/wader/subcat/internal/csri"
	"github.com/wader/subcat/internal/goffmpeg"
)

// RenderTimeout limits each ffmpeg run
var RenderTimeout = 30 * time.Second

var (
	registerMu sync.Mutex
	registered bool
)

func init() {
	Register()
}

// Register adds the renderers to csri.DefaultRuntime if goffmpeg.FFmpegPath
// is found and they are not already registered. Call again after changing
// the path.
func Register() bool {
	registerMu.Lock()
	defer registerMu.Unlock()
	if registered {
		return true
	}
	if _, err := exec.LookPath(goffmpeg.FFmpegPath); err != nil {
		csri.Logger().Debug("ffass: ffmpeg not found", "path", goffmpeg.FFmpegPath)
		return false
	}
	csri.Register(Renderers()...)
	registered = true
	return true
}

// Renderers returns the ass filter renderer followed by the subtitles
// filter renderer
func Renderers() []csri.Renderer {
	return []csri.Renderer{
		&renderer{
			filter: "ass",
			info: csri.Info{
				Name:      "ffmpeg_ass",
				Specific:  "ass",
				LongName:  "ffmpeg ass filter (libass)",
				Author:    "subcat",
				Copyright: "MIT",
			},
		},
		&renderer{
			filter: "subtitles",
			info: csri.Info{
				Name:      "ffmpeg_subtitles",
				Specific:  "subtitles",
				LongName:  "ffmpeg subtitles filter (libass)",
				Author:    "subcat",
				Copyright: "MIT",
			},
		},
	}
}

type renderer struct {
	filter string
	info   csri.Info
}

func (r *renderer) Info() csri.Info { return r.info }

func (r *renderer) OpenMem(data []byte, flags *csri.OpenFlag) (csri.Instance, error) {
	ext := ".srt"
	if bytes.Contains(bytes.ToLower(data), []byte("[script info]")) {
		ext = ".ass"
	}

	f, err := os.CreateTemp("", "subcat-*"+ext)
	if err != nil {
		return nil, err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, err
	}

	inst := &instance{filter: r.filter, path: f.Name()}
	if v, ok := flags.Lookup("fontsdir"); ok {
		inst.fontsDir = v
	}
	csri.Logger().Debug("ffass: opened", "renderer", r.info.Name, "path", inst.path)

	return inst, nil
}

// instance is not safe for concurrent use
type instance struct {
	filter   string
	path     string
	fontsDir string
	fmt      csri.Fmt
	hasFmt   bool
}

func (inst *instance) RequestFmt(f csri.Fmt) error {
	if f.Width <= 0 || f.Height <= 0 {
		return csri.ErrFmt{Code: -1, Fmt: f}
	}
	if !f.PixFmt.Packed() {
		return fmt.Errorf("%w: %s", csri.ErrUnsupportedFmt, f.PixFmt)
	}
	inst.fmt = f
	inst.hasFmt = true
	return nil
}

func (inst *instance) Render(frame *csri.Frame, t float64) {
	if inst.path == "" || !inst.hasFmt {
		return
	}
	overlay, err := inst.overlay(t)
	if err != nil {
		csri.Logger().Warn("ffass: render failed", "filter", inst.filter, "time", t, "error", err)
		return
	}
	Blend(frame.Planes[0], frame.PixFmt, inst.fmt.Width, inst.fmt.Height, overlay)
}

func (inst *instance) Close() error {
	if inst.path == "" {
		return nil
	}
	err := os.Remove(inst.path)
	inst.path = ""
	return err
}

type debugPrinter struct{}

func (debugPrinter) Printf(format string, v ...interface{}) {
	csri.Logger().Debug(fmt.Sprintf(format, v...))
}

// overlay renders the script at t as w*h RGBA. The filters blend onto
// transparent black so color comes out multiplied by alpha.
func (inst *instance) overlay(t float64) ([]byte, error) {
	w, h := inst.fmt.Width, inst.fmt.Height

	subOpts := map[string]string{"filename": inst.path, "alpha": "1"}
	if inst.fontsDir != "" {
		subOpts["fontsdir"] = inst.fontsDir
	}

	ctx, cancel := context.WithTimeout(context.Background(), RenderTimeout)
	defer cancel()

	raw := &bytes.Buffer{}
	c := &goffmpeg.FFmpegCmd{
		Context:  ctx,
		DebugLog: debugPrinter{},
		FilterGraph: &goffmpeg.FilterGraph{{
			{Name: "color", Options: map[string]string{
				"color": "black@0",
				"size":  strconv.Itoa(w) + "x" + strconv.Itoa(h),
				// 1ms frames, first frame is at most 1ms off
				"rate": "1000",
			}},
			{Name: "format", Options: map[string]string{"pix_fmts": "rgba"}},
			{Name: "setpts", Options: map[string]string{"expr": "PTS+" + goffmpeg.SecondsToPosition(t) + "/TB"}},
			{Name: inst.filter, Options: subOpts, Outputs: []string{"out"}},
		}},
		Outputs: []*goffmpeg.Output{{
			Maps:    []*goffmpeg.Map{{Specifier: "[out]", Codec: "rawvideo"}},
			Format:  "rawvideo",
			Options: map[string]string{"pix_fmt": "rgba"},
			Flags:   []string{"-frames:v", "1"},
			File:    raw,
		}},
	}
	if err := c.Run(); err != nil {
		return nil, err
	}
	if raw.Len() != w*h*4 {
		return nil, fmt.Errorf("expected %d bytes of overlay, got %d", w*h*4, raw.Len())
	}

	return raw.Bytes(), nil
}

// over is s + d*(1-a), s is already multiplied by its alpha
func over(s, d byte, a int) byte {
	return byte(min(int(s)+(int(d)*(255-a)+127)/255, 255))
}

// Blend draws a w*h premultiplied alpha RGBA overlay onto a packed RGB
// plane. Planar and YUV formats are left untouched.
func Blend(dst csri.Plane, pf csri.PixFmt, w, h int, overlay []byte) {
	l, ok := pf.Layout()
	if !ok || len(overlay) < w*h*4 {
		return
	}
	bpp := pf.BytesPerPixel()

	for y := 0; y < h; y++ {
		row := dst.Row(y)
		if row < 0 || row+w*bpp > len(dst.Data) {
			continue
		}
		src := overlay[y*w*4 : (y+1)*w*4]
		for x := 0; x < w; x++ {
			s := src[x*4 : x*4+4]
			a := int(s[3])
			if a == 0 {
				continue
			}
			p := dst.Data[row+x*bpp : row+x*bpp+bpp]
			p[l.R] = over(s[0], p[l.R], a)
			p[l.G] = over(s[1], p[l.G], a)
			p[l.B] = over(s[2], p[l.B], a)
			if l.A >= 0 {
				p[l.A] = over(s[3], p[l.A], a)
			}
		}
	}
}
