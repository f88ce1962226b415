package provider

import (
	"errors"
	"fmt"

	"github.com/wader/subcat/internal/csri"
	"github.com/wader/subcat/internal/video"
)

// ErrNoRenderer is returned when loading with an empty renderer chain
var ErrNoRenderer = errors.New("no CSRI renderer available. Try installing one or switch to another subtitle provider")

func init() {
	Register("csri", csriFactory{rt: csri.DefaultRuntime})
}

type csriFactory struct {
	rt csri.Runtime
}

func (f csriFactory) Create(subType string) (Provider, error) {
	return NewCSRIProvider(f.rt, subType), nil
}

// SubTypes is evaluated on each call so backends registered later are seen
func (f csriFactory) SubTypes() []string {
	return ListRenderers(f.rt)
}

// ListRenderers returns the renderer names of rt in chain order
func ListRenderers(rt csri.Runtime) []string {
	var names []string
	for r := range csri.Renderers(rt) {
		names = append(names, r.Info().Name)
	}
	return names
}

// CSRIProvider draws subtitles with a renderer from a CSRI runtime
type CSRIProvider struct {
	rt      csri.Runtime
	subType string

	instance csri.Instance
}

// NewCSRIProvider returns a provider preferring the renderer named subType,
// otherwise the runtime default
func NewCSRIProvider(rt csri.Runtime, subType string) *CSRIProvider {
	return &CSRIProvider{rt: rt, subType: subType}
}

func (p *CSRIProvider) closeInstance() error {
	if p.instance == nil {
		return nil
	}
	err := p.instance.Close()
	p.instance = nil
	return err
}

func (p *CSRIProvider) renderer() csri.Renderer {
	for r := range csri.Renderers(p.rt) {
		if r.Info().Name == p.subType {
			return r
		}
	}
	r := p.rt.Default()
	if r != nil {
		csri.Logger().Debug("csri: renderer not found, using default", "want", p.subType, "default", r.Info().Name)
	}
	return r
}

// LoadSubtitles closes the current instance and opens doc, doc is released
// even on error
func (p *CSRIProvider) LoadSubtitles(doc Document) error {
	if err := p.closeInstance(); err != nil {
		csri.Logger().Warn("csri: close failed", "error", err)
	}

	data, err := doc.SaveMemory("UTF-8")
	doc.Release()
	if err != nil {
		return err
	}

	r := p.renderer()
	if r == nil {
		return ErrNoRenderer
	}

	name := r.Info().Name
	inst, err := r.OpenMem(data, nil)
	if err != nil {
		return fmt.Errorf("csri: %s: %w", name, err)
	}
	csri.Logger().Debug("csri: opened", "renderer", name, "bytes", len(data))
	p.instance = inst

	return nil
}

// PlaneView returns offset and stride of the first image row for a plane
// at base. Flipped planes start at the last row in memory and walk
// backwards.
func PlaneView(base, stride, height int, flipped bool) (int, int) {
	if flipped {
		return base + (height-1)*stride, -stride
	}
	return base, stride
}

var pixFmts = map[video.Format]csri.PixFmt{
	video.FormatRGB32: csri.PixFmtBGRX,
	video.FormatRGB24: csri.PixFmtBGR,
}

// PixFmtFor maps a frame format to the CSRI format renderers draw in,
// formats without a mapping are treated as RGB32
func PixFmtFor(f video.Format) csri.PixFmt {
	if pf, ok := pixFmts[f]; ok {
		return pf
	}
	return csri.PixFmtBGRX
}

// DrawSubtitles draws onto dst in place. Does nothing when nothing is
// loaded and skips the frame when the renderer rejects its format.
func (p *CSRIProvider) DrawSubtitles(dst *video.Frame, t float64) {
	if p.instance == nil {
		return
	}

	frame := csri.Frame{PixFmt: PixFmtFor(dst.Format)}
	for i, data := range dst.Data {
		if data == nil {
			continue
		}
		off, stride := PlaneView(0, dst.Pitch[i], dst.PlaneRows(i), dst.Flipped)
		frame.Planes[i] = csri.Plane{Data: data, Offset: off, Stride: stride}
	}

	f := csri.Fmt{PixFmt: frame.PixFmt, Width: dst.W, Height: dst.H}
	if err := p.instance.RequestFmt(f); err != nil {
		csri.Logger().Debug("csri: format rejected", "format", f.PixFmt, "width", f.Width, "height", f.Height, "error", err)
		return
	}
	p.instance.Render(&frame, t)
}

// Close closes the open instance, if any. Calling Close again does nothing.
func (p *CSRIProvider) Close() error {
	return p.closeInstance()
}
