//go:build csri

package libcsri

/*
#cgo pkg-config: csri
#include <stdlib.h>
#include <csri/csri.h>

static struct csri_openflag *subcat_openflag(char *name, char *value, struct csri_openflag *next) {
	struct csri_openflag *f = calloc(1, sizeof(*f));
	if (f == NULL) {
		return NULL;
	}
	f->name = name;
	f->data.utf8val = value;
	f->next = next;
	return f;
}

static void subcat_free_openflags(struct csri_openflag *f) {
	while (f != NULL) {
		struct csri_openflag *next = f->next;
		free((void *)f->name);
		free((void *)f->data.utf8val);
		free(f);
		f = next;
	}
}
*/
import "C"

import (
	"errors"
	"runtime"
	"unsafe"

	"github.com/wader/subcat/internal/csri"
)

func init() {
	n := 0
	for r := C.csri_renderer_default(); r != nil; r = C.csri_renderer_next(r) {
		csri.Register(&renderer{r: r})
		n++
	}
	csri.Logger().Debug("libcsri: registered renderers", "count", n)
}

type renderer struct {
	r unsafe.Pointer
}

func (r *renderer) Info() csri.Info {
	ci := C.csri_renderer_info(r.r)
	if ci == nil {
		return csri.Info{}
	}
	return csri.Info{
		Name:      C.GoString(ci.name),
		Specific:  C.GoString(ci.specific),
		LongName:  C.GoString(ci.longname),
		Author:    C.GoString(ci.author),
		Copyright: C.GoString(ci.copyright),
	}
}

// cOpenFlags copies flags to C memory, free with subcat_free_openflags
func cOpenFlags(flags *csri.OpenFlag) (*C.struct_csri_openflag, error) {
	var fs []*csri.OpenFlag
	for f := flags; f != nil; f = f.Next {
		fs = append(fs, f)
	}
	var head *C.struct_csri_openflag
	// built backwards to keep order
	for i := len(fs) - 1; i >= 0; i-- {
		n := C.subcat_openflag(C.CString(fs[i].Name), C.CString(fs[i].Value), head)
		if n == nil {
			C.subcat_free_openflags(head)
			return nil, errors.New("libcsri: out of memory")
		}
		head = n
	}
	return head, nil
}

func (r *renderer) OpenMem(data []byte, flags *csri.OpenFlag) (csri.Instance, error) {
	cflags, err := cOpenFlags(flags)
	if err != nil {
		return nil, err
	}
	defer C.subcat_free_openflags(cflags)

	cdata := C.CBytes(data)
	defer C.free(cdata)

	inst := C.csri_open_mem(r.r, cdata, C.size_t(len(data)), cflags)
	if inst == nil {
		return nil, errors.New("libcsri: " + r.Info().Name + ": open failed")
	}
	return &instance{inst: inst}, nil
}

type instance struct {
	inst unsafe.Pointer
}

func (i *instance) RequestFmt(f csri.Fmt) error {
	if i.inst == nil {
		return errors.New("libcsri: instance closed")
	}
	if f.Width <= 0 || f.Height <= 0 {
		return csri.ErrFmt{Code: -1, Fmt: f}
	}
	cf := C.struct_csri_fmt{
		pixfmt: C.enum_csri_pixfmt(f.PixFmt),
		width:  C.uint(f.Width),
		height: C.uint(f.Height),
	}
	if rc := C.csri_request_fmt(i.inst, &cf); rc != 0 {
		return csri.ErrFmt{Code: int(rc), Fmt: f}
	}
	return nil
}

func (i *instance) Render(frame *csri.Frame, t float64) {
	if i.inst == nil {
		return
	}

	var pinner runtime.Pinner
	defer pinner.Unpin()

	cf := &C.struct_csri_frame{pixfmt: C.enum_csri_pixfmt(frame.PixFmt)}
	for n, p := range frame.Planes {
		if p.Offset < 0 || p.Offset >= len(p.Data) {
			continue
		}
		ptr := &p.Data[p.Offset]
		pinner.Pin(ptr)
		cf.planes[n] = (*C.uchar)(unsafe.Pointer(ptr))
		cf.strides[n] = C.ptrdiff_t(p.Stride)
	}
	pinner.Pin(cf)

	C.csri_render(i.inst, cf, C.double(t))
}

func (i *instance) Close() error {
	if i.inst == nil {
		return nil
	}
	C.csri_close(i.inst)
	i.inst = nil
	return nil
}
