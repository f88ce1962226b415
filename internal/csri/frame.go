package csri

// Plane is a view of one image plane. Row y starts at Data[Offset+y*Stride],
// Stride is negative for bottom-up storage.
type Plane struct {
	Data   []byte
	Offset int
	Stride int
}

// Row returns the byte offset in Data of image row y
func (p Plane) Row(y int) int {
	return p.Offset + y*p.Stride
}

// Frame is what a renderer draws into, csri_frame
type Frame struct {
	PixFmt PixFmt
	Planes [4]Plane
}

// Fmt is a requested output format, csri_fmt
type Fmt struct {
	PixFmt PixFmt
	Width  int
	Height int
}
